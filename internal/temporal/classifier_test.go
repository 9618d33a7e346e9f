package temporal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rusunawa-recon-svc/internal/models"
)

var refNow = time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func approved(in, out *time.Time) models.Occupant {
	return models.Occupant{Status: models.BookingStatusApproved, CheckIn: in, CheckOut: out}
}

func TestClassifyRequiresApprovedStatus(t *testing.T) {
	for _, status := range []string{"", "pending", "confirmed", "checked_in", "APPROVED"} {
		rec := models.Occupant{Status: status, CheckIn: at(2025, 1, 1), CheckOut: at(2025, 12, 31)}
		for _, w := range append(Windows, Window("bogus")) {
			assert.False(t, Classify(rec, w, refNow), "status %q window %s", status, w)
		}
	}
}

func TestClassifyRejectsUnparsedBoundaries(t *testing.T) {
	for _, rec := range []models.Occupant{
		approved(nil, at(2025, 12, 31)),
		approved(at(2025, 1, 1), nil),
		approved(nil, nil),
	} {
		for _, w := range Windows {
			assert.False(t, Classify(rec, w, refNow))
		}
	}
}

func TestClassifyCurrentIsBoundaryInclusive(t *testing.T) {
	start := refNow
	end := refNow

	assert.True(t, Classify(approved(&start, &end), Current, refNow))

	before := refNow.Add(-time.Nanosecond)
	after := refNow.Add(time.Nanosecond)
	assert.True(t, Classify(approved(&before, &after), Current, refNow))
	assert.False(t, Classify(approved(&after, at(2026, 1, 1)), Current, refNow))
	assert.False(t, Classify(approved(at(2025, 1, 1), &before), Current, refNow))
}

func TestClassifyWindows(t *testing.T) {
	tests := []struct {
		name string
		rec  models.Occupant
		want map[Window]bool
	}{
		{
			name: "active since january",
			rec:  approved(at(2025, 1, 10), at(2025, 12, 20)),
			want: map[Window]bool{Current: true, ThisYear: true, Last6Months: false, Future: false, All: true},
		},
		{
			name: "checked in last spring, already out",
			rec:  approved(at(2025, 3, 1), at(2025, 6, 30)),
			want: map[Window]bool{Current: false, ThisYear: true, Last6Months: true, Future: false, All: true},
		},
		{
			name: "starts next month",
			rec:  approved(at(2025, 9, 1), at(2026, 2, 28)),
			want: map[Window]bool{Current: false, ThisYear: true, Last6Months: false, Future: true, All: true},
		},
		{
			name: "started last year",
			rec:  approved(at(2024, 12, 31), at(2025, 12, 31)),
			want: map[Window]bool{Current: true, ThisYear: false, Last6Months: false, Future: false, All: true},
		},
		{
			name: "exactly six months ago",
			rec:  approved(&[]time.Time{refNow.AddDate(0, -6, 0)}[0], at(2025, 3, 1)),
			want: map[Window]bool{Current: false, ThisYear: true, Last6Months: true, Future: false, All: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for w, want := range tt.want {
				assert.Equal(t, want, Classify(tt.rec, w, refNow), "window %s", w)
			}
		})
	}
}

func TestUnknownWindowPolicy(t *testing.T) {
	rec := approved(at(2025, 8, 1), at(2025, 8, 31))

	ok, err := Classifier{UnknownWindow: FallbackCurrent}.Classify(rec, "next_decade", refNow)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Classifier{UnknownWindow: Reject}.Classify(rec, "next_decade", refNow)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrUnknownWindow))
}

func TestFilter(t *testing.T) {
	recs := []models.Occupant{
		approved(at(2025, 8, 1), at(2025, 8, 31)),
		approved(at(2025, 9, 1), at(2025, 9, 30)),
		{Status: "pending", CheckIn: at(2025, 8, 1), CheckOut: at(2025, 8, 31)},
	}
	got, err := Classifier{}.Filter(recs, Current, refNow)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = Classifier{UnknownWindow: Reject}.Filter(recs, "weekly", refNow)
	assert.Error(t, err)
}

func TestFilterRejectsUnknownWindowOnEmptyInput(t *testing.T) {
	_, err := Classifier{UnknownWindow: Reject}.Filter(nil, "weekly", refNow)
	assert.ErrorIs(t, err, ErrUnknownWindow)

	got, err := Classifier{}.Filter(nil, "weekly", refNow)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("Last-6-Months")
	require.NoError(t, err)
	assert.Equal(t, Last6Months, w)

	w, err = ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, Current, w)

	_, err = ParseWindow("fortnight")
	assert.ErrorIs(t, err, ErrUnknownWindow)
}
