// Package temporal decides whether an occupancy interval belongs to a named reporting window.
package temporal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jnow "github.com/jinzhu/now"

	"rusunawa-recon-svc/internal/models"
)

// Window names a reporting window
type Window string

const (
	Current     Window = "current"
	ThisYear    Window = "this_year"
	Last6Months Window = "last_6_months"
	Future      Window = "future"
	All         Window = "all"
)

// Windows lists every known window in report order
var Windows = []Window{Current, ThisYear, Last6Months, Future, All}

// ErrUnknownWindow is returned when a window name is not recognised and the policy rejects it
var ErrUnknownWindow = errors.New("unknown temporal window")

// UnknownWindowPolicy selects how unrecognised window names are handled
type UnknownWindowPolicy int

const (
	// FallbackCurrent evaluates unknown windows with the current rule
	FallbackCurrent UnknownWindowPolicy = iota
	// Reject returns ErrUnknownWindow
	Reject
)

// Valid reports whether w is one of the known windows
func (w Window) Valid() bool {
	for _, known := range Windows {
		if w == known {
			return true
		}
	}
	return false
}

// ParseWindow reads a window name leniently ("Last-6-Months" → last_6_months).
// Unknown names are returned as-is together with ErrUnknownWindow.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if w == "" {
		return Current, nil
	}
	if !w.Valid() {
		return w, fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
	return w, nil
}

// Classifier evaluates window membership under an unknown-window policy
type Classifier struct {
	UnknownWindow UnknownWindowPolicy
}

// Classify reports whether rec belongs to window w at time now.
// Only approved records with both boundaries parsed are ever members.
func (c Classifier) Classify(rec models.Occupant, w Window, now time.Time) (bool, error) {
	if !w.Valid() {
		if c.UnknownWindow == Reject {
			return false, fmt.Errorf("%w: %q", ErrUnknownWindow, string(w))
		}
		w = Current
	}
	if rec.Status != models.BookingStatusApproved {
		return false, nil
	}
	if rec.CheckIn == nil || rec.CheckOut == nil {
		return false, nil
	}
	checkIn, checkOut := *rec.CheckIn, *rec.CheckOut

	switch w {
	case ThisYear:
		year := jnow.With(now)
		return within(checkIn, year.BeginningOfYear(), year.EndOfYear()), nil
	case Last6Months:
		return within(checkIn, now.AddDate(0, -6, 0), now), nil
	case Future:
		return checkIn.After(now), nil
	case All:
		return true, nil
	default:
		return within(now, checkIn, checkOut), nil
	}
}

// Filter returns the records of recs that belong to window w. Under the
// Reject policy an unknown window fails even when recs is empty.
func (c Classifier) Filter(recs []models.Occupant, w Window, now time.Time) ([]models.Occupant, error) {
	if !w.Valid() && c.UnknownWindow == Reject {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, string(w))
	}
	out := make([]models.Occupant, 0, len(recs))
	for _, rec := range recs {
		ok, err := c.Classify(rec, w, now)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Classify applies the default classifier, which falls back to the current rule
func Classify(rec models.Occupant, w Window, now time.Time) bool {
	ok, _ := Classifier{}.Classify(rec, w, now)
	return ok
}

// within is boundary-inclusive on both ends
func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
