package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rusunawa-recon-svc/internal/engine"
)

func TestExtractRecords(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2, false},
		{"data array", `{"success":true,"data":[{"id":1}]}`, 1, false},
		{"collection key", `{"tenants":[{"id":1},{"id":2},{"id":3}]}`, 3, false},
		{"nested collection", `{"data":{"tenants":[{"id":1}],"total":1}}`, 1, false},
		{"nested items", `{"data":{"items":[{"id":1},{"id":2}]}}`, 2, false},
		{"drops non objects", `[{"id":1}, 2, "x", null]`, 1, false},
		{"empty list", `{"data":[]}`, 0, false},
		{"no list", `{"message":"ok"}`, 0, true},
		{"not json", `<html>`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractRecords([]byte(tt.body), "tenants")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			assert.NotNil(t, got)
		})
	}
}

func newUpstream(t *testing.T, handler http.HandlerFunc) SourceRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSourceRepository(UpstreamOptions{
		BaseURL: srv.URL,
		Paths:   map[engine.Source]string{engine.SourceRooms: "/v2/rooms"},
		Timeout: 2 * time.Second,
		Headers: map[string]string{"Authorization": "Bearer test"},
	})
}

func TestRestSourceRepositoryFetch(t *testing.T) {
	repo := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/tenants":
			_, _ = w.Write([]byte(`{"data":{"tenants":[{"tenantId":1}]}}`))
		case "/v2/rooms":
			_, _ = w.Write([]byte(`[{"roomId":1},{"roomId":2}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	tenants, err := repo.FetchTenants(context.Background())
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, float64(1), tenants[0]["tenantId"])

	rooms, err := Fetch(context.Background(), repo, engine.SourceRooms)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestRestSourceRepositoryFailures(t *testing.T) {
	repo := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payments":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"message":"maintenance"}`))
		}
	})

	_, err := repo.FetchPayments(context.Background())
	var fetchErr *SourceFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, engine.SourcePayments, fetchErr.Source)
	assert.Contains(t, err.Error(), "502")

	_, err = repo.FetchInvoices(context.Background())
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, ErrUnrecognisedEnvelope)
}

func TestRestSourceRepositoryHonoursContext(t *testing.T) {
	repo := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchBookings(ctx)
	var fetchErr *SourceFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, engine.SourceBookings, fetchErr.Source)
}
