package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"rusunawa-recon-svc/internal/engine"
)

// SourceRepository defines the upstream collections the report is computed from.
// Records are returned raw; normalization happens in the engine.
type SourceRepository interface {
	FetchTenants(ctx context.Context) ([]map[string]any, error)
	FetchBookings(ctx context.Context) ([]map[string]any, error)
	FetchRooms(ctx context.Context) ([]map[string]any, error)
	FetchPayments(ctx context.Context) ([]map[string]any, error)
	FetchInvoices(ctx context.Context) ([]map[string]any, error)
}

// SourceFetchError reports that one upstream collection could not be loaded
type SourceFetchError struct {
	Source engine.Source
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// ErrUnrecognisedEnvelope is returned when a response body holds no record list
var ErrUnrecognisedEnvelope = errors.New("unrecognised response envelope")

// Fetch dispatches to the repository method serving src
func Fetch(ctx context.Context, repo SourceRepository, src engine.Source) ([]map[string]any, error) {
	switch src {
	case engine.SourceTenants:
		return repo.FetchTenants(ctx)
	case engine.SourceBookings:
		return repo.FetchBookings(ctx)
	case engine.SourceRooms:
		return repo.FetchRooms(ctx)
	case engine.SourcePayments:
		return repo.FetchPayments(ctx)
	case engine.SourceInvoices:
		return repo.FetchInvoices(ctx)
	}
	return nil, &SourceFetchError{Source: src, Err: errors.New("unknown source")}
}

// UpstreamOptions configure the REST repository
type UpstreamOptions struct {
	BaseURL    string
	Paths      map[engine.Source]string
	Timeout    time.Duration
	RetryCount int
	// Headers are sent with every request, e.g. an Authorization header
	Headers map[string]string
}

// restSourceRepository implements SourceRepository over the Rusunawa REST API
type restSourceRepository struct {
	client *resty.Client
	paths  map[engine.Source]string
}

// NewSourceRepository creates a new instance of SourceRepository
func NewSourceRepository(opts UpstreamOptions) SourceRepository {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")
	for k, v := range opts.Headers {
		client.SetHeader(k, v)
	}

	paths := make(map[engine.Source]string, len(engine.AllSources))
	for _, src := range engine.AllSources {
		paths[src] = "/" + string(src)
	}
	for src, p := range opts.Paths {
		if p != "" {
			paths[src] = p
		}
	}

	return &restSourceRepository{client: client, paths: paths}
}

func (r *restSourceRepository) FetchTenants(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourceTenants)
}

func (r *restSourceRepository) FetchBookings(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourceBookings)
}

func (r *restSourceRepository) FetchRooms(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourceRooms)
}

func (r *restSourceRepository) FetchPayments(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourcePayments)
}

func (r *restSourceRepository) FetchInvoices(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourceInvoices)
}

func (r *restSourceRepository) fetch(ctx context.Context, src engine.Source) ([]map[string]any, error) {
	resp, err := r.client.R().SetContext(ctx).Get(r.paths[src])
	if err != nil {
		return nil, &SourceFetchError{Source: src, Err: err}
	}
	if resp.IsError() {
		return nil, &SourceFetchError{Source: src, Err: fmt.Errorf("upstream returned status %d", resp.StatusCode())}
	}

	records, err := ExtractRecords(resp.Body(), string(src))
	if err != nil {
		return nil, &SourceFetchError{Source: src, Err: err}
	}
	return records, nil
}

// envelopeKeys are the members a wrapped list may live under, besides the collection name
var envelopeKeys = []string{"data", "items", "results", "records"}

// ExtractRecords decodes a response body holding a bare array or an object
// wrapping it under data, items, results, records or the collection name,
// possibly one level deeper (data.tenants). Non-object elements are dropped.
func ExtractRecords(body []byte, collection string) ([]map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	list, ok := findList(decoded, collection, 2)
	if !ok {
		return nil, ErrUnrecognisedEnvelope
	}

	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, isObj := item.(map[string]any); isObj {
			records = append(records, obj)
		}
	}
	return records, nil
}

func findList(v any, collection string, depth int) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case map[string]any:
		if depth == 0 {
			return nil, false
		}
		keys := append([]string{collection}, envelopeKeys...)
		for _, key := range keys {
			inner, present := val[key]
			if !present || inner == nil {
				continue
			}
			if list, ok := findList(inner, collection, depth-1); ok {
				return list, true
			}
		}
	}
	return nil, false
}
