package repository

import (
	"context"
	"encoding/json"

	"rusunawa-recon-svc/internal/cache"
	"rusunawa-recon-svc/internal/engine"
	"rusunawa-recon-svc/pkg/logger"
)

// CachedSourceRepository serves upstream collections from a TTL cache.
// Cache failures are logged and fall through to the upstream; a stale entry
// only ever yields a slightly outdated report.
type CachedSourceRepository interface {
	SourceRepository
	// Invalidate drops every cached collection
	Invalidate(ctx context.Context) error
}

type cachedSourceRepository struct {
	next  SourceRepository
	cache cache.Cache
	log   *logger.Logger
}

// NewCachedSourceRepository wraps next with c
func NewCachedSourceRepository(next SourceRepository, c cache.Cache, log *logger.Logger) CachedSourceRepository {
	return &cachedSourceRepository{next: next, cache: c, log: log}
}

func cacheKey(src engine.Source) string {
	return "source:" + string(src)
}

func (r *cachedSourceRepository) FetchTenants(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourceTenants)
}

func (r *cachedSourceRepository) FetchBookings(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourceBookings)
}

func (r *cachedSourceRepository) FetchRooms(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourceRooms)
}

func (r *cachedSourceRepository) FetchPayments(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourcePayments)
}

func (r *cachedSourceRepository) FetchInvoices(ctx context.Context) ([]map[string]any, error) {
	return r.fetch(ctx, engine.SourceInvoices)
}

func (r *cachedSourceRepository) fetch(ctx context.Context, src engine.Source) ([]map[string]any, error) {
	key := cacheKey(src)
	entry := r.log.WithField("source", src)

	payload, hit, err := r.cache.Get(ctx, key)
	switch {
	case err != nil:
		entry.WithError(err).Warn("Cache read failed, fetching from upstream")
	case hit:
		var records []map[string]any
		if err := json.Unmarshal(payload, &records); err == nil {
			entry.Debug("Served collection from cache")
			return records, nil
		}
		entry.Warn("Discarding undecodable cache entry")
	}

	records, err := Fetch(ctx, r.next, src)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(records); err == nil {
		if err := r.cache.Set(ctx, key, raw); err != nil {
			entry.WithError(err).Warn("Cache write failed")
		}
	}
	return records, nil
}

func (r *cachedSourceRepository) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(engine.AllSources))
	for _, src := range engine.AllSources {
		keys = append(keys, cacheKey(src))
	}
	return r.cache.Invalidate(ctx, keys...)
}
