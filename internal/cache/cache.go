// Package cache provides the TTL cache injected in front of the upstream
// collections. A cache failure is never fatal to a report; callers log it and
// fall through to the upstream.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Drivers accepted by New
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverNone   = "none"
)

// Cache stores opaque payloads under string keys
type Cache interface {
	// Get returns the payload and true on a hit
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Invalidate drops the given keys; missing keys are not an error
	Invalidate(ctx context.Context, keys ...string) error
}

// Options configure New
type Options struct {
	Driver        string
	TTL           time.Duration
	Size          int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New builds the cache selected by opts.Driver
func New(opts Options) (Cache, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemory(opts.Size, opts.TTL), nil
	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		return NewRedis(client, opts.TTL), nil
	case DriverNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", opts.Driver)
	}
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Invalidate(context.Context, ...string) error       { return nil }
