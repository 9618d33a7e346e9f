package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process LRU whose entries expire after a TTL
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates a memory cache holding at most size entries.
// A non-positive ttl keeps entries until they are evicted.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = 64
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.lru.Remove(key)
	}
	return nil
}
