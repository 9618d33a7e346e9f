// Package distribution builds categorical histograms over normalized collections.
package distribution

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unknown buckets records whose key is missing
const Unknown = "Unknown"

// GroupBy counts items per key. Empty keys are counted under Unknown.
// The result is never nil.
func GroupBy[T any](items []T, keyFn func(T) string) map[string]int {
	out := make(map[string]int)
	for _, item := range items {
		out[bucket(keyFn(item))]++
	}
	return out
}

// SumBy totals valueFn per key with the same bucketing as GroupBy
func SumBy[T any](items []T, keyFn func(T) string, valueFn func(T) decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, item := range items {
		key := bucket(keyFn(item))
		current, ok := out[key]
		if !ok {
			current = decimal.Zero
		}
		out[key] = current.Add(valueFn(item))
	}
	return out
}

// Flatten expands each item into zero or more keys before counting,
// e.g. tenants into their document statuses
func Flatten[T any](items []T, keysFn func(T) []string) map[string]int {
	out := make(map[string]int)
	for _, item := range items {
		for _, key := range keysFn(item) {
			out[bucket(key)]++
		}
	}
	return out
}

// Floats converts a decimal map for JSON output
func Floats(in map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v.InexactFloat64()
	}
	return out
}

func bucket(key string) string {
	if strings.TrimSpace(key) == "" {
		return Unknown
	}
	return key
}
