package normalizer

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// aliases lists every upstream spelling of one canonical field, in priority order.
// Dotted entries walk nested objects.
type aliases []string

// lookup returns the first non-nil value found under any alias
func lookup(raw map[string]any, names aliases) (any, bool) {
	for _, name := range names {
		if v, ok := walk(raw, name); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func walk(raw map[string]any, path string) (any, bool) {
	var current any = raw
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// text reads a string field; objects contribute their name/value member
func text(raw map[string]any, names aliases) string {
	v, ok := lookup(raw, names)
	if !ok {
		return ""
	}
	return toText(v)
}

func toText(v any) string {
	if obj, ok := v.(map[string]any); ok {
		for _, key := range []string{"name", "value", "code"} {
			if inner, ok := obj[key]; ok && inner != nil {
				return toText(inner)
			}
		}
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// identifier reads an id that may arrive as a number or a numeric string
func identifier(raw map[string]any, names aliases) string {
	v, ok := lookup(raw, names)
	if !ok {
		return ""
	}
	if f, isFloat := v.(float64); isFloat && f == float64(int64(f)) {
		return cast.ToString(int64(f))
	}
	s := toText(v)
	if f, err := cast.ToFloat64E(s); err == nil && f == float64(int64(f)) && strings.ContainsAny(s, ".eE") {
		return cast.ToString(int64(f))
	}
	return s
}

// status reads a status field, lower-cased and trimmed
func status(raw map[string]any, names aliases) string {
	return strings.ToLower(text(raw, names))
}

// category reads a categorical label in snake_case lower form
func category(raw map[string]any, names aliases) string {
	s := strings.ToLower(text(raw, names))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func integer(raw map[string]any, names aliases) int {
	v, ok := lookup(raw, names)
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}

func boolean(raw map[string]any, names aliases) bool {
	v, ok := lookup(raw, names)
	if !ok {
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

func floatPtr(raw map[string]any, names aliases) *float64 {
	v, ok := lookup(raw, names)
	if !ok {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

// amount reads a monetary value; ok is false when it is missing or unparsable
func amount(raw map[string]any, names aliases) (decimal.Decimal, bool) {
	v, found := lookup(raw, names)
	if !found {
		return decimal.Zero, false
	}
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(f), true
	}
}

// objects reads an array of JSON objects, skipping anything else
func objects(raw map[string]any, names aliases) []map[string]any {
	v, ok := lookup(raw, names)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		if typed, isTyped := v.([]map[string]any); isTyped {
			return typed
		}
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
