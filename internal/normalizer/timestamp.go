package normalizer

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// zoneless layouts are parsed in UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp converts a loosely typed timestamp into a time.
//
// Accepted shapes: time.Time, *time.Time, ISO-8601 strings, protobuf style
// objects ({"seconds": 1700000000, "nanos": 0}, seconds possibly a string),
// and bare numbers which are read as epoch milliseconds. The zero time is
// treated as unset. Anything unparsable yields nil.
func ParseTimestamp(v any) *time.Time {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return nonZero(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return nonZero(*val)
	case string:
		return parseTimestampString(val)
	case map[string]any:
		return parseSecondsObject(val)
	case json.Number:
		ms, err := val.Int64()
		if err != nil {
			return nil
		}
		return nonZero(time.UnixMilli(ms).UTC())
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		ms, err := cast.ToInt64E(val)
		if err != nil {
			return nil
		}
		return nonZero(time.UnixMilli(ms).UTC())
	}
	return nil
}

func parseTimestampString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return nonZero(t)
		}
	}
	return nil
}

func parseSecondsObject(obj map[string]any) *time.Time {
	raw, ok := obj["seconds"]
	if !ok {
		raw, ok = obj["Seconds"]
	}
	if !ok || raw == nil {
		return nil
	}
	secs, err := cast.ToInt64E(raw)
	if err != nil {
		return nil
	}
	var nanos int64
	if n, ok := obj["nanos"]; ok {
		nanos, _ = cast.ToInt64E(n)
	}
	t := time.Unix(secs, nanos).UTC()
	return &t
}

func nonZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
