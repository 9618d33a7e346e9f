package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetOptionalIntQuery parses an optional integer query parameter.
// A missing or empty value returns nil without error.
func GetOptionalIntQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter format: %w", name, err)
	}
	return &value, nil
}

// GetOptionalTimeQuery parses an optional RFC3339 (or YYYY-MM-DD) query parameter
func GetOptionalTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter format, expected RFC3339 or YYYY-MM-DD", name)
	}
	return &t, nil
}
