// Package export renders a computed AggregateReport for download. Nothing here
// recomputes a metric; every figure is read from the report as-is.
package export

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// ChartPoint is one slice of a pie or bar chart
type ChartPoint struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ChartSeries converts a distribution into chart points ordered by value
// descending, then name ascending. Percentages are of the distribution total,
// rounded to one decimal.
func ChartSeries(dist map[string]int) []ChartPoint {
	total := 0
	for _, v := range dist {
		total += v
	}

	points := make([]ChartPoint, 0, len(dist))
	for name, v := range dist {
		p := ChartPoint{Name: name, Value: v}
		if total > 0 {
			p.Percentage = decimal.NewFromInt(int64(v)).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(total))).
				Round(1).
				InexactFloat64()
		}
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Name < points[j].Name
	})
	return points
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}
