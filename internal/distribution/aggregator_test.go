package distribution

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rusunawa-recon-svc/internal/models"
)

func TestGroupBy(t *testing.T) {
	payments := []models.Payment{
		{PaymentMethod: "bank_transfer"},
		{PaymentMethod: "cash"},
		{PaymentMethod: "bank_transfer"},
		{PaymentMethod: ""},
		{PaymentMethod: "  "},
	}

	got := GroupBy(payments, func(p models.Payment) string { return p.PaymentMethod })

	assert.Equal(t, map[string]int{"bank_transfer": 2, "cash": 1, Unknown: 2}, got)
}

func TestGroupByEmptyIsNotNil(t *testing.T) {
	got := GroupBy([]models.Room(nil), func(r models.Room) string { return r.Classification })
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSumBy(t *testing.T) {
	payments := []models.Payment{
		{PaymentMethod: "cash", Amount: decimal.NewFromInt(100)},
		{PaymentMethod: "cash", Amount: decimal.NewFromFloat(0.5)},
		{Amount: decimal.NewFromInt(7)},
	}

	got := Floats(SumBy(payments,
		func(p models.Payment) string { return p.PaymentMethod },
		func(p models.Payment) decimal.Decimal { return p.Amount },
	))

	assert.Equal(t, map[string]float64{"cash": 100.5, Unknown: 7}, got)
}

func TestFlatten(t *testing.T) {
	tenants := []models.Tenant{
		{Documents: []models.Document{{Status: "verified"}, {Status: "pending"}}},
		{Documents: []models.Document{{Status: "verified"}, {}}},
		{},
	}

	got := Flatten(tenants, func(t models.Tenant) []string {
		keys := make([]string, 0, len(t.Documents))
		for _, d := range t.Documents {
			keys = append(keys, d.Status)
		}
		return keys
	})

	assert.Equal(t, map[string]int{"verified": 2, "pending": 1, Unknown: 1}, got)
}
