package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSucceeded reports whether a payment status counts as revenue
func PaymentSucceeded(status string) bool {
	switch status {
	case "verified", "paid", "completed":
		return true
	}
	return false
}

// Payment is the canonical payment record
type Payment struct {
	PaymentID     string          `json:"payment_id"`
	InvoiceID     string          `json:"invoice_id"`
	BookingID     string          `json:"booking_id"`
	TenantID      string          `json:"tenant_id"`
	Amount        decimal.Decimal `json:"amount"`
	AmountValid   bool            `json:"amount_valid"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaidAt        *time.Time      `json:"paid_at"`
	CreatedAt     *time.Time      `json:"created_at"`
}

// EffectiveAt is the timestamp revenue is booked against: paidAt, then createdAt
func (p Payment) EffectiveAt() *time.Time {
	if p.PaidAt != nil {
		return p.PaidAt
	}
	return p.CreatedAt
}
