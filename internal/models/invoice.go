package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatusPaid is the only invoice status that counts as revenue
const InvoiceStatusPaid = "paid"

// Invoice is the canonical invoice record
type Invoice struct {
	InvoiceID   string          `json:"invoice_id"`
	BookingID   string          `json:"booking_id"`
	TenantID    string          `json:"tenant_id"`
	Amount      decimal.Decimal `json:"amount"`
	AmountValid bool            `json:"amount_valid"`
	Status      string          `json:"status"`
	CreatedAt   *time.Time      `json:"created_at"`
	PaidAt      *time.Time      `json:"paid_at"`
	DueDate     *time.Time      `json:"due_date"`
}
