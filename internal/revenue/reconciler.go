// Package revenue reconciles payment-derived and invoice-derived revenue figures.
package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"rusunawa-recon-svc/internal/models"
	"rusunawa-recon-svc/internal/models/response"
)

// Policy holds the reconciliation policy flags
type Policy struct {
	// PreferHigher resolves a disagreement with the larger of the two figures.
	// When false the payment figure is always authoritative.
	PreferHigher bool
}

// DefaultPolicy assumes under-reporting when payments and invoices disagree
func DefaultPolicy() Policy {
	return Policy{PreferHigher: true}
}

// Reconciler computes revenue figures from normalized payments and invoices
type Reconciler struct {
	policy Policy
}

// NewReconciler creates a revenue reconciler
func NewReconciler(policy Policy) *Reconciler {
	return &Reconciler{policy: policy}
}

// Totals are all-time payment figures
type Totals struct {
	Revenue  decimal.Decimal
	Verified int
	Pending  int
	Failed   int
}

// ReconcileMonthlyRevenue computes the revenue of (year, month) from payments,
// recomputes it from paid invoices, and resolves the two under the policy.
// Months are evaluated in loc; a nil loc means UTC.
func (r *Reconciler) ReconcileMonthlyRevenue(payments []models.Payment, invoices []models.Invoice, year, month int, loc *time.Location) response.MonthlyRevenue {
	start, end := monthRange(year, month, loc)

	result := response.MonthlyRevenue{Year: start.Year(), Month: int(start.Month())}

	apiRevenue := decimal.Zero
	for _, p := range payments {
		if !models.PaymentSucceeded(p.Status) || !p.AmountValid {
			continue
		}
		if !inRange(p.EffectiveAt(), start, end) {
			continue
		}
		apiRevenue = apiRevenue.Add(p.Amount)
		result.MonthlyPayments++
	}

	invoiceRevenue := decimal.Zero
	for _, inv := range invoices {
		if !inRange(inv.CreatedAt, start, end) {
			continue
		}
		if inv.Status != models.InvoiceStatusPaid {
			result.UnpaidInvoices++
			continue
		}
		result.PaidInvoices++
		if inv.AmountValid {
			invoiceRevenue = invoiceRevenue.Add(inv.Amount)
		}
	}

	winner := apiRevenue
	if r.policy.PreferHigher && invoiceRevenue.GreaterThan(apiRevenue) {
		winner = invoiceRevenue
		result.IsCalculatedFromInvoices = true
	}

	result.PaymentRevenue = apiRevenue.InexactFloat64()
	result.InvoiceRevenue = invoiceRevenue.InexactFloat64()
	result.Revenue = winner.InexactFloat64()
	result.Mismatch = !apiRevenue.Equal(invoiceRevenue)
	return result
}

// Totals sums all successful payments regardless of date and counts payment outcomes
func (r *Reconciler) Totals(payments []models.Payment) Totals {
	totals := Totals{Revenue: decimal.Zero}
	for _, p := range payments {
		switch {
		case models.PaymentSucceeded(p.Status):
			totals.Verified++
			if p.AmountValid {
				totals.Revenue = totals.Revenue.Add(p.Amount)
			}
		case p.Status == "pending" || p.Status == "":
			totals.Pending++
		default:
			totals.Failed++
		}
	}
	return totals
}

// Between sums successful payments whose effective time lies in [start, end]
func (r *Reconciler) Between(payments []models.Payment, start, end time.Time) (decimal.Decimal, int) {
	sum := decimal.Zero
	count := 0
	for _, p := range payments {
		if !models.PaymentSucceeded(p.Status) || !p.AmountValid {
			continue
		}
		if inRange(p.EffectiveAt(), start, end) {
			sum = sum.Add(p.Amount)
			count++
		}
	}
	return sum, count
}

// Growth is the month-over-month change in percent, rounded to one decimal.
// A non-positive previous value yields 0.
func Growth(current, last float64) float64 {
	if last <= 0 {
		return 0
	}
	cur := decimal.NewFromFloat(current)
	prev := decimal.NewFromFloat(last)
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

// PreviousMonth returns the calendar month before (year, month)
func PreviousMonth(year, month int) (int, int) {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), int(t.Month())
}

func monthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func inRange(t *time.Time, start, end time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(start) && !t.After(end)
}
