package pricing

import "github.com/lexflow/backend/internal/model"

// Summary is the live proposal total breakdown shown on the review step and
// stored as the authoritative amount at submission time.
type Summary struct {
	ServicesSubtotal float64  `json:"services_subtotal"`
	ExpensesSubtotal float64  `json:"expenses_subtotal"`
	ClientDiscount   float64  `json:"client_discount"`
	TaxBase          float64  `json:"tax_base"`
	Tax              float64  `json:"tax"`
	GrandTotal       float64  `json:"grand_total"`
	RetainerTotal    *float64 `json:"retainer_total,omitempty"`
}

// Summarize aggregates the draft into a Summary.
//
// The client discount applies to services only, never expenses, and the tax
// base is the discounted services subtotal. Retainer proposals bypass
// line-item totals entirely: the grand total is monthly amount × duration
// (and the retainer total is omitted while the duration is unset). Negative
// intermediates clamp to zero instead of propagating.
func Summarize(d *model.ProposalDraft) Summary {
	var s Summary

	if d.Billing.Method == model.MethodRetainer {
		if rc := d.Billing.Retainer; rc != nil && rc.DurationMonths != nil {
			total := clamp(rc.MonthlyAmount * float64(*rc.DurationMonths))
			s.RetainerTotal = &total
			s.GrandTotal = total
		}
		return s
	}

	for i := range d.Items {
		it := &d.Items[i]
		disc := Discounted(it, Amount(&d.Billing, it))
		if IsExpense(it) {
			s.ExpensesSubtotal += disc
		} else {
			s.ServicesSubtotal += disc
		}
	}

	switch d.Discount.Type {
	case model.DiscountPercent:
		s.ClientDiscount = clamp(s.ServicesSubtotal * d.Discount.Percent / 100)
	case model.DiscountAmount:
		s.ClientDiscount = clamp(d.Discount.Amount)
	}

	s.TaxBase = clamp(s.ServicesSubtotal - s.ClientDiscount)
	if d.Tax.Rate > 0 {
		if d.Tax.Inclusive {
			s.Tax = s.TaxBase * d.Tax.Rate / (100 + d.Tax.Rate)
		} else {
			s.Tax = s.TaxBase * d.Tax.Rate / 100
		}
	}

	if d.Tax.Inclusive {
		s.GrandTotal = clamp(s.TaxBase + s.ExpensesSubtotal)
	} else {
		s.GrandTotal = clamp(s.TaxBase + s.Tax + s.ExpensesSubtotal)
	}

	// A mixed-model retainer part contributes its term total on top of the
	// line items.
	if d.Billing.Method == model.MethodMixedModel {
		if rc := d.Billing.RetainerSettings(); rc != nil && rc.DurationMonths != nil {
			total := clamp(rc.MonthlyAmount * float64(*rc.DurationMonths))
			s.RetainerTotal = &total
			s.GrandTotal += total
		}
	}

	return s
}
