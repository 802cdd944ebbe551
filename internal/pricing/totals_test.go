package pricing

import (
	"testing"

	"github.com/lexflow/backend/internal/model"
)

func serviceItem(amount float64) model.LineItem {
	return model.LineItem{Amount: amount}
}

func expenseItem(amount float64) model.LineItem {
	return model.LineItem{Amount: amount, IsEstimated: true}
}

func TestSummarize_ClientDiscountAndExclusiveTax(t *testing.T) {
	// services 1000, client discount 10% → 100; expenses 200;
	// tax 20% exclusive → (1000-100)*0.2 = 180; grand = 900+180+200 = 1280.
	d := &model.ProposalDraft{
		Billing:  model.BillingConfig{Method: model.MethodSuccessFee},
		Items:    []model.LineItem{serviceItem(600), serviceItem(400), expenseItem(200)},
		Discount: model.DiscountConfig{Type: model.DiscountPercent, Percent: 10},
		Tax:      model.TaxConfig{Rate: 20},
	}
	s := Summarize(d)
	if s.ServicesSubtotal != 1000 {
		t.Errorf("services subtotal: got %v, want 1000", s.ServicesSubtotal)
	}
	if s.ExpensesSubtotal != 200 {
		t.Errorf("expenses subtotal: got %v, want 200", s.ExpensesSubtotal)
	}
	if s.ClientDiscount != 100 {
		t.Errorf("client discount: got %v, want 100", s.ClientDiscount)
	}
	if s.Tax != 180 {
		t.Errorf("tax: got %v, want 180", s.Tax)
	}
	if s.GrandTotal != 1280 {
		t.Errorf("grand total: got %v, want 1280", s.GrandTotal)
	}
}

func TestSummarize_ClientDiscountNeverTouchesExpenses(t *testing.T) {
	d := &model.ProposalDraft{
		Billing:  model.BillingConfig{Method: model.MethodSuccessFee},
		Items:    []model.LineItem{serviceItem(100), expenseItem(500)},
		Discount: model.DiscountConfig{Type: model.DiscountAmount, Amount: 100},
	}
	s := Summarize(d)
	if s.TaxBase != 0 {
		t.Errorf("tax base: got %v, want 0", s.TaxBase)
	}
	if s.GrandTotal != 500 {
		t.Errorf("grand total: got %v, want 500 (expenses untouched)", s.GrandTotal)
	}
}

func TestSummarize_InclusiveTax(t *testing.T) {
	d := &model.ProposalDraft{
		Billing: model.BillingConfig{Method: model.MethodSuccessFee},
		Items:   []model.LineItem{serviceItem(1100)},
		Tax:     model.TaxConfig{Rate: 10, Inclusive: true},
	}
	s := Summarize(d)
	// 1100 * 10/110 = 100 tax carved out; grand total stays 1100.
	if s.Tax != 100 {
		t.Errorf("tax: got %v, want 100", s.Tax)
	}
	if s.GrandTotal != 1100 {
		t.Errorf("grand total: got %v, want 1100", s.GrandTotal)
	}
}

func TestSummarize_ZeroTaxRateIsNormalized(t *testing.T) {
	d := &model.ProposalDraft{
		Billing: model.BillingConfig{Method: model.MethodSuccessFee},
		Items:   []model.LineItem{serviceItem(100)},
		Tax:     model.TaxConfig{Rate: 0, Inclusive: true},
	}
	s := Summarize(d)
	if s.Tax != 0 || s.GrandTotal != 100 {
		t.Errorf("expected tax 0 / total 100, got tax=%v total=%v", s.Tax, s.GrandTotal)
	}
}

func TestSummarize_DiscountExceedingSubtotalClampsToZero(t *testing.T) {
	d := &model.ProposalDraft{
		Billing:  model.BillingConfig{Method: model.MethodSuccessFee},
		Items:    []model.LineItem{serviceItem(100)},
		Discount: model.DiscountConfig{Type: model.DiscountAmount, Amount: 10000},
		Tax:      model.TaxConfig{Rate: 20},
	}
	s := Summarize(d)
	if s.TaxBase != 0 || s.Tax != 0 || s.GrandTotal != 0 {
		t.Errorf("expected all-zero totals, got %+v", s)
	}
}

func TestSummarize_RetainerBypassesLineItems(t *testing.T) {
	months := 6
	d := &model.ProposalDraft{
		Billing: model.BillingConfig{
			Method:   model.MethodRetainer,
			Retainer: &model.RetainerConfig{MonthlyAmount: 500, DurationMonths: &months},
		},
		// Items present but ignored for retainer proposals.
		Items: []model.LineItem{serviceItem(9999)},
	}
	s := Summarize(d)
	if s.RetainerTotal == nil || *s.RetainerTotal != 3000 {
		t.Fatalf("retainer total: got %v, want 3000", s.RetainerTotal)
	}
	if s.GrandTotal != 3000 {
		t.Errorf("grand total: got %v, want 3000", s.GrandTotal)
	}
	if s.ServicesSubtotal != 0 {
		t.Errorf("services subtotal: got %v, want 0", s.ServicesSubtotal)
	}
}

func TestSummarize_RetainerTotalOmittedWithoutDuration(t *testing.T) {
	d := &model.ProposalDraft{
		Billing: model.BillingConfig{
			Method:   model.MethodRetainer,
			Retainer: &model.RetainerConfig{MonthlyAmount: 500},
		},
	}
	if s := Summarize(d); s.RetainerTotal != nil {
		t.Errorf("expected omitted retainer total, got %v", *s.RetainerTotal)
	}
}

func TestSummarize_GrandTotalMonotonicInItemAmount(t *testing.T) {
	base := func(amount float64) Summary {
		return Summarize(&model.ProposalDraft{
			Billing:  model.BillingConfig{Method: model.MethodSuccessFee},
			Items:    []model.LineItem{serviceItem(amount), expenseItem(50)},
			Discount: model.DiscountConfig{Type: model.DiscountPercent, Percent: 15},
			Tax:      model.TaxConfig{Rate: 19},
		})
	}
	prev := base(0).GrandTotal
	for _, amount := range []float64{1, 10, 99.5, 250, 1000, 100000} {
		cur := base(amount).GrandTotal
		if cur < prev {
			t.Fatalf("grand total decreased: %v → %v at amount %v", prev, cur, amount)
		}
		prev = cur
	}
}
