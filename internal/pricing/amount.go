package pricing

import "github.com/lexflow/backend/internal/model"

// Amount computes the gross amount of a line item under the billing config.
// Hourly items derive quantity(hours) × resolved rate, fixed-fee items derive
// quantity × unit price (quantity defaults to 1). Every other context keeps
// the directly entered amount. Never negative.
func Amount(b *model.BillingConfig, item *model.LineItem) float64 {
	switch b.ItemMethod(item) {
	case model.MethodHourly:
		qty := 0.0
		if item.Quantity != nil {
			qty = *item.Quantity
		}
		return clamp(qty * ResolveRate(b.HourlySettings(), item))
	case model.MethodFixedFee:
		qty := 1.0
		if item.Quantity != nil {
			qty = *item.Quantity
		}
		unit := 0.0
		if item.UnitPrice != nil {
			unit = *item.UnitPrice
		}
		return clamp(qty * unit)
	default:
		return clamp(item.Amount)
	}
}

// Discounted applies the item's own discount to amount. Percent and amount
// discounts are mutually exclusive on the item; a zero percent with no
// amount discount behaves exactly like no discount. A discount can only
// reduce the amount, never raise it. Floored at 0.
func Discounted(item *model.LineItem, amount float64) float64 {
	switch {
	case item.DiscountAmount != nil:
		return clamp(amount - clamp(*item.DiscountAmount))
	case item.DiscountPercent != nil:
		return clamp(amount - amount*clamp(*item.DiscountPercent)/100)
	default:
		return clamp(amount)
	}
}

// IsExpense is the single derivation of the services/expenses split: a line
// is an expense iff it links an external project expense or is an estimated
// cost. Nothing else in the engine may store this classification.
func IsExpense(item *model.LineItem) bool {
	return item.ExpenseID != nil || item.IsEstimated
}

// Partition splits items into services and expenses. Exhaustive and disjoint
// by construction.
func Partition(items []model.LineItem) (services, expenses []model.LineItem) {
	for _, it := range items {
		if IsExpense(&it) {
			expenses = append(expenses, it)
		} else {
			services = append(services, it)
		}
	}
	return services, expenses
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
