package model

// LineItem は提案の明細行。サービス行と実費行の両方を表す。
// The expense/service split is never stored: it is derived from ExpenseID
// and IsEstimated (see pricing.IsExpense).
type LineItem struct {
	// BillingMethod overrides the proposal method for mixed-model items.
	BillingMethod *BillingMethod `json:"billing_method,omitempty"`
	PersonID      *string        `json:"person_id,omitempty"`
	Profile       *Profile       `json:"profile,omitempty"`
	Description   string         `json:"description"`
	Quantity      *float64       `json:"quantity,omitempty"`
	Rate          *float64       `json:"rate,omitempty"`
	UnitPrice     *float64       `json:"unit_price,omitempty"`

	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	DiscountAmount  *float64 `json:"discount_amount,omitempty"`

	// Amount is the gross line amount. Derived (read-only) for hourly and
	// fixed-fee contexts, entered directly for every other context.
	Amount float64 `json:"amount"`

	MilestoneIDs []string `json:"milestone_ids,omitempty"`

	// ExpenseID links the line to an external project expense.
	ExpenseID   *string `json:"expense_id,omitempty"`
	IsEstimated bool    `json:"is_estimated,omitempty"`
	// IsEstimate flags the line as a draft estimate in the editing UI.
	// It never reaches the submission payload.
	IsEstimate bool `json:"is_estimate,omitempty"`

	IsCapped     bool     `json:"is_capped,omitempty"`
	CappedHours  *float64 `json:"capped_hours,omitempty"`
	CappedAmount *float64 `json:"capped_amount,omitempty"`
}

// SetDiscountPercent sets a percent discount and clears any amount discount.
// Percent and amount discounts are mutually exclusive.
func (it *LineItem) SetDiscountPercent(pct float64) {
	it.DiscountPercent = &pct
	it.DiscountAmount = nil
}

// SetDiscountAmount sets an amount discount and clears any percent discount.
func (it *LineItem) SetDiscountAmount(amount float64) {
	it.DiscountAmount = &amount
	it.DiscountPercent = nil
}

// ClearDiscount removes both discount forms.
func (it *LineItem) ClearDiscount() {
	it.DiscountPercent = nil
	it.DiscountAmount = nil
}

// SetCapped toggles the fee cap. Clearing the cap clears both bounds.
func (it *LineItem) SetCapped(capped bool) {
	it.IsCapped = capped
	if !capped {
		it.CappedHours = nil
		it.CappedAmount = nil
	}
}

// RemoveMilestoneID strips id from the item's milestone assignments.
func (it *LineItem) RemoveMilestoneID(id string) {
	out := it.MilestoneIDs[:0]
	for _, mid := range it.MilestoneIDs {
		if mid != id {
			out = append(out, mid)
		}
	}
	it.MilestoneIDs = out
}
