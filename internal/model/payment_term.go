package model

// PaymentTermType distinguishes how a payment tranche falls due.
type PaymentTermType string

const (
	TermOnApproval   PaymentTermType = "on_approval"
	TermOnCompletion PaymentTermType = "on_completion"
	TermMonthly      PaymentTermType = "monthly"
	TermMilestone    PaymentTermType = "milestone"
	TermPercent      PaymentTermType = "percent"
)

// Valid reports whether t is a known payment term type.
func (t PaymentTermType) Valid() bool {
	switch t {
	case TermOnApproval, TermOnCompletion, TermMonthly, TermMilestone, TermPercent:
		return true
	}
	return false
}

// PaymentTerm は支払条件。ItemIndex が nil なら提案全体の条件、
// 非 nil なら該当する明細行に紐づく条件。
type PaymentTerm struct {
	Type        PaymentTermType `json:"type"`
	Percent     *float64        `json:"percent,omitempty"`
	DueDays     *int            `json:"due_days,omitempty"`
	MilestoneID *string         `json:"milestone_id,omitempty"`
	Description string          `json:"description,omitempty"`
	ItemIndex   *int            `json:"item_index,omitempty"`
}

// DiscountType is the client-level discount form.
type DiscountType string

const (
	DiscountNone    DiscountType = ""
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

// DiscountConfig is the client-level discount, applied to services only.
type DiscountConfig struct {
	Type    DiscountType `json:"type,omitempty"`
	Percent float64      `json:"percent,omitempty"`
	Amount  float64      `json:"amount,omitempty"`
}

// TaxConfig is the proposal tax treatment. The tax base is always the
// services subtotal after the client discount; expenses are never taxed.
type TaxConfig struct {
	Rate      float64 `json:"rate"`
	Inclusive bool    `json:"inclusive"`
}
