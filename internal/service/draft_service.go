package service

import (
	"context"

	"github.com/lexflow/backend/internal/model"
	"github.com/lexflow/backend/internal/pricing"
)

// DraftService は提案ドラフトのビジネスロジック。ドラフトへの全ての変更は
// このサービスを通る（ウィザードコントローラが状態遷移を直列化する）。
type DraftService interface {
	Create(ctx context.Context, ownerID string, p CreateDraftParams) (*model.ProposalDraft, error)
	Get(ctx context.Context, id, ownerID string) (*model.ProposalDraft, error)
	Cancel(ctx context.Context, id, ownerID string) error

	SetBilling(ctx context.Context, id, ownerID string, p BillingParams) (*model.ProposalDraft, error)
	UpdateRetainer(ctx context.Context, id, ownerID string, rc model.RetainerConfig) (*model.ProposalDraft, error)
	UpdateSuccessFee(ctx context.Context, id, ownerID string, p SuccessFeeParams) (*model.ProposalDraft, error)
	SetDiscount(ctx context.Context, id, ownerID string, dc model.DiscountConfig) (*model.ProposalDraft, error)
	SetTax(ctx context.Context, id, ownerID string, tc model.TaxConfig) (*model.ProposalDraft, error)
	SetPaymentTerms(ctx context.Context, id, ownerID string, terms []model.PaymentTerm) (*model.ProposalDraft, error)

	AddItem(ctx context.Context, id, ownerID string, p ItemParams) (*model.ProposalDraft, error)
	UpdateItem(ctx context.Context, id, ownerID string, index int, p ItemParams) (*model.ProposalDraft, error)
	RemoveItem(ctx context.Context, id, ownerID string, index int) (*model.ProposalDraft, error)

	AddMilestone(ctx context.Context, id, ownerID string, m model.Milestone) (*model.ProposalDraft, error)
	UpdateMilestone(ctx context.Context, id, ownerID, milestoneID string, m model.Milestone) (*model.ProposalDraft, error)
	RemoveMilestone(ctx context.Context, id, ownerID, milestoneID string) (*model.ProposalDraft, error)
	AssignMilestones(ctx context.Context, id, ownerID string, index int, milestoneIDs []string) (*model.ProposalDraft, error)

	Next(ctx context.Context, id, ownerID string) (*model.ProposalDraft, error)
	Back(ctx context.Context, id, ownerID string) (*model.ProposalDraft, error)
	Jump(ctx context.Context, id, ownerID string, index int) (*model.ProposalDraft, error)

	Summary(ctx context.Context, id, ownerID string) (pricing.Summary, error)
	Submit(ctx context.Context, id, ownerID string) (*model.Proposal, error)
}

// CreateDraftParams opens a draft session: blank for create mode, prefilled
// from a persisted proposal when ProposalID is set (edit mode).
type CreateDraftParams struct {
	ProposalID *string `json:"proposal_id,omitempty"`
	ClientID   *string `json:"client_id,omitempty"`
	LeadID     *string `json:"lead_id,omitempty"`
	Title      string  `json:"title"`
	Currency   string  `json:"currency"`
}

// BillingParams updates the billing method configuration. Nil fields are
// left untouched.
type BillingParams struct {
	Method        model.BillingMethod   `json:"method"`
	MixedMethods  []model.BillingMethod `json:"mixed_methods,omitempty"`
	Hourly        *model.HourlyConfig   `json:"hourly,omitempty"`
	UseMilestones *bool                 `json:"use_milestones,omitempty"`
}

// SuccessFeeParams updates the success-fee branches. Switching a branch type
// zeroes the other branch's fields before the new values are applied.
type SuccessFeeParams struct {
	BaseType         *model.SuccessFeeBaseType `json:"base_type,omitempty"`
	BaseAmount       *float64                  `json:"base_amount,omitempty"`
	BaseRate         *float64                  `json:"base_rate,omitempty"`
	BaseDescription  *string                   `json:"base_description,omitempty"`
	FeeType          *model.SuccessFeeType     `json:"fee_type,omitempty"`
	FeePercent       *float64                  `json:"fee_percent,omitempty"`
	TransactionValue *float64                  `json:"transaction_value,omitempty"`
	FeeAmount        *float64                  `json:"fee_amount,omitempty"`
}

// ItemParams carries a line item create/update. Pointer fields distinguish
// "not sent" from zero values.
type ItemParams struct {
	BillingMethod   *model.BillingMethod `json:"billing_method,omitempty"`
	PersonID        *string              `json:"person_id,omitempty"`
	Profile         *model.Profile       `json:"profile,omitempty"`
	Description     *string              `json:"description,omitempty"`
	Quantity        *float64             `json:"quantity,omitempty"`
	Rate            *float64             `json:"rate,omitempty"`
	UnitPrice       *float64             `json:"unit_price,omitempty"`
	DiscountPercent *float64             `json:"discount_percent,omitempty"`
	DiscountAmount  *float64             `json:"discount_amount,omitempty"`
	ClearDiscount   *bool                `json:"clear_discount,omitempty"`
	Amount          *float64             `json:"amount,omitempty"`
	ExpenseID       *string              `json:"expense_id,omitempty"`
	IsEstimated     *bool                `json:"is_estimated,omitempty"`
	IsEstimate      *bool                `json:"is_estimate,omitempty"`
	IsCapped        *bool                `json:"is_capped,omitempty"`
	CappedHours     *float64             `json:"capped_hours,omitempty"`
	CappedAmount    *float64             `json:"capped_amount,omitempty"`
}
