package model

import "time"

// WizardState is the step-machine state stored on a draft. Step ids are the
// wizard package's step identifiers; they are kept as plain strings here so
// the model stays dependency-free.
type WizardState struct {
	Current   string          `json:"current"`
	Completed map[string]bool `json:"completed"`
}

// ProposalDraft は編集セッションが専有する一時的な提案状態。
// 送信成功でサーバーの正規レコードに置き換えられ、破棄される。
type ProposalDraft struct {
	ID      string  `json:"id"`
	OwnerID string  `json:"owner_id"`
	// ProposalID is set in edit mode: the persisted proposal this draft was
	// loaded from and will update on submission.
	ProposalID *string `json:"proposal_id,omitempty"`

	ClientID *string `json:"client_id,omitempty"`
	LeadID   *string `json:"lead_id,omitempty"`
	Title    string  `json:"title"`
	Currency string  `json:"currency"`

	Billing      BillingConfig  `json:"billing"`
	Items        []LineItem     `json:"items"`
	Milestones   []Milestone    `json:"milestones"`
	PaymentTerms []PaymentTerm  `json:"payment_terms"`
	Discount     DiscountConfig `json:"discount"`
	Tax          TaxConfig      `json:"tax"`

	Wizard WizardState `json:"wizard"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MilestoneByID returns the milestone with the given id, or nil.
func (d *ProposalDraft) MilestoneByID(id string) *Milestone {
	for i := range d.Milestones {
		if d.Milestones[i].ID == id {
			return &d.Milestones[i]
		}
	}
	return nil
}

// Submission is the payload handed to the persistence collaborator when a
// draft passes review. Amount is the computed grand total, authoritative at
// write time.
type Submission struct {
	ClientID *string `json:"client_id,omitempty"`
	LeadID   *string `json:"lead_id,omitempty"`
	Title    string  `json:"title"`
	Currency string  `json:"currency"`

	Billing      BillingConfig  `json:"billing"`
	Items        []LineItem     `json:"items"`
	Milestones   []Milestone    `json:"milestones"`
	PaymentTerms []PaymentTerm  `json:"payment_terms"`
	Discount     DiscountConfig `json:"discount"`
	Tax          TaxConfig      `json:"tax"`

	Amount float64 `json:"amount"`
}

// Proposal is the persisted record a submission becomes.
type Proposal struct {
	ID string `json:"id"`
	Submission
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
