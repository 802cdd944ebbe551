package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexflow/backend/internal/model"
	"github.com/lexflow/backend/internal/pricing"
	"github.com/lexflow/backend/internal/repository"
	"github.com/lexflow/backend/internal/wizard"
)

// DraftServiceImpl は DraftService の実装
type DraftServiceImpl struct {
	drafts    repository.DraftRepository
	proposals repository.ProposalRepository
	clients   repository.ClientRepository
	users     repository.UserRepository
}

// NewDraftService は DraftServiceImpl を生成する
func NewDraftService(
	drafts repository.DraftRepository,
	proposals repository.ProposalRepository,
	clients repository.ClientRepository,
	users repository.UserRepository,
) DraftService {
	return &DraftServiceImpl{drafts: drafts, proposals: proposals, clients: clients, users: users}
}

// Create opens a draft session. In edit mode (ProposalID set) the draft is
// prefilled from the persisted proposal and every required step counts as
// completed; in create mode the client's default discount is applied when a
// client is chosen.
func (s *DraftServiceImpl) Create(ctx context.Context, ownerID string, p CreateDraftParams) (*model.ProposalDraft, error) {
	d := &model.ProposalDraft{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		ClientID: p.ClientID,
		LeadID:   p.LeadID,
		Title:    p.Title,
		Currency: p.Currency,
	}
	if d.Currency == "" {
		d.Currency = "EUR"
	}

	if p.ProposalID != nil {
		prop, err := s.proposals.GetByID(ctx, *p.ProposalID)
		if err != nil {
			return nil, fmt.Errorf("load proposal: %w", err)
		}
		d.ProposalID = p.ProposalID
		d.ClientID = prop.ClientID
		d.LeadID = prop.LeadID
		d.Title = prop.Title
		d.Currency = prop.Currency
		d.Billing = prop.Billing
		d.Items = prop.Items
		d.Milestones = prop.Milestones
		d.PaymentTerms = prop.PaymentTerms
		d.Discount = prop.Discount
		d.Tax = prop.Tax
		wizard.Init(d)
		// The persisted proposal passed review once; its steps start complete.
		for _, st := range wizard.ApplicableSteps(&d.Billing) {
			if st.ID != wizard.StepReview {
				d.Wizard.Completed[string(st.ID)] = true
			}
		}
	} else {
		wizard.Init(d)
		if p.ClientID != nil {
			client, err := s.clients.GetByID(ctx, *p.ClientID)
			if err != nil {
				return nil, fmt.Errorf("load client: %w", err)
			}
			applyClientDefaults(d, client)
		}
	}

	if err := s.drafts.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func applyClientDefaults(d *model.ProposalDraft, c *model.Client) {
	if d.Discount.Type != model.DiscountNone {
		return
	}
	switch {
	case c.DefaultDiscountPercent != nil && *c.DefaultDiscountPercent > 0:
		d.Discount = model.DiscountConfig{Type: model.DiscountPercent, Percent: *c.DefaultDiscountPercent}
	case c.DefaultDiscountAmount != nil && *c.DefaultDiscountAmount > 0:
		d.Discount = model.DiscountConfig{Type: model.DiscountAmount, Amount: *c.DefaultDiscountAmount}
	}
}

// Get returns the draft (owner only).
func (s *DraftServiceImpl) Get(ctx context.Context, id, ownerID string) (*model.ProposalDraft, error) {
	return s.load(ctx, id, ownerID)
}

// Cancel discards the draft without submitting.
func (s *DraftServiceImpl) Cancel(ctx context.Context, id, ownerID string) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	return s.drafts.Delete(ctx, id)
}

// SetBilling applies a billing method / strategy change and recomputes the
// wizard step list and every derived item amount.
func (s *DraftServiceImpl) SetBilling(ctx context.Context, id, ownerID string, p BillingParams) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if !p.Method.Valid() {
		return nil, violation("method", "required")
	}
	changed := p.Method != d.Billing.Method
	if changed {
		d.Billing.SetMethod(p.Method)
	}

	if p.Method == model.MethodMixedModel && p.MixedMethods != nil {
		seen := map[model.BillingMethod]bool{}
		methods := make([]model.BillingMethod, 0, len(p.MixedMethods))
		for _, m := range p.MixedMethods {
			if !m.Secondary() {
				return nil, violation("mixed_methods", "invalid_sub_method")
			}
			if !seen[m] {
				seen[m] = true
				methods = append(methods, m)
			}
		}
		if !equalMethods(d.Billing.Mixed.Methods, methods) {
			changed = true
		}
		d.Billing.Mixed.Methods = methods
		// Deselected sub-methods lose their config.
		if !seen[model.MethodHourly] {
			d.Billing.Mixed.Hourly = nil
		}
		if !seen[model.MethodRetainer] {
			d.Billing.Mixed.Retainer = nil
		}
		if !seen[model.MethodSuccessFee] {
			d.Billing.Mixed.SuccessFee = nil
		}
	}

	if p.Hourly != nil {
		switch {
		case d.Billing.Method == model.MethodHourly:
			d.Billing.Hourly = p.Hourly
		case d.Billing.Method == model.MethodMixedModel && d.Billing.Mixed.Has(model.MethodHourly):
			d.Billing.Mixed.Hourly = p.Hourly
		default:
			return nil, violation("hourly", "not_applicable")
		}
	}

	if p.UseMilestones != nil {
		if d.Billing.Method != model.MethodFixedFee && d.Billing.Method != model.MethodMixedModel {
			return nil, violation("use_milestones", "not_applicable")
		}
		d.Billing.UseMilestones = *p.UseMilestones
	}

	if changed {
		wizard.OnMethodChange(d)
	}
	recompute(d)
	return d, s.drafts.Save(ctx, d)
}

func equalMethods(a, b []model.BillingMethod) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// UpdateRetainer replaces the retainer configuration of the proposal's
// retainer part. The expire policy never carries an expiry month count.
func (s *DraftServiceImpl) UpdateRetainer(ctx context.Context, id, ownerID string, rc model.RetainerConfig) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if rc.UnusedBalancePolicy == model.PolicyExpire {
		rc.UnusedBalanceExpiryMonths = nil
	}
	switch {
	case d.Billing.Method == model.MethodRetainer:
		d.Billing.Retainer = &rc
	case d.Billing.Method == model.MethodMixedModel && d.Billing.Mixed.Has(model.MethodRetainer):
		d.Billing.Mixed.Retainer = &rc
	default:
		return nil, violation("retainer", "not_applicable")
	}
	recompute(d)
	return d, s.drafts.Save(ctx, d)
}

// UpdateSuccessFee applies base/fee branch updates. A branch-type switch
// zeroes the other branch before new values land.
func (s *DraftServiceImpl) UpdateSuccessFee(ctx context.Context, id, ownerID string, p SuccessFeeParams) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	var cfg *model.SuccessFeeConfig
	switch {
	case d.Billing.Method == model.MethodSuccessFee:
		if d.Billing.SuccessFee == nil {
			d.Billing.SuccessFee = &model.SuccessFeeConfig{}
		}
		cfg = d.Billing.SuccessFee
	case d.Billing.Method == model.MethodMixedModel && d.Billing.Mixed.Has(model.MethodSuccessFee):
		if d.Billing.Mixed.SuccessFee == nil {
			d.Billing.Mixed.SuccessFee = &model.SuccessFeeConfig{}
		}
		cfg = d.Billing.Mixed.SuccessFee
	default:
		return nil, violation("success_fee", "not_applicable")
	}

	if p.BaseType != nil {
		cfg.SetBaseType(*p.BaseType)
	}
	if p.BaseAmount != nil {
		cfg.BaseAmount = *p.BaseAmount
	}
	if p.BaseRate != nil {
		cfg.BaseRate = *p.BaseRate
	}
	if p.BaseDescription != nil {
		cfg.BaseDescription = *p.BaseDescription
	}
	if p.FeeType != nil {
		cfg.SetFeeType(*p.FeeType)
	}
	if p.FeePercent != nil {
		cfg.FeePercent = *p.FeePercent
	}
	if p.TransactionValue != nil {
		cfg.TransactionValue = *p.TransactionValue
	}
	if p.FeeAmount != nil {
		cfg.FeeAmount = *p.FeeAmount
	}
	return d, s.drafts.Save(ctx, d)
}

// SetDiscount sets the client-level discount (services only).
func (s *DraftServiceImpl) SetDiscount(ctx context.Context, id, ownerID string, dc model.DiscountConfig) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	switch dc.Type {
	case model.DiscountNone, model.DiscountPercent, model.DiscountAmount:
	default:
		return nil, violation("discount_type", "invalid")
	}
	d.Discount = dc
	return d, s.drafts.Save(ctx, d)
}

// SetTax sets the proposal tax treatment.
func (s *DraftServiceImpl) SetTax(ctx context.Context, id, ownerID string, tc model.TaxConfig) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if tc.Rate < 0 {
		return nil, violation("tax_rate", "must_not_be_negative")
	}
	d.Tax = tc
	return d, s.drafts.Save(ctx, d)
}

// SetPaymentTerms replaces the payment terms. Milestone terms must reference
// existing milestones.
func (s *DraftServiceImpl) SetPaymentTerms(ctx context.Context, id, ownerID string, terms []model.PaymentTerm) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	for _, t := range terms {
		if !t.Type.Valid() {
			return nil, violation("payment_terms", "invalid_type")
		}
		if t.Type == model.TermMilestone {
			if t.MilestoneID == nil || d.MilestoneByID(*t.MilestoneID) == nil {
				return nil, violation("payment_terms", "unknown_milestone")
			}
		}
		if t.ItemIndex != nil && (*t.ItemIndex < 0 || *t.ItemIndex >= len(d.Items)) {
			return nil, violation("payment_terms", "unknown_item")
		}
	}
	d.PaymentTerms = terms
	return d, s.drafts.Save(ctx, d)
}

// AddItem appends a line item and recomputes derived amounts.
func (s *DraftServiceImpl) AddItem(ctx context.Context, id, ownerID string, p ItemParams) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	var it model.LineItem
	if err := s.applyItemParams(ctx, d, &it, p); err != nil {
		return nil, err
	}
	d.Items = append(d.Items, it)
	recompute(d)
	return d, s.drafts.Save(ctx, d)
}

// UpdateItem patches the item at index.
func (s *DraftServiceImpl) UpdateItem(ctx context.Context, id, ownerID string, index int, p ItemParams) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Items) {
		return nil, repository.ErrNotFound
	}
	if err := s.applyItemParams(ctx, d, &d.Items[index], p); err != nil {
		return nil, err
	}
	recompute(d)
	return d, s.drafts.Save(ctx, d)
}

// RemoveItem deletes the item at index.
func (s *DraftServiceImpl) RemoveItem(ctx context.Context, id, ownerID string, index int) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Items) {
		return nil, repository.ErrNotFound
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	// Item-level payment terms are index-bound; drop and shift.
	terms := d.PaymentTerms[:0]
	for _, t := range d.PaymentTerms {
		if t.ItemIndex != nil {
			if *t.ItemIndex == index {
				continue
			}
			if *t.ItemIndex > index {
				shifted := *t.ItemIndex - 1
				t.ItemIndex = &shifted
			}
		}
		terms = append(terms, t)
	}
	d.PaymentTerms = terms
	recompute(d)
	return d, s.drafts.Save(ctx, d)
}

func (s *DraftServiceImpl) applyItemParams(ctx context.Context, d *model.ProposalDraft, it *model.LineItem, p ItemParams) error {
	if p.DiscountPercent != nil && p.DiscountAmount != nil {
		return violation("discount", "percent_and_amount_exclusive")
	}
	if p.DiscountPercent != nil && *p.DiscountPercent < 0 {
		return violation("discount_percent", "must_not_be_negative")
	}
	if p.DiscountAmount != nil && *p.DiscountAmount < 0 {
		return violation("discount_amount", "must_not_be_negative")
	}
	if p.BillingMethod != nil {
		if d.Billing.Method != model.MethodMixedModel {
			return violation("billing_method", "not_applicable")
		}
		if !d.Billing.Mixed.Has(*p.BillingMethod) {
			return violation("billing_method", "not_selected")
		}
		it.BillingMethod = p.BillingMethod
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Quantity != nil {
		it.Quantity = p.Quantity
	}
	if p.Rate != nil {
		it.Rate = p.Rate
	}
	if p.UnitPrice != nil {
		it.UnitPrice = p.UnitPrice
	}
	if p.Amount != nil {
		it.Amount = *p.Amount
	}
	if p.Profile != nil {
		it.Profile = p.Profile
	}

	if p.PersonID != nil && *p.PersonID != "" && (it.PersonID == nil || *it.PersonID != *p.PersonID) {
		u, err := s.users.GetByID(ctx, *p.PersonID)
		if err != nil {
			return fmt.Errorf("load person: %w", err)
		}
		it.PersonID = p.PersonID
		if it.Profile == nil && u.Profile != "" {
			profile := u.Profile
			it.Profile = &profile
		}
		// Auto-populate the rate from the person's default; an explicit rate
		// in the same request and an active blended rate both win.
		if p.Rate == nil {
			if rate, ok := pricing.DefaultRateFor(d.Billing.HourlySettings(), u); ok {
				it.Rate = &rate
			}
		}
	} else if p.PersonID != nil && *p.PersonID == "" {
		it.PersonID = nil
	}

	if p.ClearDiscount != nil && *p.ClearDiscount {
		it.ClearDiscount()
	}
	if p.DiscountPercent != nil {
		it.SetDiscountPercent(*p.DiscountPercent)
	}
	if p.DiscountAmount != nil {
		it.SetDiscountAmount(*p.DiscountAmount)
	}

	if p.ExpenseID != nil {
		if *p.ExpenseID == "" {
			it.ExpenseID = nil
		} else {
			it.ExpenseID = p.ExpenseID
		}
	}
	if p.IsEstimated != nil {
		it.IsEstimated = *p.IsEstimated
	}
	if p.IsEstimate != nil {
		it.IsEstimate = *p.IsEstimate
	}

	if p.IsCapped != nil {
		it.SetCapped(*p.IsCapped)
	}
	if it.IsCapped {
		if p.CappedHours != nil {
			it.CappedHours = p.CappedHours
		}
		if p.CappedAmount != nil {
			it.CappedAmount = p.CappedAmount
		}
	}
	return nil
}

// AddMilestone appends a milestone, minting a temporary id when absent.
func (s *DraftServiceImpl) AddMilestone(ctx context.Context, id, ownerID string, m model.Milestone) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		return nil, violation("name", "required")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	d.Milestones = append(d.Milestones, m)
	return d, s.drafts.Save(ctx, d)
}

// UpdateMilestone replaces the milestone's fields wholesale; only the id is
// immutable. Omitted fields are cleared, so callers always send the full
// milestone.
func (s *DraftServiceImpl) UpdateMilestone(ctx context.Context, id, ownerID, milestoneID string, m model.Milestone) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	existing := d.MilestoneByID(milestoneID)
	if existing == nil {
		return nil, repository.ErrNotFound
	}
	if m.Name == "" {
		return nil, violation("name", "required")
	}
	existing.Name = m.Name
	existing.Description = m.Description
	existing.Amount = m.Amount
	existing.Percent = m.Percent
	existing.DueDate = m.DueDate
	return d, s.drafts.Save(ctx, d)
}

// RemoveMilestone deletes a milestone and synchronously strips its id from
// every line item, so no item is ever left referencing a removed milestone.
func (s *DraftServiceImpl) RemoveMilestone(ctx context.Context, id, ownerID, milestoneID string) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if d.MilestoneByID(milestoneID) == nil {
		return nil, repository.ErrNotFound
	}
	out := d.Milestones[:0]
	for _, m := range d.Milestones {
		if m.ID != milestoneID {
			out = append(out, m)
		}
	}
	d.Milestones = out
	for i := range d.Items {
		d.Items[i].RemoveMilestoneID(milestoneID)
	}
	terms := d.PaymentTerms[:0]
	for _, t := range d.PaymentTerms {
		if t.Type == model.TermMilestone && t.MilestoneID != nil && *t.MilestoneID == milestoneID {
			continue
		}
		terms = append(terms, t)
	}
	d.PaymentTerms = terms
	return d, s.drafts.Save(ctx, d)
}

// AssignMilestones sets the milestone assignment of the item at index. Only
// currently existing milestone ids are accepted.
func (s *DraftServiceImpl) AssignMilestones(ctx context.Context, id, ownerID string, index int, milestoneIDs []string) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Items) {
		return nil, repository.ErrNotFound
	}
	for _, mid := range milestoneIDs {
		if d.MilestoneByID(mid) == nil {
			return nil, violation("milestone_ids", "unknown_id")
		}
	}
	d.Items[index].MilestoneIDs = milestoneIDs
	return d, s.drafts.Save(ctx, d)
}

// Next advances the wizard past the current step.
func (s *DraftServiceImpl) Next(ctx context.Context, id, ownerID string) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if v, err := wizard.Next(d); err != nil {
		return nil, &ValidationError{Violations: v}
	}
	return d, s.drafts.Save(ctx, d)
}

// Back moves the wizard to the previous step.
func (s *DraftServiceImpl) Back(ctx context.Context, id, ownerID string) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	wizard.Back(d)
	return d, s.drafts.Save(ctx, d)
}

// Jump moves the wizard to the step at index in the effective list.
func (s *DraftServiceImpl) Jump(ctx context.Context, id, ownerID string, index int) (*model.ProposalDraft, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := wizard.JumpTo(d, index); err != nil {
		return nil, violation("step", "not_reachable")
	}
	return d, s.drafts.Save(ctx, d)
}

// Summary computes the live totals for the draft.
func (s *DraftServiceImpl) Summary(ctx context.Context, id, ownerID string) (pricing.Summary, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return pricing.Summary{}, err
	}
	return pricing.Summarize(d), nil
}

// Submit validates the whole wizard, builds the submission payload, persists
// it and discards the draft. The computed grand total is written as the
// authoritative amount.
func (s *DraftServiceImpl) Submit(ctx context.Context, id, ownerID string) (*model.Proposal, error) {
	d, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	v := wizard.Violations{}
	for _, st := range wizard.ApplicableSteps(&d.Billing) {
		for field, code := range wizard.CanAdvance(d, st.ID) {
			v[field] = code
		}
	}
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	sub := buildSubmission(d)
	var prop *model.Proposal
	if d.ProposalID != nil {
		prop, err = s.proposals.Update(ctx, *d.ProposalID, sub)
	} else {
		prop, err = s.proposals.Create(ctx, sub)
	}
	if err != nil {
		return nil, fmt.Errorf("persist proposal: %w", err)
	}
	// The draft is replaced by the canonical record.
	_ = s.drafts.Delete(ctx, id)
	return prop, nil
}

func buildSubmission(d *model.ProposalDraft) *model.Submission {
	sub := &model.Submission{
		ClientID: d.ClientID,
		LeadID:   d.LeadID,
		Title:    d.Title,
		Currency: d.Currency,
		Billing:  d.Billing,
		Discount: d.Discount,
		Tax:      d.Tax,
		Amount:   pricing.Summarize(d).GrandTotal,
	}
	// Retainer proposals have neither items nor milestones.
	if d.Billing.Method != model.MethodRetainer {
		sub.Items = make([]model.LineItem, len(d.Items))
		copy(sub.Items, d.Items)
		for i := range sub.Items {
			sub.Items[i].IsEstimate = false // UI-only flag never persists
		}
		sub.Milestones = d.Milestones
	}
	// Proposal-level terms first, then item-level.
	for _, t := range d.PaymentTerms {
		if t.ItemIndex == nil {
			sub.PaymentTerms = append(sub.PaymentTerms, t)
		}
	}
	for _, t := range d.PaymentTerms {
		if t.ItemIndex != nil {
			sub.PaymentTerms = append(sub.PaymentTerms, t)
		}
	}
	return sub
}

// recompute keeps derived item state consistent: an active blended rate is
// forced onto every hourly item, and hourly/fixed-fee amounts are re-derived.
func recompute(d *model.ProposalDraft) {
	h := d.Billing.HourlySettings()
	for i := range d.Items {
		it := &d.Items[i]
		method := d.Billing.ItemMethod(it)
		if method == model.MethodHourly && h.BlendedActive() {
			rate := h.BlendedRate
			it.Rate = &rate
		}
		switch method {
		case model.MethodHourly, model.MethodFixedFee:
			it.Amount = pricing.Amount(&d.Billing, it)
		}
	}
}

func (s *DraftServiceImpl) load(ctx context.Context, id, ownerID string) (*model.ProposalDraft, error) {
	d, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return d, nil
}
