package wizard

import "github.com/lexflow/backend/internal/model"

// Violations maps field keys to step-local validation failures. An empty map
// means the step may be advanced past.
type Violations map[string]string

// Empty reports whether no violation was recorded.
func (v Violations) Empty() bool { return len(v) == 0 }

// CanAdvance runs the step-local validation for the given step against the
// draft. Forward navigation is gated on the result.
func CanAdvance(d *model.ProposalDraft, id StepID) Violations {
	switch id {
	case StepBilling:
		return validateBilling(d)
	case StepPayment:
		return validatePayment(d)
	case StepMilestones:
		return validateMilestones(d)
	case StepItems:
		return validateItems(d)
	case StepReview:
		return validateReview(d)
	}
	return Violations{}
}

func validateBilling(d *model.ProposalDraft) Violations {
	v := Violations{}
	b := &d.Billing
	if !b.Method.Valid() {
		v["method"] = "required"
		return v
	}
	switch b.Method {
	case model.MethodRetainer:
		requireRetainerCore(b.Retainer, v)
	case model.MethodSuccessFee:
		if b.SuccessFee == nil {
			v["success_fee"] = "required"
		} else {
			merge(v, b.SuccessFee.Validate())
		}
	case model.MethodMixedModel:
		if b.Mixed == nil || len(b.Mixed.Methods) == 0 {
			v["methods"] = "required"
			return v
		}
		for _, m := range b.Mixed.Methods {
			if !m.Secondary() {
				v["methods"] = "invalid_sub_method"
				return v
			}
		}
		if b.Mixed.Has(model.MethodRetainer) {
			requireRetainerCore(b.Mixed.Retainer, v)
		}
		if b.Mixed.Has(model.MethodSuccessFee) {
			if b.Mixed.SuccessFee == nil {
				v["success_fee"] = "required"
			} else {
				merge(v, b.Mixed.SuccessFee.Validate())
			}
		}
	}
	return v
}

// requireRetainerCore checks the fields the billing step needs from a
// retainer part: amount, hours and project scope. The unused-balance policy
// belongs to the payment step.
func requireRetainerCore(rc *model.RetainerConfig, v Violations) {
	if rc == nil {
		v["retainer"] = "required"
		return
	}
	if rc.MonthlyAmount <= 0 {
		v["monthly_amount"] = "must_be_positive"
	}
	if rc.HoursPerMonth <= 0 {
		v["hours_per_month"] = "must_be_positive"
	}
	switch rc.ProjectScope {
	case model.ScopeAllProjects:
	case model.ScopeSpecificProjects:
		if len(rc.ProjectIDs) == 0 {
			v["project_ids"] = "required"
		}
	default:
		v["project_scope"] = "required"
	}
}

func validatePayment(d *model.ProposalDraft) Violations {
	v := Violations{}
	if rc := d.Billing.RetainerSettings(); rc != nil {
		switch rc.UnusedBalancePolicy {
		case model.PolicyExpire:
		case model.PolicyRollover:
			if rc.UnusedBalanceExpiryMonths == nil || *rc.UnusedBalanceExpiryMonths <= 0 {
				v["unused_balance_expiry_months"] = "must_be_positive"
			}
		default:
			v["unused_balance_policy"] = "required"
		}
		return v
	}
	for _, t := range d.PaymentTerms {
		if t.ItemIndex == nil {
			return v
		}
	}
	v["payment_terms"] = "required"
	return v
}

func validateMilestones(d *model.ProposalDraft) Violations {
	v := Violations{}
	if d.Billing.UseMilestones && len(d.Milestones) == 0 {
		v["milestones"] = "required"
	}
	return v
}

func validateItems(d *model.ProposalDraft) Violations {
	v := Violations{}
	if d.Billing.Method == model.MethodRetainer {
		return v
	}
	if len(d.Items) == 0 && len(d.Milestones) == 0 {
		v["items"] = "required"
	}
	return v
}

func validateReview(d *model.ProposalDraft) Violations {
	v := Violations{}
	for _, s := range ApplicableSteps(&d.Billing) {
		if s.ID == StepReview || !s.Required {
			continue
		}
		if !d.Wizard.Completed[string(s.ID)] {
			v[string(s.ID)] = "incomplete"
		}
	}
	return v
}

func merge(dst Violations, src map[string]string) {
	for k, val := range src {
		dst[k] = val
	}
}
