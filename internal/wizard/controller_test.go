package wizard

import (
	"errors"
	"testing"

	"github.com/lexflow/backend/internal/model"
)

func draftWithMethod(m model.BillingMethod) *model.ProposalDraft {
	d := &model.ProposalDraft{}
	d.Billing.SetMethod(m)
	Init(d)
	return d
}

func TestApplicableSteps_RetainerNeverIncludesItems(t *testing.T) {
	d := draftWithMethod(model.MethodRetainer)
	for _, s := range ApplicableSteps(&d.Billing) {
		if s.ID == StepItems {
			t.Fatal("retainer step list must not include items")
		}
		if s.ID == StepMilestones {
			t.Fatal("retainer step list must not include milestones")
		}
	}
}

func TestApplicableSteps_FixedFeeAndMixedIncludeMilestones(t *testing.T) {
	for _, m := range []model.BillingMethod{model.MethodFixedFee, model.MethodMixedModel} {
		d := draftWithMethod(m)
		if stepIndex(ApplicableSteps(&d.Billing), StepMilestones) < 0 {
			t.Errorf("%s: expected milestones step", m)
		}
	}
	for _, m := range []model.BillingMethod{model.MethodHourly, model.MethodSuccessFee, model.MethodRetainer} {
		d := draftWithMethod(m)
		if stepIndex(ApplicableSteps(&d.Billing), StepMilestones) >= 0 {
			t.Errorf("%s: unexpected milestones step", m)
		}
	}
}

func TestInit_StartsOnBilling(t *testing.T) {
	d := draftWithMethod(model.MethodHourly)
	if Current(d) != StepBilling {
		t.Errorf("expected billing, got %s", Current(d))
	}
}

func TestNext_BlockedWithoutMethod(t *testing.T) {
	d := &model.ProposalDraft{}
	Init(d)
	v, err := Next(d)
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if v["method"] != "required" {
		t.Errorf("expected method violation, got %v", v)
	}
}

func TestNext_AdvancesThroughHourlyFlow(t *testing.T) {
	d := draftWithMethod(model.MethodHourly)
	d.PaymentTerms = []model.PaymentTerm{{Type: model.TermOnCompletion}}
	d.Items = []model.LineItem{{Description: "Research", Amount: 100}}

	want := []StepID{StepBilling, StepPayment, StepItems, StepReview}
	for i, id := range want {
		if Current(d) != id {
			t.Fatalf("step %d: expected %s, got %s", i, id, Current(d))
		}
		if v, err := Next(d); err != nil {
			t.Fatalf("step %s blocked: %v", id, v)
		}
	}
	// Terminal: stays on review.
	if Current(d) != StepReview {
		t.Errorf("expected to remain on review, got %s", Current(d))
	}
}

func TestNext_PaymentRequiresTermForNonRetainer(t *testing.T) {
	d := draftWithMethod(model.MethodHourly)
	if _, err := Next(d); err != nil {
		t.Fatalf("billing step blocked: %v", err)
	}
	v, err := Next(d)
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if v["payment_terms"] != "required" {
		t.Errorf("expected payment_terms violation, got %v", v)
	}
}

func TestNext_PaymentRequiresPolicyForRetainer(t *testing.T) {
	d := draftWithMethod(model.MethodRetainer)
	d.Billing.Retainer = &model.RetainerConfig{
		MonthlyAmount: 500,
		HoursPerMonth: 10,
		ProjectScope:  model.ScopeAllProjects,
	}
	if _, err := Next(d); err != nil {
		t.Fatalf("billing step blocked: %v", err)
	}

	v, err := Next(d)
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if v["unused_balance_policy"] != "required" {
		t.Errorf("expected policy violation, got %v", v)
	}

	d.Billing.Retainer.SetUnusedBalancePolicy(model.PolicyRollover)
	v, err = Next(d)
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked for rollover without expiry, got %v", err)
	}
	if v["unused_balance_expiry_months"] != "must_be_positive" {
		t.Errorf("expected expiry violation, got %v", v)
	}

	months := 3
	d.Billing.Retainer.UnusedBalanceExpiryMonths = &months
	if _, err := Next(d); err != nil {
		t.Fatalf("payment step still blocked: %v", err)
	}
}

func TestNext_RetainerSkipsItemsAndAutoCompletes(t *testing.T) {
	d := draftWithMethod(model.MethodRetainer)
	if !d.Wizard.Completed[string(StepItems)] {
		t.Error("retainer draft should auto-complete the items step")
	}
	d.Billing.Retainer = &model.RetainerConfig{
		MonthlyAmount: 500, HoursPerMonth: 10, ProjectScope: model.ScopeAllProjects,
	}
	d.Billing.Retainer.SetUnusedBalancePolicy(model.PolicyExpire)

	if _, err := Next(d); err != nil {
		t.Fatalf("billing blocked: %v", err)
	}
	if _, err := Next(d); err != nil {
		t.Fatalf("payment blocked: %v", err)
	}
	if Current(d) != StepReview {
		t.Fatalf("expected review directly after payment, got %s", Current(d))
	}
	if _, err := Next(d); err != nil {
		t.Fatalf("review blocked: %v", err)
	}
}

func TestNext_ItemsSatisfiedByMilestoneOnly(t *testing.T) {
	d := draftWithMethod(model.MethodFixedFee)
	d.Milestones = []model.Milestone{{ID: "m1", Name: "Filing"}}
	if v := CanAdvance(d, StepItems); !v.Empty() {
		t.Errorf("milestone should satisfy the items step, got %v", v)
	}
}

func TestNext_MilestonesRequiredWhenEnabled(t *testing.T) {
	d := draftWithMethod(model.MethodFixedFee)
	d.Billing.UseMilestones = true
	if v := CanAdvance(d, StepMilestones); v["milestones"] != "required" {
		t.Errorf("expected milestones violation, got %v", v)
	}
	d.Milestones = []model.Milestone{{ID: "m1", Name: "Filing"}}
	if v := CanAdvance(d, StepMilestones); !v.Empty() {
		t.Errorf("expected no violation, got %v", v)
	}
}

func TestBack_MovesToPreviousStep(t *testing.T) {
	d := draftWithMethod(model.MethodHourly)
	if _, err := Next(d); err != nil {
		t.Fatalf("billing blocked: %v", err)
	}
	Back(d)
	if Current(d) != StepBilling {
		t.Errorf("expected billing, got %s", Current(d))
	}
	Back(d) // already first: no-op
	if Current(d) != StepBilling {
		t.Errorf("expected billing after no-op back, got %s", Current(d))
	}
}

func TestJumpTo_ForwardGatedOnCompletion(t *testing.T) {
	d := draftWithMethod(model.MethodHourly)
	steps := ApplicableSteps(&d.Billing)
	if err := JumpTo(d, stepIndex(steps, StepReview)); !errors.Is(err, ErrBlocked) {
		t.Errorf("expected ErrBlocked, got %v", err)
	}
	if err := JumpTo(d, len(steps)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if err := JumpTo(d, 0); err != nil {
		t.Errorf("backward jump should always work: %v", err)
	}
}

func TestOnMethodChange_AdvancesOffRemovedStep(t *testing.T) {
	// FIXED_FEE on the milestones step, switch to HOURLY: milestones becomes
	// inapplicable and the controller must land on items.
	d := draftWithMethod(model.MethodFixedFee)
	d.Wizard.Current = string(StepMilestones)

	d.Billing.SetMethod(model.MethodHourly)
	OnMethodChange(d)

	if Current(d) != StepItems {
		t.Errorf("expected items, got %s", Current(d))
	}
}

func TestOnMethodChange_SwitchToRetainerFromItemsLandsOnReview(t *testing.T) {
	d := draftWithMethod(model.MethodFixedFee)
	d.Wizard.Current = string(StepItems)

	d.Billing.SetMethod(model.MethodRetainer)
	OnMethodChange(d)

	if Current(d) != StepReview {
		t.Errorf("expected review (next applicable after items), got %s", Current(d))
	}
}

func TestOnMethodChange_InvalidatesPaymentAndItems(t *testing.T) {
	d := draftWithMethod(model.MethodHourly)
	d.Wizard.Completed = map[string]bool{
		string(StepBilling): true,
		string(StepPayment): true,
		string(StepItems):   true,
	}

	d.Billing.SetMethod(model.MethodSuccessFee)
	OnMethodChange(d)

	if d.Wizard.Completed[string(StepPayment)] {
		t.Error("payment completion must not survive a method change")
	}
	if d.Wizard.Completed[string(StepItems)] {
		t.Error("items completion must not survive a method change")
	}
	if !d.Wizard.Completed[string(StepBilling)] {
		t.Error("billing completion should survive")
	}
}

func TestOnMethodChange_RetainerAutoCompletesItems(t *testing.T) {
	d := draftWithMethod(model.MethodHourly)
	d.Billing.SetMethod(model.MethodRetainer)
	OnMethodChange(d)
	if !d.Wizard.Completed[string(StepItems)] {
		t.Error("items should auto-complete for retainer")
	}
}

func TestValidateBilling_MixedRequiresSubMethods(t *testing.T) {
	d := draftWithMethod(model.MethodMixedModel)
	if v := CanAdvance(d, StepBilling); v["methods"] != "required" {
		t.Errorf("expected methods violation, got %v", v)
	}

	d.Billing.Mixed.Methods = []model.BillingMethod{model.MethodMixedModel}
	if v := CanAdvance(d, StepBilling); v["methods"] != "invalid_sub_method" {
		t.Errorf("expected invalid_sub_method, got %v", v)
	}

	d.Billing.Mixed.Methods = []model.BillingMethod{model.MethodRetainer, model.MethodSuccessFee}
	v := CanAdvance(d, StepBilling)
	if v["retainer"] != "required" || v["success_fee"] != "required" {
		t.Errorf("expected sub-config violations, got %v", v)
	}

	d.Billing.Mixed.Retainer = &model.RetainerConfig{
		MonthlyAmount: 1000, HoursPerMonth: 20, ProjectScope: model.ScopeAllProjects,
	}
	d.Billing.Mixed.SuccessFee = &model.SuccessFeeConfig{
		BaseType: model.BaseFixedAmount, BaseAmount: 5000,
		FeeType: model.FeePercentage, FeePercent: 5, TransactionValue: 100000,
	}
	if v := CanAdvance(d, StepBilling); !v.Empty() {
		t.Errorf("expected complete mixed config to pass, got %v", v)
	}
}

func TestValidateBilling_SpecificProjectsNeedIDs(t *testing.T) {
	d := draftWithMethod(model.MethodRetainer)
	d.Billing.Retainer = &model.RetainerConfig{
		MonthlyAmount: 1000, HoursPerMonth: 20,
		ProjectScope: model.ScopeSpecificProjects,
	}
	if v := CanAdvance(d, StepBilling); v["project_ids"] != "required" {
		t.Errorf("expected project_ids violation, got %v", v)
	}
	d.Billing.Retainer.ProjectIDs = []string{"p1"}
	if v := CanAdvance(d, StepBilling); !v.Empty() {
		t.Errorf("expected no violation, got %v", v)
	}
}

func TestValidateReview_RequiresPriorRequiredSteps(t *testing.T) {
	d := draftWithMethod(model.MethodHourly)
	d.Wizard.Current = string(StepReview)
	v := CanAdvance(d, StepReview)
	for _, id := range []StepID{StepBilling, StepPayment, StepItems} {
		if v[string(id)] != "incomplete" {
			t.Errorf("expected %s incomplete, got %v", id, v)
		}
	}
	// The optional milestones step never blocks review.
	if _, ok := v[string(StepMilestones)]; ok {
		t.Error("optional milestones step must not gate review")
	}
}
