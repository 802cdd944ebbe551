package model

import (
	"strings"
	"testing"
)

func TestLineItem_DiscountMutualExclusion(t *testing.T) {
	var it LineItem
	it.SetDiscountPercent(10)
	if it.DiscountPercent == nil || *it.DiscountPercent != 10 || it.DiscountAmount != nil {
		t.Errorf("after SetDiscountPercent: %+v", it)
	}
	it.SetDiscountAmount(50)
	if it.DiscountAmount == nil || *it.DiscountAmount != 50 || it.DiscountPercent != nil {
		t.Errorf("after SetDiscountAmount: %+v", it)
	}
	it.ClearDiscount()
	if it.DiscountPercent != nil || it.DiscountAmount != nil {
		t.Errorf("after ClearDiscount: %+v", it)
	}
}

func TestLineItem_ClearingCapClearsBothBounds(t *testing.T) {
	hours, amount := 40.0, 8000.0
	it := LineItem{IsCapped: true, CappedHours: &hours, CappedAmount: &amount}
	it.SetCapped(false)
	if it.CappedHours != nil || it.CappedAmount != nil {
		t.Errorf("cap bounds must clear with the cap: %+v", it)
	}
	it.SetCapped(true)
	if it.CappedHours != nil || it.CappedAmount != nil {
		t.Error("re-enabling the cap must not resurrect old bounds")
	}
}

func TestLineItem_RemoveMilestoneID(t *testing.T) {
	it := LineItem{MilestoneIDs: []string{"a", "b", "a", "c"}}
	it.RemoveMilestoneID("a")
	if len(it.MilestoneIDs) != 2 || it.MilestoneIDs[0] != "b" || it.MilestoneIDs[1] != "c" {
		t.Errorf("unexpected milestone ids: %v", it.MilestoneIDs)
	}
}

func TestBillingConfig_SetMethodDropsOtherBranches(t *testing.T) {
	var b BillingConfig
	b.SetMethod(MethodSuccessFee)
	b.SuccessFee.SetBaseType(BaseFixedAmount)
	b.SuccessFee.BaseAmount = 1000

	b.SetMethod(MethodFixedFee)
	if b.SuccessFee != nil || b.Hourly != nil || b.Retainer != nil || b.Mixed != nil {
		t.Errorf("fixed fee must carry no other branch: %+v", b)
	}

	b.SetMethod(MethodRetainer)
	if b.Retainer == nil {
		t.Error("retainer branch should be allocated")
	}
	if b.UseMilestones {
		t.Error("milestone usage must reset off fixed fee / mixed")
	}
}

func TestBillingConfig_RetainerSettingsFromMixed(t *testing.T) {
	var b BillingConfig
	b.SetMethod(MethodMixedModel)
	b.Mixed.Methods = []BillingMethod{MethodHourly, MethodRetainer}
	b.Mixed.Retainer = &RetainerConfig{MonthlyAmount: 100}

	if !b.HasRetainer() {
		t.Error("mixed with retainer sub-method must report HasRetainer")
	}
	if rc := b.RetainerSettings(); rc == nil || rc.MonthlyAmount != 100 {
		t.Errorf("unexpected retainer settings: %+v", rc)
	}
}

func TestSuccessFeeConfig_SwitchingBranchZeroesOther(t *testing.T) {
	c := SuccessFeeConfig{}
	c.SetBaseType(BaseHourlyRate)
	c.BaseRate = 200
	c.BaseDescription = "hourly work until closing"
	c.SetBaseType(BaseFixedAmount)
	if c.BaseRate != 0 || c.BaseDescription != "" {
		t.Errorf("hourly branch must be zeroed: %+v", c)
	}

	c.SetFeeType(FeePercentage)
	c.FeePercent = 5
	c.TransactionValue = 1_000_000
	c.SetFeeType(FeeFixedAmount)
	if c.FeePercent != 0 || c.TransactionValue != 0 {
		t.Errorf("percentage branch must be zeroed: %+v", c)
	}
}

func TestSuccessFeeConfig_Validate(t *testing.T) {
	c := SuccessFeeConfig{}
	v := c.Validate()
	if v["base_type"] != "required" || v["fee_type"] != "required" {
		t.Errorf("expected branch type violations, got %v", v)
	}

	c.SetBaseType(BaseHourlyRate)
	c.BaseRate = 150
	c.BaseDescription = "advisory"
	c.SetFeeType(FeeFixedAmount)
	c.FeeAmount = 20000
	if v := c.Validate(); len(v) != 0 {
		t.Errorf("expected valid config, got %v", v)
	}
}

func TestRetainerConfig_ExpireForbidsExpiryMonths(t *testing.T) {
	months := 2
	c := RetainerConfig{
		MonthlyAmount:       1000,
		HoursPerMonth:       20,
		AdditionalHoursType: AdditionalHoursFixedRate,
		AdditionalHoursRate: 120,
		ProjectScope:        ScopeAllProjects,
	}
	c.UnusedBalancePolicy = PolicyExpire
	c.UnusedBalanceExpiryMonths = &months
	if v := c.Validate(); v["unused_balance_expiry_months"] != "must_be_empty" {
		t.Errorf("expire with expiry months must be rejected, got %v", v)
	}

	c.SetUnusedBalancePolicy(PolicyExpire)
	if c.UnusedBalanceExpiryMonths != nil {
		t.Error("SetUnusedBalancePolicy(expire) must clear the expiry count")
	}
	if v := c.Validate(); len(v) != 0 {
		t.Errorf("expected valid config, got %v", v)
	}
}

func TestRetainerConfig_RolloverRequiresExpiryMonths(t *testing.T) {
	c := RetainerConfig{
		MonthlyAmount:       1000,
		HoursPerMonth:       20,
		AdditionalHoursType: AdditionalHoursFixedRate,
		AdditionalHoursRate: 120,
		ProjectScope:        ScopeAllProjects,
	}
	c.SetUnusedBalancePolicy(PolicyRollover)
	if v := c.Validate(); v["unused_balance_expiry_months"] != "must_be_positive" {
		t.Errorf("expected expiry violation, got %v", v)
	}
	months := 3
	c.UnusedBalanceExpiryMonths = &months
	if v := c.Validate(); len(v) != 0 {
		t.Errorf("expected valid config, got %v", v)
	}
}

func TestRetainerConfig_ValidateAdditionalHoursBranches(t *testing.T) {
	base := RetainerConfig{
		MonthlyAmount: 1000, HoursPerMonth: 20, ProjectScope: ScopeAllProjects,
		UnusedBalancePolicy: PolicyExpire,
	}

	c := base
	c.AdditionalHoursType = AdditionalHoursRateRange
	c.AdditionalHoursRateMin = 200
	c.AdditionalHoursRateMax = 100
	if v := c.Validate(); v["additional_hours_rate_range"] != "invalid_range" {
		t.Errorf("expected invalid_range, got %v", v)
	}

	c = base
	c.AdditionalHoursType = AdditionalHoursHourlyTable
	if v := c.Validate(); v["additional_hours_rate_table"] != "required" {
		t.Errorf("expected table violation, got %v", v)
	}
	c.AdditionalHoursRateTable = map[Profile]float64{ProfileLawyer: 180}
	if v := c.Validate(); len(v) != 0 {
		t.Errorf("expected valid config, got %v", v)
	}
}

func TestRetainerConfig_Summary(t *testing.T) {
	months, term := 3, 12
	c := RetainerConfig{
		MonthlyAmount:             1500,
		HoursPerMonth:             25,
		AdditionalHoursType:       AdditionalHoursFixedRate,
		AdditionalHoursRate:       120,
		UnusedBalancePolicy:       PolicyRollover,
		UnusedBalanceExpiryMonths: &months,
		DurationMonths:            &term,
	}
	s := c.Summary()
	for _, want := range []string{"1500.00/month", "25.0 hours", "120.00/h", "roll over for 3 months", "12-month term"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q missing %q", s, want)
		}
	}

	c.SetUnusedBalancePolicy(PolicyExpire)
	if s := c.Summary(); !strings.Contains(s, "expire at month end") {
		t.Errorf("summary %q should mention month-end expiry", s)
	}
}
