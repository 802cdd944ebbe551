package model

// BillingMethod は提案の課金方式
type BillingMethod string

const (
	MethodFixedFee   BillingMethod = "fixed_fee"
	MethodHourly     BillingMethod = "hourly"
	MethodRetainer   BillingMethod = "retainer"
	MethodSuccessFee BillingMethod = "success_fee"
	MethodMixedModel BillingMethod = "mixed_model"
)

// Valid reports whether m is one of the known billing methods.
func (m BillingMethod) Valid() bool {
	switch m {
	case MethodFixedFee, MethodHourly, MethodRetainer, MethodSuccessFee, MethodMixedModel:
		return true
	}
	return false
}

// Secondary reports whether m may appear inside a mixed-model selection.
// Mixed model itself can never nest.
func (m BillingMethod) Secondary() bool {
	return m.Valid() && m != MethodMixedModel
}

// RateStrategy decides how the hourly rate for a line item is resolved.
type RateStrategy string

const (
	// StrategyFixedRange: rate is entered per item; min/max are advisory only.
	StrategyFixedRange RateStrategy = "fixed_range"
	// StrategyHourlyTable: rate is looked up by professional profile.
	StrategyHourlyTable RateStrategy = "hourly_table"
	// StrategyBlended: a single rate overrides every profile.
	StrategyBlended RateStrategy = "blended"
)

// Profile は担当者の職位（時間単価テーブルのキー）
type Profile string

const (
	ProfileSecretariat  Profile = "secretariat"
	ProfileTrainee      Profile = "trainee"
	ProfileJuniorLawyer Profile = "junior_lawyer"
	ProfileLawyer       Profile = "lawyer"
	ProfileSeniorLawyer Profile = "senior_lawyer"
	ProfilePartner      Profile = "partner"
)

// HourlyConfig carries the rate-resolution settings for any hourly-capable
// billing context (a pure hourly proposal or the hourly part of a mixed one).
type HourlyConfig struct {
	Strategy       RateStrategy        `json:"strategy"`
	RateMin        float64             `json:"rate_min,omitempty"`
	RateMax        float64             `json:"rate_max,omitempty"`
	RateTable      map[Profile]float64 `json:"rate_table,omitempty"`
	BlendedRate    float64             `json:"blended_rate,omitempty"`
	UseBlendedRate bool                `json:"use_blended_rate"`
}

// BlendedActive reports whether the blended override is in effect.
func (h *HourlyConfig) BlendedActive() bool {
	return h != nil && h.UseBlendedRate && h.BlendedRate > 0
}

// MixedConfig holds the sub-method selection of a mixed-model proposal and
// the per-method configuration for each selected sub-method.
type MixedConfig struct {
	Methods    []BillingMethod   `json:"methods"`
	Hourly     *HourlyConfig     `json:"hourly,omitempty"`
	Retainer   *RetainerConfig   `json:"retainer,omitempty"`
	SuccessFee *SuccessFeeConfig `json:"success_fee,omitempty"`
}

// Has reports whether method m is part of the mixed selection.
func (c *MixedConfig) Has(m BillingMethod) bool {
	if c == nil {
		return false
	}
	for _, sm := range c.Methods {
		if sm == m {
			return true
		}
	}
	return false
}

// BillingConfig is a tagged union: Method selects which one of the method
// configs is populated. Fields for other methods are always nil, so invalid
// combinations (success-fee fields on a fixed-fee proposal) cannot exist.
type BillingConfig struct {
	Method     BillingMethod     `json:"method"`
	Hourly     *HourlyConfig     `json:"hourly,omitempty"`
	Retainer   *RetainerConfig   `json:"retainer,omitempty"`
	SuccessFee *SuccessFeeConfig `json:"success_fee,omitempty"`
	Mixed      *MixedConfig      `json:"mixed,omitempty"`

	// UseMilestones enables the milestone payment checkpoints for methods
	// whose step flow supports them (fixed fee and mixed model).
	UseMilestones bool `json:"use_milestones"`
}

// SetMethod switches the billing method and drops every config branch that
// does not belong to the new method. The branch for the new method is
// allocated empty when absent so callers can fill it in.
func (b *BillingConfig) SetMethod(m BillingMethod) {
	b.Method = m
	if m != MethodHourly {
		b.Hourly = nil
	}
	if m != MethodRetainer {
		b.Retainer = nil
	}
	if m != MethodSuccessFee {
		b.SuccessFee = nil
	}
	if m != MethodMixedModel {
		b.Mixed = nil
	}
	switch m {
	case MethodHourly:
		if b.Hourly == nil {
			b.Hourly = &HourlyConfig{Strategy: StrategyFixedRange}
		}
	case MethodRetainer:
		if b.Retainer == nil {
			b.Retainer = &RetainerConfig{}
		}
	case MethodSuccessFee:
		if b.SuccessFee == nil {
			b.SuccessFee = &SuccessFeeConfig{}
		}
	case MethodMixedModel:
		if b.Mixed == nil {
			b.Mixed = &MixedConfig{}
		}
	}
	if m != MethodFixedFee && m != MethodMixedModel {
		b.UseMilestones = false
	}
}

// HasRetainer reports whether the proposal carries a retainer, either as the
// top-level method or as a mixed-model sub-method.
func (b *BillingConfig) HasRetainer() bool {
	return b.Method == MethodRetainer || (b.Method == MethodMixedModel && b.Mixed.Has(MethodRetainer))
}

// RetainerSettings returns the active retainer config regardless of where it
// lives in the union, or nil when the proposal has no retainer part.
func (b *BillingConfig) RetainerSettings() *RetainerConfig {
	if b.Method == MethodRetainer {
		return b.Retainer
	}
	if b.Method == MethodMixedModel && b.Mixed != nil && b.Mixed.Has(MethodRetainer) {
		return b.Mixed.Retainer
	}
	return nil
}

// HourlySettings returns the active hourly config (top-level or mixed),
// or nil when the proposal has no hourly part.
func (b *BillingConfig) HourlySettings() *HourlyConfig {
	if b.Method == MethodHourly {
		return b.Hourly
	}
	if b.Method == MethodMixedModel && b.Mixed != nil && b.Mixed.Has(MethodHourly) {
		return b.Mixed.Hourly
	}
	return nil
}

// SuccessFeeSettings returns the active success-fee config (top-level or
// mixed), or nil when the proposal has no success-fee part.
func (b *BillingConfig) SuccessFeeSettings() *SuccessFeeConfig {
	if b.Method == MethodSuccessFee {
		return b.SuccessFee
	}
	if b.Method == MethodMixedModel && b.Mixed != nil && b.Mixed.Has(MethodSuccessFee) {
		return b.Mixed.SuccessFee
	}
	return nil
}

// ItemMethod resolves the billing context a line item is computed under:
// the item's own method for mixed-model proposals, the top-level method
// otherwise.
func (b *BillingConfig) ItemMethod(item *LineItem) BillingMethod {
	if b.Method == MethodMixedModel && item.BillingMethod != nil {
		return *item.BillingMethod
	}
	return b.Method
}
