package model

import (
	"fmt"
	"strings"
	"time"
)

// AdditionalHoursType decides how hours beyond the monthly allowance are billed.
type AdditionalHoursType string

const (
	AdditionalHoursFixedRate   AdditionalHoursType = "fixed_rate"
	AdditionalHoursRateRange   AdditionalHoursType = "rate_range"
	AdditionalHoursHourlyTable AdditionalHoursType = "hourly_table"
)

// ProjectScope limits which projects draw down the retainer.
type ProjectScope string

const (
	ScopeAllProjects      ProjectScope = "all_projects"
	ScopeSpecificProjects ProjectScope = "specific_projects"
)

// UnusedBalancePolicy decides what happens to unspent retainer hours.
//
// PolicyExpire is the fixed end-of-month rule: unused hours are lost when the
// month closes and ExpiryMonths must be nil. PolicyRollover carries unused
// hours forward and requires a positive ExpiryMonths after which the rolled
// balance lapses. No other variant is supported.
type UnusedBalancePolicy string

const (
	PolicyExpire   UnusedBalancePolicy = "expire"
	PolicyRollover UnusedBalancePolicy = "rollover"
)

// RetainerConfig はリテイナー（顧問）契約の設定
type RetainerConfig struct {
	MonthlyAmount float64 `json:"monthly_amount"`
	HoursPerMonth float64 `json:"hours_per_month"`

	AdditionalHoursType      AdditionalHoursType `json:"additional_hours_type,omitempty"`
	AdditionalHoursRate      float64             `json:"additional_hours_rate,omitempty"`
	AdditionalHoursRateMin   float64             `json:"additional_hours_rate_min,omitempty"`
	AdditionalHoursRateMax   float64             `json:"additional_hours_rate_max,omitempty"`
	AdditionalHoursRateTable map[Profile]float64 `json:"additional_hours_rate_table,omitempty"`

	StartDate      *time.Time `json:"start_date,omitempty"`
	DurationMonths *int       `json:"duration_months,omitempty"`

	ProjectScope ProjectScope `json:"project_scope,omitempty"`
	ProjectIDs   []string     `json:"project_ids,omitempty"`

	UnusedBalancePolicy       UnusedBalancePolicy `json:"unused_balance_policy,omitempty"`
	UnusedBalanceExpiryMonths *int                `json:"unused_balance_expiry_months,omitempty"`
}

// SetUnusedBalancePolicy switches the policy and normalizes the expiry field:
// expire never carries an expiry count, rollover keeps whatever is set.
func (c *RetainerConfig) SetUnusedBalancePolicy(p UnusedBalancePolicy) {
	c.UnusedBalancePolicy = p
	if p == PolicyExpire {
		c.UnusedBalanceExpiryMonths = nil
	}
}

// Validate checks the retainer configuration and returns field-keyed
// violations. An empty map means the config is complete.
func (c *RetainerConfig) Validate() map[string]string {
	v := map[string]string{}
	if c.MonthlyAmount <= 0 {
		v["monthly_amount"] = "must_be_positive"
	}
	if c.HoursPerMonth <= 0 {
		v["hours_per_month"] = "must_be_positive"
	}
	switch c.AdditionalHoursType {
	case AdditionalHoursFixedRate:
		if c.AdditionalHoursRate <= 0 {
			v["additional_hours_rate"] = "must_be_positive"
		}
	case AdditionalHoursRateRange:
		if c.AdditionalHoursRateMin <= 0 || c.AdditionalHoursRateMax < c.AdditionalHoursRateMin {
			v["additional_hours_rate_range"] = "invalid_range"
		}
	case AdditionalHoursHourlyTable:
		if len(c.AdditionalHoursRateTable) == 0 {
			v["additional_hours_rate_table"] = "required"
		}
	default:
		v["additional_hours_type"] = "required"
	}
	switch c.ProjectScope {
	case ScopeAllProjects:
	case ScopeSpecificProjects:
		if len(c.ProjectIDs) == 0 {
			v["project_ids"] = "required"
		}
	default:
		v["project_scope"] = "required"
	}
	switch c.UnusedBalancePolicy {
	case PolicyExpire:
		if c.UnusedBalanceExpiryMonths != nil {
			v["unused_balance_expiry_months"] = "must_be_empty"
		}
	case PolicyRollover:
		if c.UnusedBalanceExpiryMonths == nil || *c.UnusedBalanceExpiryMonths <= 0 {
			v["unused_balance_expiry_months"] = "must_be_positive"
		}
	default:
		v["unused_balance_policy"] = "required"
	}
	return v
}

// Summary renders a short human-readable description of the drawdown and
// unused-balance policy for display on the review step.
func (c *RetainerConfig) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.2f/month for %.1f hours", c.MonthlyAmount, c.HoursPerMonth)
	switch c.AdditionalHoursType {
	case AdditionalHoursFixedRate:
		fmt.Fprintf(&b, "; additional hours at %.2f/h", c.AdditionalHoursRate)
	case AdditionalHoursRateRange:
		fmt.Fprintf(&b, "; additional hours at %.2f–%.2f/h", c.AdditionalHoursRateMin, c.AdditionalHoursRateMax)
	case AdditionalHoursHourlyTable:
		b.WriteString("; additional hours billed by profile")
	}
	switch c.UnusedBalancePolicy {
	case PolicyExpire:
		b.WriteString("; unused hours expire at month end")
	case PolicyRollover:
		if c.UnusedBalanceExpiryMonths != nil {
			fmt.Fprintf(&b, "; unused hours roll over for %d months", *c.UnusedBalanceExpiryMonths)
		} else {
			b.WriteString("; unused hours roll over")
		}
	}
	if c.DurationMonths != nil {
		fmt.Fprintf(&b, " (%d-month term)", *c.DurationMonths)
	}
	return b.String()
}
