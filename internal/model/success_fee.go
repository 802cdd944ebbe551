package model

// SuccessFeeBaseType is the base-fee branch of a success-fee arrangement.
type SuccessFeeBaseType string

const (
	BaseFixedAmount SuccessFeeBaseType = "fixed_amount"
	BaseHourlyRate  SuccessFeeBaseType = "hourly_rate"
)

// SuccessFeeType is the success-fee branch.
type SuccessFeeType string

const (
	FeePercentage  SuccessFeeType = "percentage"
	FeeFixedAmount SuccessFeeType = "fixed_amount"
)

// SuccessFeeConfig は成功報酬型の設定。基本報酬と成功報酬のそれぞれで
// 常にちょうど一つの枝だけが値を持つ。
type SuccessFeeConfig struct {
	BaseType        SuccessFeeBaseType `json:"base_type,omitempty"`
	BaseAmount      float64            `json:"base_amount,omitempty"`
	BaseRate        float64            `json:"base_rate,omitempty"`
	BaseDescription string             `json:"base_description,omitempty"`

	FeeType          SuccessFeeType `json:"fee_type,omitempty"`
	FeePercent       float64        `json:"fee_percent,omitempty"`
	TransactionValue float64        `json:"transaction_value,omitempty"`
	FeeAmount        float64        `json:"fee_amount,omitempty"`
}

// SetBaseType switches the base-fee branch, zeroing the other branch's fields.
func (c *SuccessFeeConfig) SetBaseType(t SuccessFeeBaseType) {
	if c.BaseType == t {
		return
	}
	c.BaseType = t
	switch t {
	case BaseFixedAmount:
		c.BaseRate = 0
		c.BaseDescription = ""
	case BaseHourlyRate:
		c.BaseAmount = 0
	}
}

// SetFeeType switches the success-fee branch, zeroing the other branch's fields.
func (c *SuccessFeeConfig) SetFeeType(t SuccessFeeType) {
	if c.FeeType == t {
		return
	}
	c.FeeType = t
	switch t {
	case FeePercentage:
		c.FeeAmount = 0
	case FeeFixedAmount:
		c.FeePercent = 0
		c.TransactionValue = 0
	}
}

// Validate checks that exactly one base branch and one fee branch are
// populated with their required fields.
func (c *SuccessFeeConfig) Validate() map[string]string {
	v := map[string]string{}
	switch c.BaseType {
	case BaseFixedAmount:
		if c.BaseAmount <= 0 {
			v["base_amount"] = "must_be_positive"
		}
	case BaseHourlyRate:
		if c.BaseRate <= 0 {
			v["base_rate"] = "must_be_positive"
		}
		if c.BaseDescription == "" {
			v["base_description"] = "required"
		}
	default:
		v["base_type"] = "required"
	}
	switch c.FeeType {
	case FeePercentage:
		if c.FeePercent <= 0 {
			v["fee_percent"] = "must_be_positive"
		}
		if c.TransactionValue <= 0 {
			v["transaction_value"] = "must_be_positive"
		}
	case FeeFixedAmount:
		if c.FeeAmount <= 0 {
			v["fee_amount"] = "must_be_positive"
		}
	default:
		v["fee_type"] = "required"
	}
	return v
}
