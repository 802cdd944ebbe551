// Package pricing implements the proposal pricing engine: hourly rate
// resolution, line item amounts, the services/expenses split and the
// proposal totals. Everything here is pure and synchronous; callers
// recompute on every relevant change.
package pricing

import "github.com/lexflow/backend/internal/model"

// ResolveRate resolves the effective hourly rate for a line item under the
// given hourly config. An active blended rate overrides everything else.
// Under the hourly table the rate is keyed by the item's profile (0 when the
// profile is absent from the table). Fixed range is advisory only: the rate
// entered on the item passes through untouched.
func ResolveRate(h *model.HourlyConfig, item *model.LineItem) float64 {
	if h == nil {
		return itemRate(item)
	}
	if h.BlendedActive() {
		return h.BlendedRate
	}
	switch h.Strategy {
	case model.StrategyHourlyTable:
		if item.Profile == nil {
			return 0
		}
		return h.RateTable[*item.Profile]
	default:
		return itemRate(item)
	}
}

// DefaultRateFor returns the rate to pre-populate when a person is attached
// to an item: the person's default hourly rate unless a blended rate is
// active (blended wins). The second return is false when nothing should be
// auto-populated.
func DefaultRateFor(h *model.HourlyConfig, u *model.User) (float64, bool) {
	if h.BlendedActive() {
		return h.BlendedRate, true
	}
	if u != nil && u.DefaultHourlyRate != nil {
		return *u.DefaultHourlyRate, true
	}
	return 0, false
}

func itemRate(item *model.LineItem) float64 {
	if item.Rate == nil || *item.Rate < 0 {
		return 0
	}
	return *item.Rate
}
