// Package wizard implements the proposal configuration step machine: an
// ordered, dynamically filtered step list with per-step validation gating
// forward navigation.
package wizard

import "github.com/lexflow/backend/internal/model"

// StepID identifies a wizard step.
type StepID string

const (
	StepBilling    StepID = "billing"
	StepPayment    StepID = "payment"
	StepMilestones StepID = "milestones"
	StepItems      StepID = "items"
	StepReview     StepID = "review"
)

// Step describes one entry of the step superset.
type Step struct {
	ID          StepID `json:"id"`
	Title       string `json:"title"`
	Required    bool   `json:"required"`
	Conditional bool   `json:"conditional"`
}

// stepSuperset is the fixed ordered superset the effective list is filtered
// from. The milestones step is optional; the conditional steps appear or
// disappear with the billing method.
var stepSuperset = []Step{
	{ID: StepBilling, Title: "Billing method", Required: true},
	{ID: StepPayment, Title: "Payment terms", Required: true},
	{ID: StepMilestones, Title: "Milestones", Required: false, Conditional: true},
	{ID: StepItems, Title: "Line items", Required: true, Conditional: true},
	{ID: StepReview, Title: "Review", Required: true},
}

// ApplicableSteps projects the superset for the given billing config:
// milestones only for fixed fee and mixed model, no items step for retainer.
func ApplicableSteps(b *model.BillingConfig) []Step {
	steps := make([]Step, 0, len(stepSuperset))
	for _, s := range stepSuperset {
		switch s.ID {
		case StepMilestones:
			if b.Method != model.MethodFixedFee && b.Method != model.MethodMixedModel {
				continue
			}
		case StepItems:
			if b.Method == model.MethodRetainer {
				continue
			}
		}
		steps = append(steps, s)
	}
	return steps
}

func stepIndex(steps []Step, id StepID) int {
	for i, s := range steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}
