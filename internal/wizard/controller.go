package wizard

import (
	"errors"

	"github.com/lexflow/backend/internal/model"
)

// ErrBlocked is returned when step-local validation blocks a forward move.
// The accompanying Violations say which fields to correct.
var ErrBlocked = errors.New("step validation failed")

// ErrOutOfRange is returned for jumps outside the effective step list.
var ErrOutOfRange = errors.New("step index out of range")

// Init resets the draft's wizard state to the first applicable step with an
// empty completion set.
func Init(d *model.ProposalDraft) {
	steps := ApplicableSteps(&d.Billing)
	d.Wizard = model.WizardState{
		Current:   string(steps[0].ID),
		Completed: map[string]bool{},
	}
	autoComplete(d)
}

// Current returns the draft's current step id.
func Current(d *model.ProposalDraft) StepID {
	return StepID(d.Wizard.Current)
}

// Next validates the current step, marks it complete and advances. On the
// terminal review step it only validates. Returns ErrBlocked with the
// violations when validation fails.
func Next(d *model.ProposalDraft) (Violations, error) {
	cur := Current(d)
	if v := CanAdvance(d, cur); !v.Empty() {
		return v, ErrBlocked
	}
	markComplete(d, cur)

	steps := ApplicableSteps(&d.Billing)
	idx := stepIndex(steps, cur)
	if idx >= 0 && idx < len(steps)-1 {
		d.Wizard.Current = string(steps[idx+1].ID)
	}
	return nil, nil
}

// Back moves to the previous applicable step. Backward navigation is never
// validation-gated.
func Back(d *model.ProposalDraft) {
	steps := ApplicableSteps(&d.Billing)
	idx := stepIndex(steps, Current(d))
	if idx > 0 {
		d.Wizard.Current = string(steps[idx-1].ID)
	}
}

// JumpTo moves directly to the step at index in the effective list. Backward
// jumps are always allowed; forward jumps require every required step before
// the target to be completed.
func JumpTo(d *model.ProposalDraft, index int) error {
	steps := ApplicableSteps(&d.Billing)
	if index < 0 || index >= len(steps) {
		return ErrOutOfRange
	}
	cur := stepIndex(steps, Current(d))
	if index > cur {
		for _, s := range steps[:index] {
			if s.Required && !d.Wizard.Completed[string(s.ID)] {
				return ErrBlocked
			}
		}
	}
	d.Wizard.Current = string(steps[index].ID)
	return nil
}

// OnMethodChange recomputes the effective step list after a billing method
// change. Completion of the payment and items steps is always invalidated
// (their validity rules are method-dependent); steps that fell out of the
// list lose their completion too. If the current step became inapplicable the
// controller advances to the nearest still-applicable step, preferring the
// next one in superset order, so the user is never left on a removed step.
func OnMethodChange(d *model.ProposalDraft) {
	steps := ApplicableSteps(&d.Billing)

	if d.Wizard.Completed == nil {
		d.Wizard.Completed = map[string]bool{}
	}
	delete(d.Wizard.Completed, string(StepPayment))
	delete(d.Wizard.Completed, string(StepItems))
	delete(d.Wizard.Completed, string(StepReview))
	for id := range d.Wizard.Completed {
		if stepIndex(steps, StepID(id)) < 0 {
			delete(d.Wizard.Completed, id)
		}
	}
	autoComplete(d)

	if stepIndex(steps, Current(d)) >= 0 {
		return
	}
	// Walk the superset forward from the removed step, then fall back to the
	// last applicable step before it.
	supIdx := 0
	for i, s := range stepSuperset {
		if s.ID == Current(d) {
			supIdx = i
			break
		}
	}
	for _, s := range stepSuperset[supIdx:] {
		if stepIndex(steps, s.ID) >= 0 {
			d.Wizard.Current = string(s.ID)
			return
		}
	}
	for i := supIdx - 1; i >= 0; i-- {
		if stepIndex(steps, stepSuperset[i].ID) >= 0 {
			d.Wizard.Current = string(stepSuperset[i].ID)
			return
		}
	}
}

// autoComplete marks steps that are satisfied without user input: a retainer
// proposal has no line items, so its items step counts as complete.
func autoComplete(d *model.ProposalDraft) {
	if d.Billing.Method == model.MethodRetainer {
		d.Wizard.Completed[string(StepItems)] = true
	}
}

func markComplete(d *model.ProposalDraft, id StepID) {
	if d.Wizard.Completed == nil {
		d.Wizard.Completed = map[string]bool{}
	}
	d.Wizard.Completed[string(id)] = true
}
