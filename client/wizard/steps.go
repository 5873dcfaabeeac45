// Package wizard is the company setup state machine: four ordered steps,
// their form sections and the derived completion state.
package wizard

type Step string

const (
	StepCompany  Step = "company"
	StepFounding Step = "founding"
	StepSocial   Step = "social"
	StepContact  Step = "contact"
)

// StepOrder is the fixed order in which steps are completed.
var StepOrder = []Step{StepCompany, StepFounding, StepSocial, StepContact}

// Index returns the position of s in StepOrder, or -1.
func (s Step) Index() int {
	for i, v := range StepOrder {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Step) Valid() bool { return s.Index() >= 0 }

// Path is the client route of the step's form.
func (s Step) Path() string { return "/setup/" + string(s) }

// ParseStep accepts a step key such as "founding".
func ParseStep(key string) (Step, bool) {
	s := Step(key)
	return s, s.Valid()
}

// after returns the step following s, or false when s is the last step.
func after(s Step) (Step, bool) {
	i := s.Index()
	if i < 0 || i >= len(StepOrder)-1 {
		return "", false
	}
	return StepOrder[i+1], true
}

func lastStep() Step { return StepOrder[len(StepOrder)-1] }
