package engine

import "github.com/mark3labs/teacherhub/internal/form"

// StepID identifies a wizard step.
type StepID string

const (
	StepPersonal       StepID = "personal"
	StepContact        StepID = "contact"
	StepQualifications StepID = "qualifications"
	StepAvailability   StepID = "availability"
	StepEmergency      StepID = "emergency"
	StepReview         StepID = "review"
)

// Step is one entry of the wizard sequence.
type Step struct {
	ID          StepID
	Title       string
	Description string
	// Section edited on this step. Empty for the review step.
	Section   form.Section
	Completed bool
}

func defaultSteps() []Step {
	return []Step{
		{ID: StepPersonal, Title: "Personal Info", Description: "Basic personal details", Section: form.SectionPersonal},
		{ID: StepContact, Title: "Contact Details", Description: "Contact information", Section: form.SectionContact},
		{ID: StepQualifications, Title: "Qualifications", Description: "Education & certifications", Section: form.SectionQualifications},
		{ID: StepAvailability, Title: "Availability", Description: "Schedule preferences", Section: form.SectionAvailability},
		{ID: StepEmergency, Title: "Emergency Contact", Description: "Emergency information", Section: form.SectionEmergency},
		{ID: StepReview, Title: "Review", Description: "Final review"},
	}
}

// Sequence is the fixed ordered list of steps and the current position.
// Completed flags are only ever set, never cleared, until Reset.
type Sequence struct {
	steps   []Step
	current int
}

// NewSequence returns the six-step sequence positioned on the first step.
func NewSequence() *Sequence {
	return &Sequence{steps: defaultSteps()}
}

// Current returns the step at the current position.
func (s *Sequence) Current() Step { return s.steps[s.current] }

// Index returns the zero-based current position.
func (s *Sequence) Index() int { return s.current }

// Len returns the number of steps.
func (s *Sequence) Len() int { return len(s.steps) }

// Steps returns a copy of all steps.
func (s *Sequence) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// IsFirst reports whether the current step is the first.
func (s *Sequence) IsFirst() bool { return s.current == 0 }

// IsLast reports whether the current step is the terminal review step.
func (s *Sequence) IsLast() bool { return s.current == len(s.steps)-1 }

// IsCompleted reports the completed flag of step i.
func (s *Sequence) IsCompleted(i int) bool {
	return i >= 0 && i < len(s.steps) && s.steps[i].Completed
}

func (s *Sequence) markCompleted(i int) {
	if i >= 0 && i < len(s.steps) {
		s.steps[i].Completed = true
	}
}

func (s *Sequence) advance() { s.current++ }

func (s *Sequence) back() { s.current-- }
