package onboarding

import (
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/upload"
)

// FieldChangedMsg carries one field edit from a step to the engine.
type FieldChangedMsg struct {
	Section form.Section
	Path    string
	Value   string
}

// QualificationAddedMsg asks the engine to append a qualification draft.
type QualificationAddedMsg struct {
	Draft form.Qualification
}

// QualificationRemovedMsg asks the engine to drop a qualification.
type QualificationRemovedMsg struct {
	ID string
}

// NextStepMsg is sent when the user activates Next.
type NextStepMsg struct{}

// PrevStepMsg is sent when the user activates Back.
type PrevStepMsg struct{}

// SubmitMsg is sent when the user activates Submit or retries.
type SubmitMsg struct{}

// SubmitResultMsg is sent when the backend call returns.
type SubmitResultMsg struct {
	Err error
}

// ResetWizardMsg is sent after a successful submission once the reset
// delay has passed.
type ResetWizardMsg struct{}

// BioEditedMsg is sent when the external editor returns with a new bio.
type BioEditedMsg struct {
	Content string
}

// ImageSelectedMsg is sent when a profile image preview is ready or failed.
type ImageSelectedMsg struct {
	Preview *upload.Preview
	Err     error
}
