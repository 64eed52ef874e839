package onboarding

import (
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/tui/wizard"
)

// NewEmergencyStep creates the emergency contact step.
func NewEmergencyStep(dispatch dispatchFunc) stepView {
	return &emergencyStep{newFieldStep(form.SectionEmergency, dispatch,
		wizard.TextField("name", "Name", "Full name"),
		wizard.TextField("relationship", "Relationship", "ctrl+n for suggestions", form.Relationships...),
		wizard.TextField("phone", "Phone", ""),
		wizard.TextField("email", "Email", ""),
		wizard.TextField("address", "Address", ""),
	)}
}

type emergencyStep struct{ *fieldStep }

func (s *emergencyStep) Hints() []string {
	return []string{"tab", "next field", "ctrl+n/p", "suggest", "esc", "back"}
}
