package onboarding

import (
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/tui/wizard"
)

// NewContactStep creates the contact information step.
func NewContactStep(dispatch dispatchFunc) stepView {
	return &contactStep{newFieldStep(form.SectionContact, dispatch,
		wizard.TextField("workEmail", "Work email", "optional"),
		wizard.TextField("alternatePhone", "Alternate phone", "optional"),
		wizard.TextField("address.street", "Street", "123 Main St"),
		wizard.TextField("address.city", "City", ""),
		wizard.TextField("address.state", "State", ""),
		wizard.TextField("address.zipCode", "ZIP code", ""),
		wizard.TextField("address.country", "Country", "ctrl+n for suggestions", form.Countries...),
		wizard.TextField("socialMedia.linkedin", "LinkedIn", "optional"),
		wizard.TextField("socialMedia.twitter", "Twitter", "optional"),
		wizard.TextField("socialMedia.website", "Website", "optional"),
	)}
}

type contactStep struct{ *fieldStep }

func (s *contactStep) Hints() []string {
	return []string{"tab", "next field", "ctrl+n/p", "suggest", "esc", "back"}
}
