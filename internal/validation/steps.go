package validation

import (
	"sort"
	"time"

	"github.com/mark3labs/teacherhub/internal/form"
)

// Rules builds the field validators for each section.
type Rules struct {
	now func() time.Time
}

// NewRules returns rules whose age check uses now. A nil now uses time.Now.
func NewRules(now func() time.Time) *Rules {
	if now == nil {
		now = time.Now
	}
	return &Rules{now: now}
}

// ForSection returns the field validators for section keyed by field path.
// Sections without per-field checks return an empty set.
func (r *Rules) ForSection(section form.Section) map[string]Validator {
	switch section {
	case form.SectionPersonal:
		return map[string]Validator{
			"firstName": Chain(
				Required("First name is required"),
				MinLength(2, "First name must be at least 2 characters"),
			),
			"lastName": Chain(
				Required("Last name is required"),
				MinLength(2, "Last name must be at least 2 characters"),
			),
			"email": Chain(
				Required("Email is required"),
				Email("Please enter a valid email address"),
			),
			"phone": Chain(
				Required("Phone number is required"),
				Phone("Please enter a valid phone number"),
			),
			"dateOfBirth": Chain(
				Required("Date of birth is required"),
				Age(r.now),
			),
			"gender": OneOf(form.Genders, "Please select a gender"),
		}
	case form.SectionContact:
		return map[string]Validator{
			"workEmail": Optional(Email("Please enter a valid work email address")),
		}
	case form.SectionEmergency:
		return map[string]Validator{
			"name":         Required("Emergency contact name is required"),
			"relationship": Required("Relationship is required"),
			"phone": Chain(
				Required("Emergency contact phone is required"),
				Phone("Please enter a valid phone number"),
			),
			"email": Chain(
				Required("Emergency contact email is required"),
				Email("Please enter a valid email address"),
			),
			"address": Required("Emergency contact address is required"),
		}
	}
	return map[string]Validator{}
}

// Fields returns the validated field paths of section, sorted.
func (r *Rules) Fields(section form.Section) []string {
	validators := r.ForSection(section)
	out := make([]string, 0, len(validators))
	for f := range validators {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Check runs the validator for field, if any. ok is false when the field
// has no validator.
func (r *Rules) Check(section form.Section, field, value string) (msg string, ok bool) {
	v, ok := r.ForSection(section)[field]
	if !ok {
		return "", false
	}
	return v(value), true
}

// CheckSection validates every validated field of section as it currently
// stands in doc.
func (r *Rules) CheckSection(section form.Section, doc *form.Document) Ledger {
	out := Ledger{}
	values := sectionValues(section, doc)
	for field, v := range r.ForSection(section) {
		out.Set(field, v(values[field]))
	}
	return out
}

func sectionValues(section form.Section, doc *form.Document) map[string]string {
	switch section {
	case form.SectionPersonal:
		p := doc.PersonalInfo
		return map[string]string{
			"firstName":   p.FirstName,
			"lastName":    p.LastName,
			"email":       p.Email,
			"phone":       p.Phone,
			"dateOfBirth": p.DateOfBirth,
			"gender":      p.Gender,
		}
	case form.SectionContact:
		return map[string]string{"workEmail": doc.ContactInfo.WorkEmail}
	case form.SectionEmergency:
		e := doc.EmergencyContact
		return map[string]string{
			"name":         e.Name,
			"relationship": e.Relationship,
			"phone":        e.Phone,
			"email":        e.Email,
			"address":      e.Address,
		}
	}
	return nil
}
