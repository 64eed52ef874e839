package testfixtures

import (
	"time"

	"github.com/mark3labs/teacherhub/internal/form"
)

// Fixed test values for consistent rendering
const (
	FixedEmail = "ada@example.com"
	FixedName  = "Ada Lovelace"
)

var (
	// FixedTime is the last day of a year, where every reading of the
	// age rule agrees.
	FixedTime = time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC)
)

// Now returns FixedTime. Pass it as an engine clock.
func Now() time.Time { return FixedTime }

// EmptyDocument returns a fresh document with defaults applied.
func EmptyDocument() *form.Document {
	return form.New()
}

// CompleteDocument returns a document that passes every field rule and
// the whole-document schema.
func CompleteDocument() *form.Document {
	doc := form.New()
	doc.PersonalInfo = form.PersonalInfo{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       FixedEmail,
		Phone:       "+44 (20) 7946-0958",
		DateOfBirth: "1990-06-15",
		Gender:      "female",
		Bio:         "Mathematician with a taste for engines.",
	}
	doc.ContactInfo.Address = form.Address{
		Street:  "12 St James's Square",
		City:    "London",
		State:   "Greater London",
		ZipCode: "SW1Y 4JH",
		Country: "United Kingdom",
	}
	doc.Availability.Timezone = "Europe/London"
	doc.Availability.PreferredSchedule = form.SchedulePartTime
	doc.Availability.TimeSlots[0] = form.TimeSlot{Day: "Monday", StartTime: "09:00", EndTime: "12:00", Available: true}
	doc.Availability.TeachingMethods = []string{form.TeachingMethods[0]}
	doc.EmergencyContact = form.EmergencyContact{
		Name:         "Charles Babbage",
		Relationship: "Friend",
		Phone:        "020 7946 0000",
		Email:        "charles@example.com",
		Address:      "1 Dorset Street, London",
	}
	if _, err := doc.AddQualification(form.Qualification{
		Subject:    "Mathematics",
		Level:      "College",
		Rate:       60,
		Experience: 5,
	}); err != nil {
		panic(err)
	}
	return doc
}
