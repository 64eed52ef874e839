package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/teacherhub/internal/form"
)

// newYearsEve pins the clock to the last day of the year.
func newYearsEve() time.Time {
	return time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC)
}

func completeDocument(t *testing.T) *form.Document {
	t.Helper()
	doc := form.New()
	doc.PersonalInfo = form.PersonalInfo{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Phone:       "+44 (20) 7946-0958",
		DateOfBirth: "1990-06-15",
		Gender:      "female",
	}
	doc.ContactInfo.Address = form.Address{
		Street:  "12 St James's Square",
		City:    "London",
		State:   "Greater London",
		ZipCode: "SW1Y 4JH",
		Country: "United Kingdom",
	}
	doc.Availability.Timezone = "Europe/London"
	doc.EmergencyContact = form.EmergencyContact{
		Name:         "Charles Babbage",
		Relationship: "Friend",
		Phone:        "020 7946 0000",
		Email:        "charles@example.com",
		Address:      "1 Dorset Street, London",
	}
	_, err := doc.AddQualification(form.Qualification{Subject: "Mathematics", Level: "College", Rate: 60})
	require.NoError(t, err)
	return doc
}

func TestAge_Boundaries(t *testing.T) {
	age := Age(newYearsEve)

	tests := []struct {
		name string
		dob  string
		want string
	}{
		{name: "exactly 18 years", dob: "2007-12-31", want: ""},
		{name: "17 years 364 days", dob: "2008-01-01", want: "Teacher must be at least 18 years old"},
		{name: "exactly 100 years", dob: "1925-12-31", want: ""},
		{name: "101 years", dob: "1924-12-31", want: "Please enter a valid date of birth"},
		{name: "not a date", dob: "31/12/2000", want: "Please enter a valid date of birth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, age(tt.dob))
		})
	}
}

func TestAge_IgnoresMonthAndDay(t *testing.T) {
	jan := func() time.Time { return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) }
	// Seventeen by elapsed days, eighteen by calendar year.
	assert.Equal(t, "", Age(jan)("2007-12-31"))
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		v     Validator
		value string
		want  string
	}{
		{"required blank", Required("req"), "   ", "req"},
		{"required ok", Required("req"), "x", ""},
		{"min length short", MinLength(2, "short"), "A", "short"},
		{"min length counts runes", MinLength(2, "short"), "Żo", ""},
		{"email ok", Email("bad"), "a@b.co", ""},
		{"email missing tld", Email("bad"), "a@b", "bad"},
		{"email with space", Email("bad"), "a b@c.de", "bad"},
		{"phone ok", Phone("bad"), "+1 (555) 010-9999", ""},
		{"phone letters", Phone("bad"), "555-CALL", "bad"},
		{"phone plus in middle", Phone("bad"), "55+5", "bad"},
		{"one of empty", OneOf(form.Genders, "pick"), "", "pick"},
		{"one of member", OneOf(form.Genders, "pick"), "other", ""},
		{"optional empty", Optional(Email("bad")), "", ""},
		{"optional invalid", Optional(Email("bad")), "nope", "bad"},
		{"chain first wins", Chain(Required("req"), Email("bad")), "", "req"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v(tt.value))
		})
	}
}

func TestRules_ForSection(t *testing.T) {
	rules := NewRules(newYearsEve)

	assert.Equal(t, []string{"dateOfBirth", "email", "firstName", "gender", "lastName", "phone"}, rules.Fields(form.SectionPersonal))
	assert.Equal(t, []string{"workEmail"}, rules.Fields(form.SectionContact))
	assert.Empty(t, rules.Fields(form.SectionQualifications))
	assert.Empty(t, rules.Fields(form.SectionAvailability))
	assert.Equal(t, []string{"address", "email", "name", "phone", "relationship"}, rules.Fields(form.SectionEmergency))

	msg, ok := rules.Check(form.SectionPersonal, "firstName", "A")
	assert.True(t, ok)
	assert.Equal(t, "First name must be at least 2 characters", msg)

	msg, ok = rules.Check(form.SectionContact, "workEmail", "")
	assert.True(t, ok)
	assert.Empty(t, msg)

	_, ok = rules.Check(form.SectionPersonal, "bio", "anything")
	assert.False(t, ok)
}

func TestRules_CheckSection(t *testing.T) {
	rules := NewRules(newYearsEve)
	doc := form.New()

	got := rules.CheckSection(form.SectionEmergency, doc)
	assert.Equal(t, Ledger{
		"name":         "Emergency contact name is required",
		"relationship": "Relationship is required",
		"phone":        "Emergency contact phone is required",
		"email":        "Emergency contact email is required",
		"address":      "Emergency contact address is required",
	}, got)

	assert.Empty(t, rules.CheckSection(form.SectionPersonal, completeDocument(t)))
}

func TestLedger(t *testing.T) {
	l := Ledger{}
	l.Set("firstName", "First name is required")
	l.Set("firstName", "First name must be at least 2 characters")
	assert.Equal(t, "First name must be at least 2 characters", l.Error("firstName"), "entries are replaced")

	l.Set("email", "Email is required")
	assert.True(t, l.Any())
	assert.True(t, l.HasErrors("email", "phone"))
	assert.False(t, l.HasErrors())
	assert.False(t, l.HasErrors("phone"))
	assert.Equal(t, []string{"email", "firstName"}, l.Fields())

	l.Set("email", "")
	assert.False(t, l.HasErrors("email"))

	cp := l.Copy()
	l.Clear()
	assert.False(t, l.Any())
	assert.True(t, cp.HasErrors("firstName"))
}

func TestSchema_Complete(t *testing.T) {
	schema := NewSchema(newYearsEve)
	assert.Empty(t, schema.Check(completeDocument(t)))
}

func TestSchema_Findings(t *testing.T) {
	schema := NewSchema(newYearsEve)
	doc := completeDocument(t)
	doc.ContactInfo.Address.City = ""
	doc.PersonalInfo.Phone = "call me"
	doc.PersonalInfo.DateOfBirth = "2010-01-01"
	doc.Qualifications[0].Rate = 0

	got := schema.Check(doc)

	assert.Equal(t, "city is a required field", got.Error("contactInfo.address.city"))
	assert.Equal(t, "phone must be a valid phone number", got.Error("personalInfo.phone"))
	assert.Equal(t, "Teacher must be at least 18 years old", got.Error("personalInfo.dateOfBirth"))
	assert.NotEmpty(t, got.Error("qualifications[0].rate"))
	assert.Len(t, got, 4)
}

func TestCrossField_Availability(t *testing.T) {
	doc := form.New()
	require.NoError(t, doc.SetTimeSlot("Monday", "available", "true"))
	require.NoError(t, doc.SetTimeSlot("Monday", "startTime", "17:00"))
	require.NoError(t, doc.SetTimeSlot("Monday", "endTime", "09:00"))
	require.NoError(t, doc.SetTimeSlot("Tuesday", "available", "true"))
	require.NoError(t, doc.SetTimeSlot("Wednesday", "startTime", "17:00"))
	require.NoError(t, doc.SetTimeSlot("Thursday", "available", "true"))
	require.NoError(t, doc.SetTimeSlot("Thursday", "startTime", "09:00"))
	require.NoError(t, doc.SetTimeSlot("Thursday", "endTime", "12:30"))

	got := CrossField(form.SectionAvailability, doc)

	assert.Equal(t, Ledger{
		"timeSlots.Monday":  "Monday start time must be before end time",
		"timeSlots.Tuesday": "Tuesday needs a start and end time",
	}, got)
}

func TestCrossField_DuplicateQualifications(t *testing.T) {
	doc := form.New()
	q := form.Qualification{Subject: "Piano", Level: "College", Rate: 40}
	_, err := doc.AddQualification(q)
	require.NoError(t, err)
	assert.Empty(t, CrossField(form.SectionQualifications, doc))

	_, err = doc.AddQualification(q)
	require.NoError(t, err)
	got := CrossField(form.SectionQualifications, doc)
	assert.Equal(t, "Duplicate qualification: Piano (College, private)", got.Error("qualifications"))

	assert.Empty(t, CrossField(form.SectionPersonal, doc))
}
