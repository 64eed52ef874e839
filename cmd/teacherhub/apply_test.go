package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/teacherhub/internal/applications"
	"github.com/mark3labs/teacherhub/internal/engine"
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/tui/testfixtures"
)

const applicationYAML = `personalInfo:
  firstName: Ada
  lastName: Lovelace
  email: ada@example.com
  phone: "+44 (20) 7946-0958"
  dateOfBirth: "1990-06-15"
  gender: female
contactInfo:
  address:
    street: 12 St James's Square
    city: London
    state: Greater London
    zipCode: SW1Y 4JH
    country: United Kingdom
qualifications:
  - subject: Mathematics
    level: College
    rate: 60
availability:
  timezone: Europe/London
  timeSlots:
    - day: Wednesday
      available: true
      startTime: "10:00"
      endTime: "14:00"
  teachingMethods: [Online]
emergencyContact:
  name: Charles Babbage
  relationship: Friend
  phone: "020 7946 0000"
  email: charles@example.com
  address: 1 Dorset Street, London
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDocument(t *testing.T) {
	doc, err := loadDocument(writeFile(t, "app.yml", applicationYAML))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", doc.FullName())
	assert.Equal(t, "London", doc.ContactInfo.Address.City)
	require.Len(t, doc.Qualifications, 1)
	assert.Equal(t, 60.0, doc.Qualifications[0].Rate)
	assert.Equal(t, form.DefaultMaxStudents, doc.Availability.MaxStudentsPerClass, "defaults survive")
	assert.Equal(t, form.ScheduleFullTime, doc.Availability.PreferredSchedule)
}

func TestLoadDocument_Errors(t *testing.T) {
	_, err := loadDocument(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "failed to open application file")

	_, err = loadDocument(writeFile(t, "bad.yml", "personalInfo: [not, a, map]"))
	assert.ErrorContains(t, err, "failed to parse")

	doc, err := loadDocument(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, form.New(), doc)
}

func TestSubmitDocument(t *testing.T) {
	doc, err := loadDocument(writeFile(t, "app.yml", applicationYAML))
	require.NoError(t, err)
	backend := testfixtures.NewMockBackend()
	eng := engine.New(backend, engine.Options{SubmitTimeout: time.Second, StrictSubmit: true})

	var out bytes.Buffer
	require.NoError(t, submitDocument(context.Background(), eng, doc, &out))

	assert.Equal(t, "Application submitted for Ada Lovelace <ada@example.com>.\n", out.String())
	submitted := backend.Last()
	require.NotNil(t, submitted)
	slot := submitted.Slot("Wednesday")
	require.NotNil(t, slot)
	assert.True(t, slot.Available)
	assert.Equal(t, "14:00", slot.EndTime)
	assert.Equal(t, []string{"Online"}, submitted.Availability.TeachingMethods)
	assert.Len(t, submitted.Availability.TimeSlots, 7)
}

func TestSubmitDocument_StopsOnInvalidStep(t *testing.T) {
	doc, err := loadDocument(writeFile(t, "app.yml", applicationYAML))
	require.NoError(t, err)
	doc.PersonalInfo.FirstName = "A"
	backend := testfixtures.NewMockBackend()
	eng := engine.New(backend, engine.Options{})

	err = submitDocument(context.Background(), eng, doc, &bytes.Buffer{})
	assert.ErrorIs(t, err, engine.ErrStepInvalid)
	assert.ErrorContains(t, err, "Personal Info: firstName: First name must be at least 2 characters")
	assert.Zero(t, backend.Calls())
}

func TestSubmitDocument_AdvisoryFindings(t *testing.T) {
	doc, err := loadDocument(writeFile(t, "app.yml", applicationYAML))
	require.NoError(t, err)
	doc.ContactInfo.Address.City = ""
	eng := engine.New(testfixtures.NewMockBackend(), engine.Options{})

	var out bytes.Buffer
	require.NoError(t, submitDocument(context.Background(), eng, doc, &out))
	assert.Contains(t, out.String(), "warning: contactInfo.address.city:")
	assert.Contains(t, out.String(), "Application submitted")
}

func TestSubmitDocument_StrictRefusesIncomplete(t *testing.T) {
	doc, err := loadDocument(writeFile(t, "app.yml", applicationYAML))
	require.NoError(t, err)
	doc.ContactInfo.Address.City = ""
	backend := testfixtures.NewMockBackend()
	eng := engine.New(backend, engine.Options{StrictSubmit: true})

	err = submitDocument(context.Background(), eng, doc, &bytes.Buffer{})
	assert.EqualError(t, err, "submission failed: Please complete all required fields before submitting.")
	assert.Zero(t, backend.Calls())
}

func TestSubmitDocument_BackendRejection(t *testing.T) {
	doc, err := loadDocument(writeFile(t, "app.yml", applicationYAML))
	require.NoError(t, err)
	backend := testfixtures.NewMockBackend()
	backend.Errors = []error{&applications.DuplicateError{Email: "ada@example.com"}}
	eng := engine.New(backend, engine.Options{})

	err = submitDocument(context.Background(), eng, doc, &bytes.Buffer{})
	assert.EqualError(t, err, "submission failed: An application for ada@example.com already exists")
}

func TestPrintApplications(t *testing.T) {
	var out bytes.Buffer
	printApplications(&out, nil)
	assert.Equal(t, "No applications found.\n", out.String())

	out.Reset()
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	printApplications(&out, []*applications.Application{{
		ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
		Name:        testfixtures.FixedName,
		Email:       testfixtures.FixedEmail,
		Status:      applications.StatusPending,
		SubmittedAt: at,
	}})
	text := testfixtures.Plain(out.String())
	assert.Contains(t, text, "0f8fad5b")
	assert.NotContains(t, text, "0f8fad5b-")
	assert.Contains(t, text, "Ada Lovelace")
	assert.Contains(t, text, "pending")
	assert.Contains(t, text, "2025-03-01 09:30")
}

func TestPrintApplication(t *testing.T) {
	doc := testfixtures.CompleteDocument()
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	var out bytes.Buffer
	printApplication(&out, &applications.Application{
		ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
		Status:      applications.StatusRejected,
		Note:        "no openings",
		SubmittedAt: at,
		UpdatedAt:   at.Add(time.Hour),
		Document:    *doc,
	})

	text := testfixtures.Plain(out.String())
	assert.Contains(t, text, "Application 0f8fad5b-d9cb-469f-a165-70867728950e")
	assert.Contains(t, text, "Status:    rejected")
	assert.Contains(t, text, "Updated:   2025-03-01 10:30")
	assert.Contains(t, text, "Note:      no openings")
	assert.Contains(t, text, "Personal Information")
}
