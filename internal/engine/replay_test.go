package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/teacherhub/internal/tui/testfixtures"
)

func TestReplay_CompleteDocument(t *testing.T) {
	backend := testfixtures.NewMockBackend()
	e := New(backend, Options{StrictSubmit: true, CrossFieldChecks: true})
	src := testfixtures.CompleteDocument()

	require.NoError(t, e.Replay(src))
	assert.Equal(t, StepReview, e.Step().ID)
	for i := 0; i < 5; i++ {
		assert.True(t, e.Sequence().IsCompleted(i))
	}

	doc := e.Document()
	assert.Equal(t, src.PersonalInfo, doc.PersonalInfo)
	assert.Equal(t, src.ContactInfo, doc.ContactInfo)
	assert.Equal(t, src.Availability, doc.Availability)
	assert.Equal(t, src.EmergencyContact, doc.EmergencyContact)
	require.Len(t, doc.Qualifications, 1)
	assert.Equal(t, "Mathematics", doc.Qualifications[0].Subject)
	assert.NotEqual(t, src.Qualifications[0].ID, doc.Qualifications[0].ID, "ids are reassigned")

	require.NoError(t, e.Submit(context.Background()))
	assert.Equal(t, 1, backend.Calls())
}

func TestReplay_StopsAtInvalidStep(t *testing.T) {
	e := New(okBackend(), Options{})
	src := testfixtures.CompleteDocument()
	src.EmergencyContact.Email = "not-an-email"

	err := e.Replay(src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStepInvalid)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepEmergency, stepErr.Step.ID)
	assert.NotEmpty(t, stepErr.Errors.Error("email"))
	assert.Contains(t, err.Error(), "Emergency Contact: email: ")
	assert.Equal(t, StepEmergency, e.Step().ID)
}

func TestReplay_RejectsBadQualification(t *testing.T) {
	e := New(okBackend(), Options{})
	src := testfixtures.CompleteDocument()
	src.Qualifications[0].Rate = 0

	err := e.Replay(src)
	assert.ErrorContains(t, err, "Qualifications: qualification \"Mathematics\"")
	assert.Equal(t, StepQualifications, e.Step().ID)
}
