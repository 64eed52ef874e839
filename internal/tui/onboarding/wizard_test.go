package onboarding

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/teacherhub/internal/engine"
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/tui/testfixtures"
	"github.com/mark3labs/teacherhub/internal/tui/wizard"
	"github.com/mark3labs/teacherhub/internal/upload"
)

func newTestModel(t *testing.T, backend engine.Backend) *Model {
	t.Helper()
	if backend == nil {
		backend = testfixtures.NewMockBackend()
	}
	eng := engine.New(backend, engine.Options{SubmitTimeout: time.Second})
	m := New(context.Background(), eng, Options{ResetDelay: time.Millisecond})
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return m
}

// screen returns the visible text of the wizard modal.
func screen(m *Model) string {
	return testfixtures.Plain(m.render())
}

func key(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Text: s}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// gotoStep presses pgdown until the wizard shows id. Untouched fields
// never block advancing.
func gotoStep(t *testing.T, m *Model, id engine.StepID) {
	t.Helper()
	for i := 0; i < 6 && m.eng.Step().ID != id; i++ {
		m.Update(key("pgdown"))
	}
	require.Equal(t, id, m.eng.Step().ID)
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(x * 8), B: uint8(y * 8), A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "me.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestWizard_StartsOnPersonalStep(t *testing.T) {
	m := newTestModel(t, nil)

	assert.IsType(t, &PersonalStep{}, m.step)
	out := testfixtures.Screen(m.render())
	assert.Contains(t, out, "Step 1 of 6 · Personal Info")
	assert.Contains(t, out, "Basic personal details")
}

func TestWizard_FirstNameBlocksNext(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "A")
	assert.Equal(t, "A", m.eng.Document().PersonalInfo.FirstName)
	assert.Contains(t, screen(m), "First name must be at least 2 characters")

	m.Update(key("pgdown"))
	assert.Equal(t, engine.StepPersonal, m.eng.Step().ID)
	assert.Equal(t, "Please fix the highlighted fields to continue.", m.notice)

	typeText(m, "l")
	assert.Empty(t, m.notice)
	m.Update(key("pgdown"))
	assert.Equal(t, engine.StepContact, m.eng.Step().ID)
	assert.True(t, m.eng.Sequence().IsCompleted(0))
}

func TestWizard_ButtonsAfterLastField(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(wizard.TabExitForwardMsg{})
	require.True(t, m.buttonFocused)
	// Back is disabled on the first step.
	assert.Equal(t, wizard.ButtonNext, m.buttonBar.FocusedButton())

	m.Update(key("enter"))
	assert.Equal(t, engine.StepContact, m.eng.Step().ID)
	assert.False(t, m.buttonFocused)

	m.Update(wizard.TabExitForwardMsg{})
	assert.Equal(t, wizard.ButtonBack, m.buttonBar.FocusedButton())
	m.Update(key("enter"))
	assert.Equal(t, engine.StepPersonal, m.eng.Step().ID)
}

func TestWizard_EscGoesBackThenConfirmsQuit(t *testing.T) {
	m := newTestModel(t, nil)
	gotoStep(t, m, engine.StepContact)

	m.Update(key("esc"))
	assert.Equal(t, engine.StepPersonal, m.eng.Step().ID)

	m.Update(key("esc"))
	require.True(t, m.confirmQuit.IsVisible())
	m.Update(key("n"))
	assert.False(t, m.confirmQuit.IsVisible())

	m.Update(key("esc"))
	_, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.cancelled)
}

func TestWizard_EditsSurviveStepChanges(t *testing.T) {
	m := newTestModel(t, nil)
	typeText(m, "Jane")
	gotoStep(t, m, engine.StepContact)
	m.Update(key("esc"))

	ps, ok := m.step.(*PersonalStep)
	require.True(t, ok)
	assert.Equal(t, "Jane", ps.fields.Value("firstName"))
}

func TestWizard_SubmitSucceedsThenResets(t *testing.T) {
	backend := testfixtures.NewMockBackend()
	m := newTestModel(t, backend)
	typeText(m, "Jane")
	gotoStep(t, m, engine.StepReview)

	_, cmd := m.Update(key("ctrl+s"))
	require.NotNil(t, cmd)
	submit := cmd()
	require.IsType(t, SubmitMsg{}, submit)

	_, cmd = m.Update(submit)
	require.NotNil(t, cmd)
	assert.Equal(t, engine.SubmitPending, m.eng.SubmissionState())
	assert.Contains(t, screen(m), "Submitting application...")

	result := cmd()
	require.Equal(t, SubmitResultMsg{}, result)
	_, cmd = m.Update(result)
	require.NotNil(t, cmd, "success schedules a reset")

	assert.Equal(t, engine.SubmitSucceeded, m.eng.SubmissionState())
	assert.Equal(t, 1, m.Submitted())
	require.Len(t, backend.Submitted(), 1)
	assert.Equal(t, "Jane", backend.Last().PersonalInfo.FirstName)
	assert.Contains(t, screen(m), "Application Submitted Successfully!")

	assert.IsType(t, ResetWizardMsg{}, cmd())
	m.Update(ResetWizardMsg{})
	assert.Equal(t, engine.StepPersonal, m.eng.Step().ID)
	assert.Equal(t, engine.SubmitIdle, m.eng.SubmissionState())
	assert.Equal(t, form.New(), m.eng.Document())

	// A second reset from the timer after a manual one is ignored.
	typeText(m, "Bo")
	m.Update(ResetWizardMsg{})
	assert.Equal(t, "Bo", m.eng.Document().PersonalInfo.FirstName)
}

func TestWizard_SubmitFailureCanBeRetried(t *testing.T) {
	backend := testfixtures.NewMockBackend()
	backend.Errors = []error{errors.New("email already registered")}
	m := newTestModel(t, backend)
	gotoStep(t, m, engine.StepReview)

	_, cmd := m.Update(SubmitMsg{})
	_, cmd = m.Update(cmd())
	assert.Nil(t, cmd)
	assert.Equal(t, engine.SubmitFailed, m.eng.SubmissionState())
	out := screen(m)
	assert.Contains(t, out, "✗ email already registered")
	assert.Contains(t, out, "Press y to retry")

	_, cmd = m.Update(key("y"))
	require.NotNil(t, cmd)
	_, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, engine.SubmitSucceeded, m.eng.SubmissionState())
	assert.Equal(t, 2, backend.Calls())
}

func TestWizard_PendingSubmitDisablesButton(t *testing.T) {
	m := newTestModel(t, nil)
	gotoStep(t, m, engine.StepReview)

	m.Update(SubmitMsg{})
	_, cmd := m.Update(SubmitMsg{})
	assert.Nil(t, cmd, "second submit while pending is refused")

	m.Update(wizard.TabExitBackwardMsg{})
	assert.Equal(t, wizard.ButtonBack, m.buttonBar.FocusedButton())
	assert.False(t, m.buttonBar.FocusNext(), "submit button is disabled")
}

func TestWizard_EscWhilePendingStaysOnReview(t *testing.T) {
	m := newTestModel(t, nil)
	gotoStep(t, m, engine.StepReview)

	m.Update(SubmitMsg{})
	require.Equal(t, engine.SubmitPending, m.eng.SubmissionState())
	m.Update(key("esc"))
	assert.Equal(t, engine.StepReview, m.eng.Step().ID)
	assert.False(t, m.confirmQuit.IsVisible())

	m.Update(SubmitResultMsg{})
	assert.Equal(t, engine.SubmitSucceeded, m.eng.SubmissionState())
	assert.True(t, m.eng.Sequence().IsCompleted(m.eng.Sequence().Len()-1))
}

func TestWizard_BioEdit(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(BioEditedMsg{Content: "I have taught piano for ten years.\nAnd guitar."})
	assert.Equal(t, "I have taught piano for ten years.\nAnd guitar.", m.eng.Document().PersonalInfo.Bio)
	assert.Contains(t, screen(m), "I have taught piano for ten years.")
}

func TestWizard_LatePreviewIsReleased(t *testing.T) {
	m := newTestModel(t, nil)
	p, err := upload.Acquire(writePNG(t))
	require.NoError(t, err)

	gotoStep(t, m, engine.StepContact)
	m.Update(ImageSelectedMsg{Preview: p})

	_, err = os.Stat(p.Path)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, m.eng.Document().PersonalInfo.ProfileImage)
}

func TestPersonalStep_PreviewLifecycle(t *testing.T) {
	var edits []FieldChangedMsg
	s := NewPersonalStep(func(msg tea.Msg) error {
		if fc, ok := msg.(FieldChangedMsg); ok {
			edits = append(edits, fc)
		}
		return nil
	})
	src := writePNG(t)

	first, err := upload.Acquire(src)
	require.NoError(t, err)
	s.Update(ImageSelectedMsg{Preview: first})
	assert.Same(t, first, s.Preview())
	require.Len(t, edits, 1)
	assert.Equal(t, FieldChangedMsg{Section: form.SectionPersonal, Path: "profileImage", Value: src}, edits[0])
	assert.Contains(t, testfixtures.Plain(s.View()), "me.png (image/png, 32x32)")

	second, err := upload.Acquire(src)
	require.NoError(t, err)
	s.Update(ImageSelectedMsg{Preview: second})
	_, err = os.Stat(first.Path)
	assert.True(t, os.IsNotExist(err), "replaced preview is released")

	s.Close()
	assert.Nil(t, s.Preview())
	_, err = os.Stat(second.Path)
	assert.True(t, os.IsNotExist(err))

	late, err := upload.Acquire(src)
	require.NoError(t, err)
	s.Update(ImageSelectedMsg{Preview: late})
	_, err = os.Stat(late.Path)
	assert.True(t, os.IsNotExist(err), "preview arriving after close is released")
	assert.Len(t, edits, 2)
}

func TestPersonalStep_ImageError(t *testing.T) {
	s := NewPersonalStep(func(tea.Msg) error { return nil })

	s.Update(ImageSelectedMsg{Err: errors.New("not an image")})
	assert.Nil(t, s.Preview())
	assert.Contains(t, testfixtures.Plain(s.View()), "not an image")
}

func TestWizard_Qualifications(t *testing.T) {
	m := newTestModel(t, nil)
	gotoStep(t, m, engine.StepQualifications)

	m.Update(key("ctrl+a"))
	assert.Empty(t, m.eng.Document().Qualifications)
	assert.Contains(t, screen(m), "Choose a subject and a level and enter a rate above 0")

	m.Update(key("right")) // subject
	m.Update(key("tab"))
	m.Update(key("right")) // level
	m.Update(key("tab"))
	typeText(m, "45")
	m.Update(key("ctrl+a"))

	quals := m.eng.Document().Qualifications
	require.Len(t, quals, 1)
	assert.Equal(t, form.Qualification{
		ID:      quals[0].ID,
		Subject: form.Subjects[0],
		Level:   form.Levels[0],
		Rate:    45,
		Type:    form.ClassPrivate,
	}, quals[0])
	out := screen(m)
	assert.Contains(t, out, "Mathematics · Elementary · $45.00/h · private")
	assert.NotContains(t, out, "Choose a subject")

	qs, ok := m.step.(*QualificationsStep)
	require.True(t, ok)
	assert.Equal(t, "rate", qs.draft.FocusedKey(), "focus stays on the same draft field")
	assert.Empty(t, qs.draft.Value("rate"))

	assert.Equal(t, "Added Mathematics (Elementary)", m.toast.Message())

	m.Update(key("ctrl+d"))
	assert.Empty(t, m.eng.Document().Qualifications)
	assert.Equal(t, "Removed Mathematics (Elementary)", m.toast.Message())
	assert.Contains(t, screen(m), "No qualifications added yet")
}

func TestWizard_AvailabilityToggles(t *testing.T) {
	m := newTestModel(t, nil)
	gotoStep(t, m, engine.StepAvailability)

	as, ok := m.step.(*AvailabilityStep)
	require.True(t, ok)
	assert.Equal(t, "10", as.fields.Value("maxStudentsPerClass"))

	m.Update(key("tab"))
	m.Update(key("tab"))
	m.Update(key("tab")) // Monday available
	require.Equal(t, "timeSlots.Monday.available", as.fields.FocusedKey())
	m.Update(key("space"))

	slot := m.eng.Document().Availability.TimeSlots[0]
	assert.Equal(t, "Monday", slot.Day)
	assert.True(t, slot.Available)
}

func TestSummary(t *testing.T) {
	doc := form.New()
	doc.PersonalInfo.FirstName = "Jane"
	doc.PersonalInfo.LastName = "Doe"
	doc.PersonalInfo.Email = "jane@example.com"
	doc.ContactInfo.Address.City = "Lisbon"
	doc.ContactInfo.Address.Country = "Portugal"
	_, err := doc.AddQualification(form.Qualification{Subject: "Piano", Level: "All Levels", Rate: 30})
	require.NoError(t, err)
	doc.Availability.TimeSlots[0].Available = true
	doc.Availability.TimeSlots[0].StartTime = "09:00"
	doc.Availability.TimeSlots[0].EndTime = "12:00"

	md := Summary(doc)

	assert.Contains(t, md, "## Personal Information")
	assert.Contains(t, md, "**Jane Doe**")
	assert.Contains(t, md, "- **Email:** jane@example.com")
	assert.Contains(t, md, "- **Phone:** -")
	assert.Contains(t, md, "- **Address:** Lisbon, Portugal")
	assert.Contains(t, md, "## Qualifications (1)")
	assert.Contains(t, md, "- Piano · All Levels · $30.00/h · private")
	assert.Contains(t, md, "- **Available:** Monday (09:00 - 12:00)")
	assert.Contains(t, md, "- **Max students per class:** 10")
	assert.NotContains(t, md, "LinkedIn")
}

func TestSummary_Empty(t *testing.T) {
	md := Summary(form.New())

	assert.Contains(t, md, "_None added_")
	assert.Contains(t, md, "**-**")
}
