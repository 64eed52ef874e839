// Package onboarding is the terminal front end of the teacher application
// wizard. The engine owns all wizard state; this package only draws it and
// turns key presses into engine calls.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/teacherhub/internal/engine"
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/tui/theme"
	"github.com/mark3labs/teacherhub/internal/tui/wizard"
)

// Modal layout constants
const (
	modalWidth        = 78
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2)
)

// DefaultResetDelay is how long the success screen stays up.
const DefaultResetDelay = 3 * time.Second

// Options configure the wizard front end.
type Options struct {
	// Title is shown above the step indicator.
	Title string
	// ResetDelay is how long the success screen stays before the wizard
	// starts over. Zero uses DefaultResetDelay.
	ResetDelay time.Duration
	// StrictSubmit only changes wording; the engine enforces it.
	StrictSubmit bool
}

// Model is the bubbletea model for the application wizard.
type Model struct {
	eng  *engine.Engine
	ctx  context.Context
	opts Options

	width  int
	height int

	step      stepView
	stepIndex int

	buttonBar     *wizard.ButtonBar
	buttonFocused bool

	confirmQuit *ConfirmationModal
	toast       *Toast
	pending     []tea.Cmd // commands queued by synchronous edits
	notice      string
	cancelled   bool
	submitted   int
	lastName    string // full name of the last successful applicant
}

// New creates the wizard model around eng.
func New(ctx context.Context, eng *engine.Engine, opts Options) *Model {
	if opts.Title == "" {
		opts.Title = "TeacherHub · Teacher Application"
	}
	if opts.ResetDelay == 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	m := &Model{
		eng:         eng,
		ctx:         ctx,
		opts:        opts,
		confirmQuit: NewConfirmationModal("Leave application?", "Everything you entered will be lost."),
		toast:       NewToast(DefaultToastDuration),
	}
	m.mountStep()
	return m
}

// Run starts a standalone program for the wizard. It returns the number
// of applications submitted during the session.
func Run(ctx context.Context, eng *engine.Engine, opts Options) (int, error) {
	m := New(ctx, eng, opts)
	defer m.closeStep()

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return m.submitted, fmt.Errorf("wizard failed: %w", err)
	}
	wiz, ok := finalModel.(*Model)
	if !ok {
		return m.submitted, fmt.Errorf("unexpected model type")
	}
	if wiz.cancelled && wiz.submitted == 0 {
		return 0, fmt.Errorf("wizard cancelled by user")
	}
	return wiz.submitted, nil
}

// Submitted returns the number of successful submissions.
func (m *Model) Submitted() int { return m.submitted }

// Init initializes the wizard model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.step.Init(), m.step.Focus())
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.update(msg)
	if len(m.pending) > 0 {
		cmd = tea.Batch(append(m.pending, cmd)...)
		m.pending = nil
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ToastDismissMsg:
		m.toast.Update(msg)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeStep()
		return m, nil

	case FieldChangedMsg, QualificationAddedMsg, QualificationRemovedMsg:
		if err := m.apply(msg); err != nil {
			logger.Warn("Edit rejected: %v", err)
		}
		return m, nil

	case BioEditedMsg:
		if err := m.apply(FieldChangedMsg{Section: form.SectionPersonal, Path: "bio", Value: msg.Content}); err != nil {
			logger.Warn("Bio edit rejected: %v", err)
		}
		return m, m.forward(msg)

	case ImageSelectedMsg:
		if _, ok := m.step.(*PersonalStep); !ok {
			_ = msg.Preview.Release()
			return m, nil
		}
		return m, m.forward(msg)

	case wizard.TabExitForwardMsg:
		m.focusButtons(true)
		return m, nil

	case wizard.TabExitBackwardMsg:
		m.focusButtons(false)
		return m, nil

	case NextStepMsg:
		return m, m.next()

	case PrevStepMsg:
		return m, m.prev()

	case SubmitMsg:
		return m, m.submit()

	case SubmitResultMsg:
		m.eng.FinishSubmit(msg.Err)
		m.syncStep()
		if m.eng.SubmissionState() == engine.SubmitSucceeded {
			m.submitted++
			m.lastName = m.eng.Document().FullName()
			m.closeStep()
			return m, tea.Tick(m.opts.ResetDelay, func(time.Time) tea.Msg {
				return ResetWizardMsg{}
			})
		}
		return m, nil

	case ResetWizardMsg:
		if m.eng.SubmissionState() != engine.SubmitSucceeded {
			return m, nil
		}
		logger.Debug("Resetting wizard after submission")
		m.eng.Reset()
		m.notice = ""
		m.mountStep()
		return m, tea.Batch(m.step.Init(), m.step.Focus())
	}

	return m, m.forward(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.confirmQuit.IsVisible() {
		switch msg.String() {
		case "y", "Y":
			m.cancelled = true
			m.closeStep()
			return m, tea.Quit
		case "n", "N", "esc":
			m.confirmQuit.Hide()
		}
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		m.cancelled = true
		m.closeStep()
		return m, tea.Quit
	}

	if m.eng.SubmissionState() == engine.SubmitSucceeded {
		if msg.String() == "enter" {
			return m, func() tea.Msg { return ResetWizardMsg{} }
		}
		return m, nil
	}

	if m.buttonFocused {
		switch msg.String() {
		case "tab", "right":
			if !m.buttonBar.FocusNext() {
				m.buttonFocused = false
				m.buttonBar.Blur()
				return m, m.step.Focus()
			}
			return m, nil
		case "shift+tab", "left":
			if !m.buttonBar.FocusPrev() {
				m.buttonFocused = false
				m.buttonBar.Blur()
				return m, m.step.FocusLast()
			}
			return m, nil
		case "enter", "space", " ":
			return m, m.activateButton(m.buttonBar.FocusedButton())
		}
	}

	switch msg.String() {
	case "esc":
		if m.eng.Sequence().IsFirst() {
			m.confirmQuit.Show()
			return m, nil
		}
		return m, m.prev()
	case "pgdown":
		if !m.eng.Sequence().IsLast() {
			return m, m.next()
		}
	case "pgup":
		if !m.eng.Sequence().IsLast() && !m.eng.Sequence().IsFirst() {
			return m, m.prev()
		}
	}

	if m.buttonFocused {
		return m, nil
	}
	return m, m.forward(msg)
}

// forward passes msg to the current step and refreshes it from the engine.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	if m.step == nil {
		return nil
	}
	cmd := m.step.Update(msg)
	m.syncStep()
	return cmd
}

// apply performs an edit on the engine. Steps call it synchronously
// through their dispatch function.
func (m *Model) apply(msg tea.Msg) error {
	var err error
	switch msg := msg.(type) {
	case FieldChangedMsg:
		err = m.eng.SetField(msg.Section, msg.Path, msg.Value)
	case QualificationAddedMsg:
		var q form.Qualification
		if q, err = m.eng.AddQualification(msg.Draft); err == nil {
			m.pending = append(m.pending, m.toast.Show(fmt.Sprintf("Added %s (%s)", q.Subject, q.Level)))
		}
	case QualificationRemovedMsg:
		if q, ok := m.qualification(msg.ID); ok && m.eng.RemoveQualification(msg.ID) {
			m.pending = append(m.pending, m.toast.Show(fmt.Sprintf("Removed %s (%s)", q.Subject, q.Level)))
		}
	}
	if err == nil {
		m.notice = ""
	}
	m.syncStep()
	return err
}

func (m *Model) qualification(id string) (form.Qualification, bool) {
	for _, q := range m.eng.Document().Qualifications {
		if q.ID == id {
			return q, true
		}
	}
	return form.Qualification{}, false
}

func (m *Model) next() tea.Cmd {
	if m.eng.Sequence().IsLast() {
		return m.submit()
	}
	if err := m.eng.Next(); err != nil {
		if errors.Is(err, engine.ErrStepInvalid) {
			m.notice = "Please fix the highlighted fields to continue."
		}
		m.syncStep()
		return nil
	}
	m.notice = ""
	m.mountStep()
	return tea.Batch(m.step.Init(), m.step.Focus())
}

func (m *Model) prev() tea.Cmd {
	if err := m.eng.Previous(); err != nil {
		return nil
	}
	m.notice = ""
	m.mountStep()
	return tea.Batch(m.step.Init(), m.step.Focus())
}

// submit begins a submission on the event loop and runs the backend call
// in a command against a snapshot of the document.
func (m *Model) submit() tea.Cmd {
	snapshot, err := m.eng.BeginSubmit()
	m.syncStep()
	if err != nil {
		logger.Debug("Submit refused: %v", err)
		return nil
	}
	eng, ctx := m.eng, m.ctx
	return func() tea.Msg {
		return SubmitResultMsg{Err: eng.ExecuteSubmit(ctx, snapshot)}
	}
}

func (m *Model) activateButton(id wizard.ButtonID) tea.Cmd {
	switch id {
	case wizard.ButtonBack:
		return m.prev()
	case wizard.ButtonNext:
		return m.next()
	}
	return nil
}

func (m *Model) focusButtons(forward bool) {
	m.buttonFocused = true
	m.step.Blur()
	m.updateButtons()
	var ok bool
	if forward {
		ok = m.buttonBar.FocusFirst()
	} else {
		ok = m.buttonBar.FocusLast()
	}
	if !ok {
		m.buttonFocused = false
	}
}

// mountStep replaces the step component with one for the engine's
// current step.
func (m *Model) mountStep() {
	m.closeStep()
	dispatch := m.apply
	m.stepIndex = m.eng.Sequence().Index()
	switch m.eng.Step().ID {
	case engine.StepPersonal:
		m.step = NewPersonalStep(dispatch)
	case engine.StepContact:
		m.step = NewContactStep(dispatch)
	case engine.StepQualifications:
		m.step = NewQualificationsStep(dispatch)
	case engine.StepAvailability:
		m.step = NewAvailabilityStep(dispatch)
	case engine.StepEmergency:
		m.step = NewEmergencyStep(dispatch)
	default:
		m.step = NewReviewStep(m.opts.StrictSubmit)
	}
	m.buttonFocused = false
	m.buttonBar = wizard.NewButtonBar(nil)
	m.syncStep()
	m.resizeStep()
}

// closeStep releases resources held by the mounted step.
func (m *Model) closeStep() {
	if c, ok := m.step.(closer); ok {
		c.Close()
	}
}

func (m *Model) syncStep() {
	if m.step == nil {
		return
	}
	m.step.Sync(m.eng.Document(), m.eng.Ledger())
	if r, ok := m.step.(*ReviewStep); ok {
		r.SetStatus(m.eng.Findings(), m.eng.SubmissionState(), m.eng.SubmissionMessage())
	}
	m.updateButtons()
}

func (m *Model) updateButtons() {
	seq := m.eng.Sequence()
	label := "Next →"
	nextEnabled := m.eng.CanAdvance()
	if seq.IsLast() {
		label = "Submit"
		state := m.eng.SubmissionState()
		nextEnabled = state == engine.SubmitIdle || state == engine.SubmitFailed
		if state == engine.SubmitPending {
			label = "Submitting..."
		}
	}

	focused := m.buttonBar != nil && m.buttonBar.IsFocused()
	current := wizard.ButtonNone
	if focused {
		current = m.buttonBar.FocusedButton()
	}
	m.buttonBar = wizard.NewButtonBar(wizard.CreateBackNextButtons(!seq.IsFirst(), nextEnabled, label))
	m.buttonBar.SetWidth(modalContentWidth)
	if focused {
		if current == wizard.ButtonBack || !m.buttonBar.FocusLast() {
			m.buttonBar.FocusFirst()
		}
		if !m.buttonBar.IsFocused() {
			m.buttonFocused = false
		}
	}
}

func (m *Model) contentSize() (width, height int) {
	height = m.height - 14
	if height < 10 {
		height = 10
	}
	if height > 40 {
		height = 40
	}
	return modalContentWidth, height
}

func (m *Model) resizeStep() {
	if m.step == nil {
		return
	}
	w, h := m.contentSize()
	m.step.SetSize(w, h)
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := m.render()
	centered := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	if toast := m.toast.View(m.width); toast != "" {
		uv.NewStyledString(toast).Draw(canvas, uv.Rectangle{
			Min: uv.Position{X: 0, Y: m.height - 2},
			Max: uv.Position{X: m.width, Y: m.height - 1},
		})
	}

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render builds the modal content without placing it on screen.
func (m *Model) render() string {
	t := theme.Current()
	st := t.S()

	if m.confirmQuit.IsVisible() {
		return m.confirmQuit.Render()
	}

	modalStyle := st.Modal.Width(modalWidth).Padding(modalPadding-1, modalPadding)

	if m.eng.SubmissionState() == engine.SubmitSucceeded {
		return modalStyle.BorderForeground(lipgloss.Color(t.Success)).Render(renderSuccess(m.lastName))
	}

	step := m.eng.Step()
	seq := m.eng.Sequence()
	header := lipgloss.JoinVertical(lipgloss.Left,
		st.HeaderTitle.Render(m.opts.Title),
		m.renderProgress(),
		"",
		st.HeaderTitle.Render(fmt.Sprintf("Step %d of %d · %s", seq.Index()+1, seq.Len(), step.Title)),
		st.Description.Render(step.Description),
	)

	parts := []string{header, "", m.step.View()}
	if m.notice != "" {
		parts = append(parts, "", st.Warning.Render(m.notice))
	}
	parts = append(parts, "", m.buttonBar.Render(), "", wizard.RenderHintBar(m.step.Hints()...))

	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderProgress draws one marker per step, colouring completed steps
// along a gradient.
func (m *Model) renderProgress() string {
	t := theme.Current()
	st := t.S()
	steps := m.eng.Sequence().Steps()
	markers := make([]string, 0, len(steps))
	for i, s := range steps {
		switch {
		case i == m.eng.Sequence().Index():
			markers = append(markers, st.StepCurrent.Render("● "+s.Title))
		case s.Completed:
			pos := float64(i) / float64(max(1, len(steps)-1))
			c := theme.InterpolateColor(t.Primary, t.Success, pos)
			markers = append(markers, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("✓"))
		default:
			markers = append(markers, st.StepPending.Render("○"))
		}
	}
	return strings.Join(markers, " ")
}
