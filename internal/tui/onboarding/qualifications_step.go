package onboarding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/tui/theme"
	"github.com/mark3labs/teacherhub/internal/tui/wizard"
	"github.com/mark3labs/teacherhub/internal/validation"
)

// QualificationsStep lists the added qualifications and holds a draft
// form for the next one. The draft is local until ctrl+a adds it.
type QualificationsStep struct {
	dispatch dispatchFunc
	draft    *wizard.FieldGroup
	items    []form.Qualification
	selected int
	errs     validation.Ledger
	hint     string
	width    int
	height   int
}

// NewQualificationsStep creates the qualifications step.
func NewQualificationsStep(dispatch dispatchFunc) *QualificationsStep {
	return &QualificationsStep{
		dispatch: dispatch,
		draft:    newDraftGroup(),
		errs:     validation.Ledger{},
	}
}

func newDraftGroup() *wizard.FieldGroup {
	g := wizard.NewFieldGroup(
		wizard.SelectField("subject", "Subject", form.Subjects),
		wizard.SelectField("level", "Level", form.Levels),
		wizard.TextField("rate", "Hourly rate", "45"),
		wizard.SelectField("type", "Class type", form.ClassTypes),
		wizard.TextField("experience", "Years taught", "0"),
		wizard.SelectField("degree", "Degree", form.Degrees),
		wizard.TextField("institution", "Institution", "optional"),
		wizard.TextField("graduationYear", "Graduated", "optional"),
		wizard.TextField("certification", "Certification", "optional"),
	)
	g.SetValue("type", form.ClassPrivate)
	return g
}

func (s *QualificationsStep) Init() tea.Cmd { return nil }

func (s *QualificationsStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.draft.SetWidth(width)
}

func (s *QualificationsStep) Focus() tea.Cmd     { return s.draft.Focus() }
func (s *QualificationsStep) FocusLast() tea.Cmd { return s.draft.FocusLast() }
func (s *QualificationsStep) Blur()              { s.draft.Blur() }

// Sync implements stepView.
func (s *QualificationsStep) Sync(doc *form.Document, errs validation.Ledger) {
	s.items = append(s.items[:0], doc.Qualifications...)
	s.errs = errs
	if s.selected >= len(s.items) {
		s.selected = max(0, len(s.items)-1)
	}
}

// Draft builds a qualification from the draft inputs.
func (s *QualificationsStep) Draft() form.Qualification {
	rate, err := strconv.ParseFloat(strings.TrimSpace(s.draft.Value("rate")), 64)
	if err != nil {
		rate = 0
	}
	exp, _ := strconv.Atoi(strings.TrimSpace(s.draft.Value("experience")))
	return form.Qualification{
		Subject:        s.draft.Value("subject"),
		Level:          s.draft.Value("level"),
		Rate:           rate,
		Type:           s.draft.Value("type"),
		Experience:     exp,
		Degree:         s.draft.Value("degree"),
		Institution:    strings.TrimSpace(s.draft.Value("institution")),
		GraduationYear: strings.TrimSpace(s.draft.Value("graduationYear")),
		Certification:  strings.TrimSpace(s.draft.Value("certification")),
	}
}

// Update handles messages for the qualifications step.
func (s *QualificationsStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "ctrl+a":
			err := s.dispatch(QualificationAddedMsg{Draft: s.Draft()})
			if errors.Is(err, form.ErrInvalidQualification) {
				s.hint = "Choose a subject and a level and enter a rate above 0"
				return nil
			}
			if err != nil {
				s.hint = err.Error()
				return nil
			}
			s.hint = ""
			focused := s.draft.FocusedKey()
			s.draft = newDraftGroup()
			s.draft.SetWidth(s.width)
			s.selected = len(s.items) - 1
			return s.draft.FocusKey(focused)
		case "ctrl+d":
			if len(s.items) == 0 {
				return nil
			}
			_ = s.dispatch(QualificationRemovedMsg{ID: s.items[s.selected].ID})
			return nil
		case "ctrl+j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
			return nil
		case "ctrl+k":
			if s.selected > 0 {
				s.selected--
			}
			return nil
		}
		s.hint = ""
	}
	return s.draft.Update(msg)
}

// View renders the list and the draft form.
func (s *QualificationsStep) View() string {
	st := theme.Current().S()
	var b strings.Builder

	if len(s.items) == 0 {
		b.WriteString(st.Description.Render("  No qualifications added yet"))
		b.WriteString("\n")
	}
	for i, q := range s.items {
		marker := "  "
		line := st.Value.Render(describeQualification(q))
		if i == s.selected {
			marker = st.LabelFocused.Render("▸ ")
		}
		b.WriteString(marker + line + "\n")
	}
	if msg := s.errs.Error("qualifications"); msg != "" {
		b.WriteString("  " + st.FieldError.Render("✗ "+msg) + "\n")
	}

	b.WriteString("\n" + st.Label.Render("  Add a qualification") + "\n")
	b.WriteString(s.draft.View(nil))
	if s.hint != "" {
		b.WriteString("\n  " + st.Warning.Render(s.hint))
	}
	return b.String()
}

func describeQualification(q form.Qualification) string {
	s := fmt.Sprintf("%s · %s · $%.2f/h · %s", q.Subject, q.Level, q.Rate, q.Type)
	if q.Experience > 0 {
		s += fmt.Sprintf(" · %dy", q.Experience)
	}
	if q.Degree != "" {
		s += " · " + q.Degree
	}
	return s
}

// Hints implements stepView.
func (s *QualificationsStep) Hints() []string {
	return []string{"ctrl+a", "add", "ctrl+j/k", "select", "ctrl+d", "delete", "tab", "next field"}
}
