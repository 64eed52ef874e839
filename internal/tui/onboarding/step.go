package onboarding

import (
	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/tui/wizard"
	"github.com/mark3labs/teacherhub/internal/validation"
)

// dispatchFunc applies an edit message to the engine and reports whether
// it was accepted.
type dispatchFunc func(msg tea.Msg) error

// stepView is one section editor. Steps read their section from the
// document passed to Sync and report edits through the dispatch function
// they were built with.
type stepView interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	Focus() tea.Cmd
	FocusLast() tea.Cmd
	Blur()
	Sync(doc *form.Document, errs validation.Ledger)
	Hints() []string
}

// closer is implemented by steps that hold resources while mounted.
type closer interface {
	Close()
}

// fieldStep is a step made of one FieldGroup bound to a section.
type fieldStep struct {
	section form.Section
	fields  *wizard.FieldGroup
	errs    validation.Ledger
	width   int
	height  int
}

func newFieldStep(section form.Section, dispatch dispatchFunc, fields ...*wizard.Field) *fieldStep {
	s := &fieldStep{
		section: section,
		fields:  wizard.NewFieldGroup(fields...),
		errs:    validation.Ledger{},
	}
	s.fields.OnChange = func(key, value string) {
		if err := dispatch(FieldChangedMsg{Section: section, Path: key, Value: value}); err != nil {
			logger.Warn("Edit of %s.%s rejected: %v", section, key, err)
		}
	}
	return s
}

func (s *fieldStep) Init() tea.Cmd { return nil }

func (s *fieldStep) Update(msg tea.Msg) tea.Cmd {
	return s.fields.Update(msg)
}

func (s *fieldStep) View() string {
	return s.fields.View(s.errs)
}

func (s *fieldStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.fields.SetWidth(width)
}

func (s *fieldStep) Focus() tea.Cmd     { return s.fields.Focus() }
func (s *fieldStep) FocusLast() tea.Cmd { return s.fields.FocusLast() }
func (s *fieldStep) Blur()              { s.fields.Blur() }

// Sync copies the section into the inputs. The focused input is left
// alone so normalised values (such as a class size falling back to its
// default) do not fight the user's typing.
func (s *fieldStep) Sync(doc *form.Document, errs validation.Ledger) {
	s.errs = errs
	focused := s.fields.FocusedKey()
	for i := 0; i < s.fields.Len(); i++ {
		f := s.fields.At(i)
		if f.Key == focused {
			continue
		}
		v, err := doc.Value(s.section, f.Key)
		if err != nil {
			continue
		}
		f.SetValue(v)
	}
}

func (s *fieldStep) Hints() []string {
	return []string{"tab", "next field", "←/→", "choose", "esc", "back"}
}
