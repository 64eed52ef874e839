package onboarding

import (
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"

	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/tui/theme"
	"github.com/mark3labs/teacherhub/internal/tui/wizard"
	"github.com/mark3labs/teacherhub/internal/upload"
	"github.com/mark3labs/teacherhub/internal/validation"
)

const keyProfileImage = "profileImage"

// PersonalStep edits personalInfo. It owns the profile image preview
// while mounted and releases it on Close.
type PersonalStep struct {
	*fieldStep
	dispatch dispatchFunc

	bio      string
	preview  *upload.Preview
	imageErr string
	closed   bool
	tmpFile  string
}

// NewPersonalStep creates the personal information step.
func NewPersonalStep(dispatch dispatchFunc) *PersonalStep {
	return &PersonalStep{
		fieldStep: newFieldStep(form.SectionPersonal, dispatch,
			wizard.TextField("firstName", "First name", "Jane"),
			wizard.TextField("lastName", "Last name", "Doe"),
			wizard.TextField("email", "Email", "jane@example.com"),
			wizard.TextField("phone", "Phone", "+1 555 123 4567"),
			wizard.TextField("dateOfBirth", "Date of birth", "YYYY-MM-DD"),
			wizard.SelectField("gender", "Gender", form.Genders),
			wizard.TextField(keyProfileImage, "Profile image", "path to a photo, enter to load"),
		),
		dispatch: dispatch,
	}
}

// Init reloads the preview of an image chosen before the step was left.
func (s *PersonalStep) Init() tea.Cmd {
	if ref := s.fields.Value(keyProfileImage); ref != "" {
		return acquirePreview(ref)
	}
	return nil
}

// Sync implements stepView.
func (s *PersonalStep) Sync(doc *form.Document, errs validation.Ledger) {
	s.fieldStep.Sync(doc, errs)
	s.bio = doc.PersonalInfo.Bio
}

// Update handles messages for the personal step.
func (s *PersonalStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+e":
			return s.openEditor()
		case "enter":
			if s.fields.FocusedKey() == keyProfileImage {
				ref := strings.TrimSpace(s.fields.Value(keyProfileImage))
				if ref == "" {
					s.setPreview(nil)
					return nil
				}
				return acquirePreview(ref)
			}
		}

	case ImageSelectedMsg:
		if s.closed {
			_ = msg.Preview.Release()
			return nil
		}
		if msg.Err != nil {
			s.imageErr = msg.Err.Error()
			return nil
		}
		s.imageErr = ""
		s.setPreview(msg.Preview)
		if err := s.dispatch(FieldChangedMsg{Section: form.SectionPersonal, Path: keyProfileImage, Value: msg.Preview.Ref}); err != nil {
			logger.Warn("Storing profile image failed: %v", err)
		}
		return nil

	case BioEditedMsg:
		s.cleanupTmp()
		return nil
	}

	cmd := s.fieldStep.Update(msg)
	if s.fields.Value(keyProfileImage) == "" && s.preview != nil {
		s.setPreview(nil)
	}
	return cmd
}

// setPreview replaces the held preview, releasing the old one.
func (s *PersonalStep) setPreview(p *upload.Preview) {
	if s.preview != nil && s.preview != p {
		if err := s.preview.Release(); err != nil {
			logger.Warn("Releasing preview: %v", err)
		}
	}
	s.preview = p
}

// Close releases the preview. Previews that finish loading after Close
// are released on arrival.
func (s *PersonalStep) Close() {
	s.closed = true
	s.setPreview(nil)
	s.cleanupTmp()
}

// Preview returns the current preview, if any.
func (s *PersonalStep) Preview() *upload.Preview { return s.preview }

func acquirePreview(ref string) tea.Cmd {
	return func() tea.Msg {
		p, err := upload.Acquire(ref)
		return ImageSelectedMsg{Preview: p, Err: err}
	}
}

// openEditor launches $EDITOR on the bio.
func (s *PersonalStep) openEditor() tea.Cmd {
	if os.Getenv("EDITOR") == "" {
		return nil
	}
	tmpfile, err := os.CreateTemp("", "teacherhub_bio_*.md")
	if err != nil {
		return nil
	}
	if _, err := tmpfile.WriteString(s.bio); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()
	s.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("teacherhub", tmpfile.Name())
	if err != nil {
		s.cleanupTmp()
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return nil
		}
		content, err := os.ReadFile(tmpfile.Name())
		if err != nil {
			return nil
		}
		return BioEditedMsg{Content: strings.TrimSpace(string(content))}
	})
}

func (s *PersonalStep) cleanupTmp() {
	if s.tmpFile != "" {
		_ = os.Remove(s.tmpFile)
		s.tmpFile = ""
	}
}

// View renders the fields plus bio and image status.
func (s *PersonalStep) View() string {
	st := theme.Current().S()
	var b strings.Builder
	b.WriteString(s.fieldStep.View())
	b.WriteString("\n")

	switch {
	case s.imageErr != "":
		b.WriteString("  " + st.FieldError.Render("✗ "+s.imageErr) + "\n")
	case s.preview != nil:
		b.WriteString("  " + st.Success.Render("✓ ") + st.Description.Render(s.preview.Describe()) + "\n")
	}

	b.WriteString("\n")
	bio := firstLine(s.bio)
	if bio == "" {
		bio = "No bio yet"
	}
	b.WriteString("  " + st.Label.Render("Bio ") + st.Description.Render(truncate(bio, max(20, s.width-10))))
	return b.String()
}

// Hints implements stepView.
func (s *PersonalStep) Hints() []string {
	hints := s.fieldStep.Hints()
	if os.Getenv("EDITOR") != "" {
		hints = append(hints, "ctrl+e", "edit bio")
	}
	return hints
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
