package onboarding

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"

	"github.com/mark3labs/teacherhub/internal/engine"
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/tui/theme"
	"github.com/mark3labs/teacherhub/internal/validation"
)

// ReviewStep shows a read-only summary of the whole document, the
// whole-document findings and the submission status.
type ReviewStep struct {
	viewport viewport.Model
	content  string // markdown
	findings validation.Ledger
	strict   bool
	state    engine.SubmissionState
	message  string
	width    int
	height   int
}

// NewReviewStep creates the review step.
func NewReviewStep(strict bool) *ReviewStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(12),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return &ReviewStep{viewport: vp, strict: strict, width: 60, height: 20}
}

// renderMarkdown renders markdown with glamour. Falls back to plain text
// if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

func (s *ReviewStep) Init() tea.Cmd { return nil }

// SetSize updates the dimensions for the review step.
func (s *ReviewStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.SetWidth(width)
	s.viewport.SetHeight(max(5, height-6))
	s.viewport.SetContent(renderMarkdown(s.content, width))
}

func (s *ReviewStep) Focus() tea.Cmd     { return nil }
func (s *ReviewStep) FocusLast() tea.Cmd { return nil }
func (s *ReviewStep) Blur()              {}

// Sync rebuilds the summary when the document changed.
func (s *ReviewStep) Sync(doc *form.Document, _ validation.Ledger) {
	md := Summary(doc)
	if md != s.content {
		s.content = md
		s.viewport.SetContent(renderMarkdown(md, s.width))
	}
}

// SetStatus records the whole-document findings and submission phase.
func (s *ReviewStep) SetStatus(findings validation.Ledger, state engine.SubmissionState, message string) {
	s.findings = findings
	s.state = state
	s.message = message
}

// Update handles messages for the review step.
func (s *ReviewStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "y", "Y":
			if s.state == engine.SubmitFailed {
				return func() tea.Msg { return SubmitMsg{} }
			}
			return nil
		case "ctrl+s":
			return func() tea.Msg { return SubmitMsg{} }
		}
	}
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// View renders the review step.
func (s *ReviewStep) View() string {
	st := theme.Current().S()
	var b strings.Builder
	b.WriteString(s.viewport.View())
	b.WriteString("\n")

	if s.findings.Any() {
		label := "Not yet complete (you can still submit):"
		if s.strict {
			label = "Complete these fields before submitting:"
		}
		b.WriteString(st.Warning.Render("⚠ "+label) + "\n")
		fields := s.findings.Fields()
		for i, f := range fields {
			if i == 3 {
				b.WriteString(st.Description.Render(fmt.Sprintf("  … and %d more", len(fields)-3)) + "\n")
				break
			}
			b.WriteString(st.Description.Render("  • "+s.findings.Error(f)) + "\n")
		}
	}

	switch s.state {
	case engine.SubmitPending:
		b.WriteString(st.Description.Render("⋯ Submitting application..."))
	case engine.SubmitFailed:
		b.WriteString(st.FieldError.Render("✗ "+s.message) + "\n")
		b.WriteString(st.Description.Render("Press y to retry"))
	default:
		b.WriteString(st.Description.Render("By submitting, you agree to our terms and conditions and privacy policy"))
	}
	return b.String()
}

// Hints implements stepView.
func (s *ReviewStep) Hints() []string {
	if s.state == engine.SubmitFailed {
		return []string{"y", "retry", "↑↓", "scroll", "tab", "buttons", "esc", "back"}
	}
	return []string{"↑↓", "scroll", "ctrl+s", "submit", "tab", "buttons", "esc", "back"}
}

// Summary renders the document as markdown for review.
func Summary(doc *form.Document) string {
	var b strings.Builder
	p := doc.PersonalInfo
	b.WriteString("## Personal Information\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", orDash(doc.FullName()))
	line(&b, "Email", p.Email)
	line(&b, "Phone", p.Phone)
	line(&b, "Date of birth", p.DateOfBirth)
	line(&b, "Gender", p.Gender)
	if p.ProfileImage != "" {
		line(&b, "Profile image", p.ProfileImage)
	}
	if p.Bio != "" {
		fmt.Fprintf(&b, "\n> %s\n", strings.ReplaceAll(strings.TrimSpace(p.Bio), "\n", "\n> "))
	}

	c := doc.ContactInfo
	b.WriteString("\n## Contact Information\n\n")
	line(&b, "Work email", c.WorkEmail)
	line(&b, "Alternate phone", c.AlternatePhone)
	a := c.Address
	addr := strings.Join(nonEmpty(a.Street, a.City, a.State, a.ZipCode, a.Country), ", ")
	line(&b, "Address", addr)
	for _, sm := range []struct{ label, v string }{
		{"LinkedIn", c.SocialMedia.LinkedIn},
		{"Twitter", c.SocialMedia.Twitter},
		{"Website", c.SocialMedia.Website},
	} {
		if sm.v != "" {
			line(&b, sm.label, sm.v)
		}
	}

	fmt.Fprintf(&b, "\n## Qualifications (%d)\n\n", len(doc.Qualifications))
	if len(doc.Qualifications) == 0 {
		b.WriteString("_None added_\n")
	}
	for _, q := range doc.Qualifications {
		fmt.Fprintf(&b, "- %s\n", describeQualification(q))
	}

	av := doc.Availability
	b.WriteString("\n## Availability\n\n")
	line(&b, "Schedule", av.PreferredSchedule)
	line(&b, "Timezone", av.Timezone)
	line(&b, "Max students per class", fmt.Sprint(av.MaxStudentsPerClass))
	var days []string
	for _, slot := range av.TimeSlots {
		if slot.Available {
			days = append(days, fmt.Sprintf("%s (%s - %s)", slot.Day, slot.StartTime, slot.EndTime))
		}
	}
	line(&b, "Available", strings.Join(days, ", "))
	line(&b, "Teaching methods", strings.Join(av.TeachingMethods, ", "))

	e := doc.EmergencyContact
	b.WriteString("\n## Emergency Contact\n\n")
	name := e.Name
	if e.Relationship != "" {
		name += " (" + e.Relationship + ")"
	}
	line(&b, "Name", name)
	line(&b, "Phone", e.Phone)
	line(&b, "Email", e.Email)
	line(&b, "Address", e.Address)
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- **%s:** %s\n", label, orDash(value))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
