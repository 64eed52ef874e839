package onboarding

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/tui/theme"
	"github.com/mark3labs/teacherhub/internal/tui/wizard"
)

// AvailabilityStep edits the schedule, the weekly time slots and the
// teaching methods.
type AvailabilityStep struct {
	*fieldStep
}

// NewAvailabilityStep creates the availability step.
func NewAvailabilityStep(dispatch dispatchFunc) *AvailabilityStep {
	fields := []*wizard.Field{
		wizard.SelectField("preferredSchedule", "Schedule", form.Schedules),
		wizard.TextField("timezone", "Timezone", "ctrl+n for suggestions", form.Timezones...),
		wizard.TextField("maxStudentsPerClass", "Max students", "10"),
	}
	for _, day := range form.Weekdays {
		fields = append(fields,
			wizard.ToggleField(slotKey(day, "available"), day),
			wizard.TextField(slotKey(day, "startTime"), day+" start", "09:00"),
			wizard.TextField(slotKey(day, "endTime"), day+" end", "17:00"),
		)
	}
	for _, method := range form.TeachingMethods {
		fields = append(fields, wizard.ToggleField("teachingMethods."+method, method))
	}
	return &AvailabilityStep{newFieldStep(form.SectionAvailability, dispatch, fields...)}
}

func slotKey(day, field string) string {
	return "timeSlots." + day + "." + field
}

// View lays the slots out as a table and the methods as a grid.
func (s *AvailabilityStep) View() string {
	st := theme.Current().S()
	var b strings.Builder

	for _, key := range []string{"preferredSchedule", "timezone", "maxStudentsPerClass"} {
		b.WriteString(s.row(s.fields.Field(key).Label, s.fields.RenderInput(key), 14))
		b.WriteString("\n")
		if msg := s.errs.Error(key); msg != "" {
			b.WriteString(strings.Repeat(" ", 18) + st.FieldError.Render("✗ "+msg) + "\n")
		}
	}

	b.WriteString("\n" + st.Label.Render("  Weekly availability") + "\n")
	for _, day := range form.Weekdays {
		inputs := fmt.Sprintf("%s  %s – %s",
			s.fields.RenderInput(slotKey(day, "available")),
			fixed(s.fields.RenderInput(slotKey(day, "startTime")), 7),
			fixed(s.fields.RenderInput(slotKey(day, "endTime")), 7),
		)
		b.WriteString(s.row(day, inputs, 10))
		b.WriteString("\n")
	}
	for _, day := range form.Weekdays {
		if msg := s.errs.Error("timeSlots." + day); msg != "" {
			b.WriteString("  " + st.FieldError.Render("✗ "+msg) + "\n")
		}
	}

	b.WriteString("\n" + st.Label.Render("  Teaching methods") + "\n")
	var cells []string
	for _, method := range form.TeachingMethods {
		key := "teachingMethods." + method
		label := st.Value.Render(method)
		if s.fields.FocusedKey() == key {
			label = st.LabelFocused.Render(method)
		}
		cells = append(cells, fixed(s.fields.RenderInput(key)+" "+label, 24))
	}
	for i := 0; i < len(cells); i += 2 {
		b.WriteString("  " + strings.Join(cells[i:min(i+2, len(cells))], "  ") + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// row renders a label column followed by inputs, marking the row when
// one of its fields has focus.
func (s *AvailabilityStep) row(label, inputs string, width int) string {
	st := theme.Current().S()
	marker := "  "
	labelStyle := st.Label
	if focused := s.fields.FocusedKey(); focused != "" {
		if f := s.fields.Field(focused); f != nil && (f.Label == label || strings.HasPrefix(f.Label, label+" ")) {
			marker = st.LabelFocused.Render("› ")
			labelStyle = st.LabelFocused
		}
	}
	return marker + lipgloss.NewStyle().Width(width).Render(labelStyle.Render(label)) + "  " + inputs
}

func fixed(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(s)
}

// Hints implements stepView.
func (s *AvailabilityStep) Hints() []string {
	return []string{"tab", "next field", "space", "toggle", "ctrl+n/p", "timezone", "esc", "back"}
}
