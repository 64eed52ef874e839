package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/teacherhub/internal/tui/theme"
)

// FieldKind selects how a field is edited.
type FieldKind int

const (
	FieldText   FieldKind = iota // free text, optional suggestions on ctrl+n/ctrl+p
	FieldSelect                  // closed option set, cycled with ←/→/space
	FieldToggle                  // "yes"/"no", flipped with space
)

// Field is one labelled input in a FieldGroup. Key is the document path
// the field edits.
type Field struct {
	Key     string
	Label   string
	Kind    FieldKind
	Options []string

	input textinput.Model
	value string
}

// TextField creates a free-text field. Suggestions, if any, can be cycled
// into the input with ctrl+n and ctrl+p.
func TextField(key, label, placeholder string, suggestions ...string) *Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.SetStyles(inputStyles())
	ti.SetWidth(40)
	return &Field{Key: key, Label: label, Kind: FieldText, Options: suggestions, input: ti}
}

// SelectField creates a field restricted to options.
func SelectField(key, label string, options []string) *Field {
	return &Field{Key: key, Label: label, Kind: FieldSelect, Options: options}
}

// ToggleField creates an on/off field with values "yes" and "no".
func ToggleField(key, label string) *Field {
	return &Field{Key: key, Label: label, Kind: FieldToggle, value: "no"}
}

// Value returns the current field value.
func (f *Field) Value() string {
	if f.Kind == FieldText {
		return f.input.Value()
	}
	return f.value
}

// SetValue replaces the value without reporting a change.
func (f *Field) SetValue(v string) {
	switch f.Kind {
	case FieldText:
		if f.input.Value() != v {
			f.input.SetValue(v)
		}
	case FieldToggle:
		if v == "yes" || v == "true" {
			f.value = "yes"
		} else {
			f.value = "no"
		}
	default:
		f.value = v
	}
}

// cycle moves to the next (dir 1) or previous (dir -1) option. A value
// outside the options starts from the first or last option.
func (f *Field) cycle(dir int) bool {
	if len(f.Options) == 0 {
		return false
	}
	idx := -1
	for i, o := range f.Options {
		if o == f.Value() {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && dir > 0:
		idx = 0
	case idx < 0:
		idx = len(f.Options) - 1
	default:
		idx = (idx + dir + len(f.Options)) % len(f.Options)
	}
	f.SetValue(f.Options[idx])
	if f.Kind == FieldText {
		f.input.CursorEnd()
	}
	return true
}

// FieldGroup is a vertical form of fields with tab focus cycling. Tab on
// the last field and shift+tab on the first emit TabExitForwardMsg and
// TabExitBackwardMsg so the parent can move focus to its buttons.
type FieldGroup struct {
	fields  []*Field
	focus   int
	focused bool
	width   int

	// OnChange is called synchronously whenever the user edits a field.
	OnChange func(key, value string)
}

// NewFieldGroup creates a group from fields in display order.
func NewFieldGroup(fields ...*Field) *FieldGroup {
	return &FieldGroup{fields: fields, width: 60}
}

// Len returns the number of fields.
func (g *FieldGroup) Len() int { return len(g.fields) }

// At returns the field at index i in display order.
func (g *FieldGroup) At(i int) *Field { return g.fields[i] }

// Field returns the field with key, or nil.
func (g *FieldGroup) Field(key string) *Field {
	for _, f := range g.fields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

// Value returns the value of the field with key.
func (g *FieldGroup) Value(key string) string {
	if f := g.Field(key); f != nil {
		return f.Value()
	}
	return ""
}

// SetValue sets a field value without reporting a change.
func (g *FieldGroup) SetValue(key, value string) {
	if f := g.Field(key); f != nil {
		f.SetValue(value)
	}
}

// SetWidth sets the width available to the group.
func (g *FieldGroup) SetWidth(width int) {
	g.width = width
	for _, f := range g.fields {
		if f.Kind == FieldText {
			f.input.SetWidth(max(10, width-labelWidth(g.fields)-4))
		}
	}
}

// Focused reports whether a field in the group has focus.
func (g *FieldGroup) Focused() bool { return g.focused }

// FocusedKey returns the key of the focused field, or "".
func (g *FieldGroup) FocusedKey() string {
	if !g.focused || len(g.fields) == 0 {
		return ""
	}
	return g.fields[g.focus].Key
}

// Focus focuses the first field.
func (g *FieldGroup) Focus() tea.Cmd {
	return g.focusAt(0)
}

// FocusLast focuses the last field.
func (g *FieldGroup) FocusLast() tea.Cmd {
	return g.focusAt(len(g.fields) - 1)
}

// FocusKey focuses the field with key.
func (g *FieldGroup) FocusKey(key string) tea.Cmd {
	for i, f := range g.fields {
		if f.Key == key {
			return g.focusAt(i)
		}
	}
	return nil
}

// Blur removes focus from every field.
func (g *FieldGroup) Blur() {
	g.focused = false
	for _, f := range g.fields {
		f.input.Blur()
	}
}

func (g *FieldGroup) focusAt(i int) tea.Cmd {
	if i < 0 || i >= len(g.fields) {
		return nil
	}
	g.Blur()
	g.focus = i
	g.focused = true
	if f := g.fields[i]; f.Kind == FieldText {
		return f.input.Focus()
	}
	return nil
}

// Update handles keys for the focused field.
func (g *FieldGroup) Update(msg tea.Msg) tea.Cmd {
	if !g.focused || len(g.fields) == 0 {
		return nil
	}
	f := g.fields[g.focus]

	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			if g.focus == len(g.fields)-1 {
				if keyMsg.String() == "down" {
					return nil
				}
				return func() tea.Msg { return TabExitForwardMsg{} }
			}
			return g.focusAt(g.focus + 1)
		case "shift+tab", "up":
			if g.focus == 0 {
				if keyMsg.String() == "up" {
					return nil
				}
				return func() tea.Msg { return TabExitBackwardMsg{} }
			}
			return g.focusAt(g.focus - 1)
		}

		switch f.Kind {
		case FieldSelect:
			switch keyMsg.String() {
			case "right", "space", " ", "l":
				if f.cycle(1) {
					g.changed(f)
				}
			case "left", "h":
				if f.cycle(-1) {
					g.changed(f)
				}
			}
			return nil
		case FieldToggle:
			switch keyMsg.String() {
			case "space", " ", "x", "left", "right":
				if f.value == "yes" {
					f.value = "no"
				} else {
					f.value = "yes"
				}
				g.changed(f)
			}
			return nil
		default:
			switch keyMsg.String() {
			case "ctrl+n":
				if f.cycle(1) {
					g.changed(f)
				}
				return nil
			case "ctrl+p":
				if f.cycle(-1) {
					g.changed(f)
				}
				return nil
			}
		}
	}

	if f.Kind != FieldText {
		return nil
	}
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		g.changed(f)
	}
	return cmd
}

func (g *FieldGroup) changed(f *Field) {
	if g.OnChange != nil {
		g.OnChange(f.Key, f.Value())
	}
}

// RenderInput renders only the value part of a field.
func (g *FieldGroup) RenderInput(key string) string {
	for i, f := range g.fields {
		if f.Key == key {
			return g.renderInput(f, g.focused && i == g.focus)
		}
	}
	return ""
}

func (g *FieldGroup) renderInput(f *Field, focused bool) string {
	s := theme.Current().S()
	switch f.Kind {
	case FieldToggle:
		mark := "[ ]"
		if f.value == "yes" {
			mark = "[x]"
		}
		if focused {
			return s.LabelFocused.Render(mark)
		}
		return s.Value.Render(mark)
	case FieldSelect:
		v := f.value
		if v == "" {
			v = s.Description.Render("choose")
		}
		if focused {
			return s.LabelFocused.Render("‹ ") + s.Value.Render(v) + s.LabelFocused.Render(" ›")
		}
		return s.Value.Render(v)
	default:
		return f.input.View()
	}
}

// View renders one line per field, with the error for the field (looked
// up by key in errs) under it.
func (g *FieldGroup) View(errs map[string]string) string {
	s := theme.Current().S()
	lw := labelWidth(g.fields)

	var b strings.Builder
	for i, f := range g.fields {
		focused := g.focused && i == g.focus
		marker := "  "
		labelStyle := s.Label
		if focused {
			marker = s.LabelFocused.Render("› ")
			labelStyle = s.LabelFocused
		}
		label := lipgloss.NewStyle().Width(lw).Render(labelStyle.Render(f.Label))
		b.WriteString(marker + label + "  " + g.renderInput(f, focused))
		b.WriteString("\n")
		if msg := errs[f.Key]; msg != "" {
			b.WriteString(strings.Repeat(" ", lw+4))
			b.WriteString(s.FieldError.Render("✗ " + msg))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func labelWidth(fields []*Field) int {
	w := 0
	for _, f := range fields {
		w = max(w, lipgloss.Width(f.Label))
	}
	return w
}

func inputStyles() textinput.Styles {
	t := theme.Current()
	return textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgOverlay)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Tertiary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgOverlay)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgOverlay)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
}

