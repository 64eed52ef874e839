package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/teacherhub/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// ButtonID identifies a button by its position in the bar.
type ButtonID int

const (
	ButtonNone ButtonID = -1
	ButtonBack ButtonID = 0
	ButtonNext ButtonID = 1
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling and
// keyboard focus. Disabled buttons are skipped when moving focus.
type ButtonBar struct {
	buttons []Button
	width   int
	focus   int // -1 when the bar does not have focus
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
		focus:   -1,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// SetState changes the state of the button at id. Disabling the focused
// button moves focus to the next enabled one.
func (b *ButtonBar) SetState(id ButtonID, state ButtonState) {
	i := int(id)
	if i < 0 || i >= len(b.buttons) {
		return
	}
	b.buttons[i].State = state
	if state == ButtonDisabled && b.focus == i {
		if !b.FocusNext() && !b.FocusPrev() {
			b.focus = -1
		}
	}
}

// SetLabel changes the label of the button at id.
func (b *ButtonBar) SetLabel(id ButtonID, label string) {
	if i := int(id); i >= 0 && i < len(b.buttons) {
		b.buttons[i].Label = label
	}
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() bool {
	return b.focusFrom(0, 1)
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() bool {
	return b.focusFrom(len(b.buttons)-1, -1)
}

// FocusNext moves focus right. It returns false, leaving focus where it
// was, when there is no enabled button to the right.
func (b *ButtonBar) FocusNext() bool {
	return b.focusFrom(b.focus+1, 1)
}

// FocusPrev moves focus left. It returns false, leaving focus where it
// was, when there is no enabled button to the left.
func (b *ButtonBar) FocusPrev() bool {
	if b.focus < 0 {
		return false
	}
	return b.focusFrom(b.focus-1, -1)
}

func (b *ButtonBar) focusFrom(start, step int) bool {
	for i := start; i >= 0 && i < len(b.buttons); i += step {
		if b.buttons[i].State != ButtonDisabled {
			b.focus = i
			return true
		}
	}
	return false
}

// Blur removes focus from the bar.
func (b *ButtonBar) Blur() {
	b.focus = -1
}

// IsFocused reports whether any button has focus.
func (b *ButtonBar) IsFocused() bool {
	return b.focus >= 0
}

// FocusedButton returns the focused button, or ButtonNone.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focus < 0 {
		return ButtonNone
	}
	return ButtonID(b.focus)
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	t := theme.Current()
	base := lipgloss.NewStyle().
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	normalStyle := base.
		Foreground(lipgloss.Color(t.FgBase)).
		Background(lipgloss.Color(t.BgSurface0))

	disabledStyle := base.
		Foreground(lipgloss.Color(t.BgOverlay)).
		Background(lipgloss.Color(t.BgMantle))

	focusedStyle := base.
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.Tertiary)).
		Bold(true)

	renderedButtons := make([]string, 0, len(b.buttons))
	for i, btn := range b.buttons {
		state := btn.State
		if i == b.focus && state != ButtonDisabled {
			state = ButtonFocused
		}
		switch state {
		case ButtonDisabled:
			renderedButtons = append(renderedButtons, disabledStyle.Render(btn.Label))
		case ButtonFocused:
			renderedButtons = append(renderedButtons, focusedStyle.Render(btn.Label))
		default:
			renderedButtons = append(renderedButtons, normalStyle.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(renderedButtons, ""))
}

// CreateBackNextButtons creates standard Back/Next button set.
// backEnabled: whether Back button is enabled
// nextEnabled: whether Next button is enabled (false if step invalid)
// nextLabel: custom label for next button (e.g., "Next", "Submit")
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	nextState := ButtonNormal
	if !nextEnabled {
		nextState = ButtonDisabled
	}
	return []Button{
		{Label: "← Back", State: backState},
		{Label: nextLabel, State: nextState},
	}
}
