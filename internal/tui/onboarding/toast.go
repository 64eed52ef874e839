package onboarding

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/teacherhub/internal/tui/theme"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 3 * time.Second

// ToastDismissMsg dismisses the toast with the matching ID. Dismissals
// scheduled for an older toast are ignored.
type ToastDismissMsg struct {
	ID int
}

// Toast is a one-line notification drawn in the bottom-right corner.
type Toast struct {
	message  string
	warning  bool
	visible  bool
	id       int
	duration time.Duration
}

// NewToast creates a toast that dismisses itself after duration.
func NewToast(duration time.Duration) *Toast {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &Toast{duration: duration}
}

// Show displays msg and returns the command that dismisses it.
func (t *Toast) Show(msg string) tea.Cmd {
	return t.show(msg, false)
}

// Warn displays msg in warning colours.
func (t *Toast) Warn(msg string) tea.Cmd {
	return t.show(msg, true)
}

func (t *Toast) show(msg string, warning bool) tea.Cmd {
	t.id++
	t.message = msg
	t.warning = warning
	t.visible = true
	id := t.id
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return ToastDismissMsg{ID: id}
	})
}

// Update handles dismissal.
func (t *Toast) Update(msg tea.Msg) {
	if d, ok := msg.(ToastDismissMsg); ok && d.ID == t.id {
		t.visible = false
		t.message = ""
	}
}

// View renders the toast right-aligned within width. Returns empty string
// if the toast is not visible.
func (t *Toast) View(width int) string {
	if !t.visible || t.message == "" {
		return ""
	}
	th := theme.Current()
	bg := th.Info
	if t.warning {
		bg = th.Warning
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Bold(true)

	content := style.Render(t.message)
	if lipgloss.Width(content) > width-2 {
		content = style.Width(max(1, width-2)).Render(t.message)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		PaddingRight(1).
		Render(content)
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool { return t.visible }

// Message returns the current message (empty if not visible).
func (t *Toast) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}
