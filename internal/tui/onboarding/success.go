package onboarding

import (
	"strings"

	"github.com/mark3labs/teacherhub/internal/tui/theme"
)

// renderSuccess renders the screen shown between a successful submission
// and the wizard reset.
func renderSuccess(name string) string {
	st := theme.Current().S()
	var b strings.Builder

	b.WriteString(st.Success.Render("✓ Application Submitted Successfully!"))
	b.WriteString("\n\n")
	greeting := "Thank you for joining our teaching team."
	if name != "" {
		greeting = "Thank you, " + name + ", for joining our teaching team."
	}
	b.WriteString(st.Value.Render(greeting))
	b.WriteString("\n")
	b.WriteString(st.Value.Render("We'll review your application and get back to you soon."))
	b.WriteString("\n\n")
	b.WriteString(st.Description.Render("You should receive a confirmation email shortly."))
	b.WriteString("\n\n")
	b.WriteString(st.Description.Render("enter to start a new application • ctrl+c to quit"))
	return b.String()
}
