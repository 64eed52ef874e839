package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/tui/theme"
)

const logoText = "▀█▀ █▀▀ ▄▀█ █▀▀ █ █ █▀▀ █▀█ █ █ █ █ █▀▄\n █  ██▄ █▀█ █▄▄ █▀█ ██▄ █▀▄ █▀█ █▄█ █▀▄"

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "teacherhub",
	Short: "Teacher application wizard with an embedded application store",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	lines := strings.Split(logoText, "\n")
	for i, line := range lines {
		lines[i] = gradient(line, t.Primary, t.Secondary)
	}
	return strings.Join(lines, "\n")
}

func gradient(text, from, to string) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		pos := float64(i) / float64(max(1, len(runes)-1))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.InterpolateColor(from, to, pos)))
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

teacherhub walks a teacher through a six-step application (personal
details, contact details, qualifications, availability, emergency contact
and a final review) in a full-screen terminal wizard. Submitted
applications are kept in an embedded NATS JetStream log and can be listed
and reviewed from the command line.`

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(applicationsCmd)
	rootCmd.AddCommand(setupCmd)
}
