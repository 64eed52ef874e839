package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/mark3labs/teacherhub/internal/applications"
	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/tui/onboarding"
	"github.com/mark3labs/teacherhub/internal/tui/theme"
)

var applicationsFlags struct {
	dataDir string
	status  string
	note    string
}

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "List and review submitted applications",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted applications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *applications.Store) error {
			var status applications.Status
			if applicationsFlags.status != "" {
				s, err := applications.ParseStatus(applicationsFlags.status)
				if err != nil {
					return err
				}
				status = s
			}
			apps, err := store.List(ctx, status)
			if err != nil {
				return fmt.Errorf("failed to list applications: %w", err)
			}
			printApplications(cmd.OutOrStdout(), apps)
			return nil
		})
	},
}

var applicationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *applications.Store) error {
			app, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printApplication(cmd.OutOrStdout(), app)
			return nil
		})
	},
}

var applicationsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], applications.StatusApproved)
	},
}

var applicationsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject an application",
	Long: `Reject an application.

A rejected applicant may submit a new application with the same email.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], applications.StatusRejected)
	},
}

func init() {
	applicationsCmd.PersistentFlags().StringVar(&applicationsFlags.dataDir, "data-dir", "", "Data directory for the application store (default from config)")
	applicationsListCmd.Flags().StringVarP(&applicationsFlags.status, "status", "s", "", "Only show applications with this status (pending, approved, rejected)")
	applicationsApproveCmd.Flags().StringVarP(&applicationsFlags.note, "note", "n", "", "Note stored with the decision")
	applicationsRejectCmd.Flags().StringVarP(&applicationsFlags.note, "note", "n", "", "Note stored with the decision")

	applicationsCmd.AddCommand(applicationsListCmd)
	applicationsCmd.AddCommand(applicationsShowCmd)
	applicationsCmd.AddCommand(applicationsApproveCmd)
	applicationsCmd.AddCommand(applicationsRejectCmd)
}

// withStore opens the store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *applications.Store) error) error {
	cfg, err := loadConfig(applicationsFlags.dataDir)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	emb, store, err := openStore(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := emb.Close(); err != nil {
			logger.Warn("Closing application store: %v", err)
		}
	}()
	return fn(ctx, store)
}

func setStatus(cmd *cobra.Command, id string, status applications.Status) error {
	return withStore(cmd, func(ctx context.Context, store *applications.Store) error {
		app, err := store.SetStatus(ctx, id, status, applicationsFlags.note)
		if err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Application %s (%s) is now %s.\n", shortID(app.ID), app.Email, app.Status)
		return nil
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusStyle(status applications.Status) lipgloss.Style {
	t := theme.Current()
	switch status {
	case applications.StatusApproved:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success))
	case applications.StatusRejected:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning))
}

// printApplications writes one row per application.
func printApplications(w io.Writer, apps []*applications.Application) {
	if len(apps) == 0 {
		_, _ = fmt.Fprintln(w, "No applications found.")
		return
	}
	st := theme.Current().S()
	col := func(width int) lipgloss.Style { return lipgloss.NewStyle().Width(width).MaxWidth(width) }

	header := col(10).Render("ID") + col(24).Render("NAME") + col(32).Render("EMAIL") +
		col(10).Render("STATUS") + "SUBMITTED"
	_, _ = fmt.Fprintln(w, st.Label.Render(header))
	for _, app := range apps {
		row := col(10).Render(shortID(app.ID)) +
			col(24).Render(app.Name) +
			col(32).Render(app.Email) +
			col(10).Render(statusStyle(app.Status).Render(string(app.Status))) +
			app.SubmittedAt.Local().Format("2006-01-02 15:04")
		_, _ = fmt.Fprintln(w, row)
	}
}

// printApplication writes the application header and its document.
func printApplication(w io.Writer, app *applications.Application) {
	st := theme.Current().S()
	_, _ = fmt.Fprintln(w, st.HeaderTitle.Render(fmt.Sprintf("Application %s", app.ID)))
	_, _ = fmt.Fprintf(w, "Status:    %s\n", statusStyle(app.Status).Render(string(app.Status)))
	_, _ = fmt.Fprintf(w, "Submitted: %s\n", app.SubmittedAt.Local().Format("2006-01-02 15:04"))
	if !app.UpdatedAt.Equal(app.SubmittedAt) {
		_, _ = fmt.Fprintf(w, "Updated:   %s\n", app.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if app.Note != "" {
		_, _ = fmt.Fprintf(w, "Note:      %s\n", app.Note)
	}
	_, _ = fmt.Fprintln(w)

	md := onboarding.Summary(&app.Document)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			md = rendered
		}
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(md, "\n"))
}
