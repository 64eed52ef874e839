package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/teacherhub/internal/applications"
	"github.com/mark3labs/teacherhub/internal/config"
	"github.com/mark3labs/teacherhub/internal/engine"
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/nats"
	"github.com/mark3labs/teacherhub/internal/tui/onboarding"
)

var applyFlags struct {
	from    string
	dataDir string
	strict  bool
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Fill in a teacher application",
	Long: `Fill in a teacher application in the interactive wizard.

With --from the application is read from a YAML file instead and replayed
through the same steps, so the same field checks apply before it is
submitted.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyFlags.from, "from", "f", "", "Submit the application in this YAML file without the wizard")
	applyCmd.Flags().StringVar(&applyFlags.dataDir, "data-dir", "", "Data directory for the application store (default from config)")
	applyCmd.Flags().BoolVar(&applyFlags.strict, "strict", false, "Refuse to submit while any field is incomplete")
}

// loadConfig reads configuration and applies the logging settings.
func loadConfig(dataDir string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}

// openStore starts the embedded NATS server under dataDir.
func openStore(ctx context.Context, dataDir string) (*nats.Embedded, *applications.Store, error) {
	emb, err := nats.Open(ctx, dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open application store: %w", err)
	}
	return emb, applications.NewStore(emb.JS, emb.Stream), nil
}

func engineOptions(cfg *config.Config) engine.Options {
	return engine.Options{
		SubmitTimeout:    cfg.SubmitTimeout,
		StrictSubmit:     cfg.StrictSubmit || applyFlags.strict,
		CrossFieldChecks: cfg.CrossFieldChecks,
	}
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(applyFlags.dataDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	emb, store, err := openStore(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := emb.Close(); err != nil {
			logger.Warn("Closing application store: %v", err)
		}
	}()

	opts := engineOptions(cfg)
	eng := engine.New(store, opts)

	if applyFlags.from != "" {
		doc, err := loadDocument(applyFlags.from)
		if err != nil {
			return err
		}
		return submitDocument(ctx, eng, doc, cmd.OutOrStdout())
	}

	submitted, err := onboarding.Run(ctx, eng, onboarding.Options{
		ResetDelay:   cfg.ResetDelay,
		StrictSubmit: opts.StrictSubmit,
	})
	if err != nil {
		return err
	}
	if submitted > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d application(s) submitted.\n", submitted)
	}
	return nil
}

// loadDocument reads an application from a YAML file. Missing sections
// keep the defaults of a new application.
func loadDocument(path string) (*form.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open application file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc := form.New()
	if err := yaml.NewDecoder(f).Decode(doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// submitDocument replays doc through eng and submits it from the review
// step.
func submitDocument(ctx context.Context, eng *engine.Engine, doc *form.Document, out io.Writer) error {
	if err := eng.Replay(doc); err != nil {
		return fmt.Errorf("application incomplete: %w", err)
	}

	findings := eng.Findings()
	for _, field := range findings.Fields() {
		_, _ = fmt.Fprintf(out, "warning: %s: %s\n", field, findings.Error(field))
	}

	if err := eng.Submit(ctx); err != nil {
		if msg := eng.SubmissionMessage(); msg != "" {
			return fmt.Errorf("submission failed: %s", msg)
		}
		return fmt.Errorf("submission failed: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Application submitted for %s <%s>.\n", eng.Document().FullName(), eng.Document().PersonalInfo.Email)
	return nil
}
