// Command rogrow is the operator CLI: it answers questions and analyses
// students against the local dataset, and imports student records into Postgres.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rogrow/internal/adapter/llm"
	"github.com/pscheid92/rogrow/internal/app"
	"github.com/pscheid92/rogrow/internal/catalog"
	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/intent"
	"github.com/pscheid92/rogrow/internal/platform/config"
	"github.com/pscheid92/rogrow/internal/platform/logging"
	"github.com/pscheid92/rogrow/internal/platform/version"
	"github.com/spf13/cobra"
)

type options struct {
	dataDir string
	json    bool
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "rogrow",
		Short:         "RoGrow chatbot and student analytics",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Dataset directory (default: DATA_DIR)")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print JSON instead of text")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(newAskCmd(opts))
	rootCmd.AddCommand(newStudentCmd(opts))
	rootCmd.AddCommand(newSummaryCmd(opts))
	rootCmd.AddCommand(newImportStudentsCmd(opts))

	return rootCmd
}

// loadConfig reads the environment and applies flag overrides. Logs go to
// stderr so command output stays machine readable.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}

	slog.SetDefault(logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat))
	return cfg, nil
}

// newService builds the dataset-backed service. The student directory and
// insight cache are left out; the language model is used when configured.
func newService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load subject catalog: %w", err)
	}

	clock := clockwork.NewRealClock()
	routerOpts := []intent.Option{intent.WithRandomizer(intent.NewRandomizer(cfg.DatasetSeed))}

	var insights domain.InsightGenerator
	if cfg.LLMEnabled() {
		client := llm.New(llm.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.OpenAIMaxTokens,
			Temperature: cfg.OpenAITemp,
		}, nil)
		insights = client
		if cfg.LLMFallback {
			routerOpts = append(routerOpts, intent.WithCompleter(client))
		}
	}

	loader := dataset.NewLoader(cfg.DataDir, cat.Subjects, clock, cfg.DatasetSeed)
	return app.NewService(ctx, loader, intent.New(cat, routerOpts...), nil, insights, nil, clock), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintln(os.Stderr, "Error: operation timed out")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
