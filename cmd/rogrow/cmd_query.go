package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/spf13/cobra"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "ask <question>",
		Short:   "Ask the chatbot a question about the dataset",
		Example: `  rogrow ask "rata-rata MTK kuis"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}

			answer, err := svc.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"answer": answer.Text,
					"intent": answer.Intent,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
			return err
		},
	}
}

func newStudentCmd(opts *options) *cobra.Command {
	var withInsights bool

	cmd := &cobra.Command{
		Use:   "student <nis>",
		Short: "Analyse one student's quiz and assignment scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}

			nis := strings.TrimSpace(args[0])
			analysis, err := svc.AnalyzeStudent(ctx, nis)
			if errors.Is(err, domain.ErrStudentNotFound) {
				return fmt.Errorf("student %s not found", nis)
			}
			if err != nil {
				return err
			}

			if !withInsights {
				if opts.json {
					return printJSON(cmd.OutOrStdout(), analysis)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", analysis.Name, analysis.NIS)
				fmt.Fprintf(out, "Terkuat: %s\nTerlemah: %s\n", analysis.Strongest, analysis.Weakest)
				_, err = fmt.Fprintln(out, analysis.Recommendation)
				return err
			}

			insights, err := svc.ScoreInsights(ctx, nis)
			if errors.Is(err, domain.ErrInsightsUnavailable) {
				return errors.New("score insights need OPENAI_API_KEY")
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"analisis": analysis,
				"insights": insights,
			})
		},
	}

	cmd.Flags().BoolVar(&withInsights, "insights", false, "Also generate language model score insights")
	return cmd
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print dataset-wide statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			svc, err := newService(ctx, cfg)
			if err != nil {
				return err
			}

			status := svc.Status(ctx)
			if !opts.json {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d students usable from %s data, loaded %s\n",
					status.ValidStudents, status.Students, status.Source, status.LoadedAt.Format("2006-01-02 15:04:05"))
			}
			return printJSON(cmd.OutOrStdout(), svc.Summary(ctx))
		},
	}
}
