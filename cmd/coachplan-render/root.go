package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/coachplan/internal/plan"
	"github.com/spf13/cobra"
)

type options struct {
	verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "coachplan-render",
		Short:         "Render workout plan documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log renderer warnings to stderr")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newPagesCommand(opts))
	rootCmd.AddCommand(newPDFCommand(opts))

	return rootCmd
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func readPlan(path string) (plan.WorkoutPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return plan.WorkoutPlan{}, fmt.Errorf("read plan: %w", err)
	}
	var p plan.WorkoutPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return plan.WorkoutPlan{}, fmt.Errorf("decode plan %s: %w", path, err)
	}
	p.AssignIDs()
	return p, nil
}
