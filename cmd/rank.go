/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"

	"github.com/josephgoksu/seiton/internal/telemetry"
	"github.com/josephgoksu/seiton/internal/ui"
	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [context-a|context-b]",
	Short: "Rank tasks with pairwise comparisons",
	Long: `Start or resume the ranking tournament for one context.

Without an argument a mode picker is shown. Each screen shows two tasks: press
1 (or ←) if the left one matters more, 2 (or →) for the right one. Priorities
are written to Todoist as you go.`,
	Example: `  seiton rank
  seiton rank context-a`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var mode models.Context
		if len(args) == 1 {
			m, err := models.ParseMode(args[0])
			if err != nil {
				return err
			}
			mode = m
		}
		if !isTerminal() {
			return errors.New("seiton rank needs an interactive terminal; use `seiton status` or `seiton result` in scripts")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()
		if _, err := a.RequireTodoist(); err != nil {
			return err
		}

		maybePromptTelemetryConsent()

		open := func(ctx context.Context, m models.Context) (ui.Engine, error) {
			engine, err := a.NewEngine(ctx, m)
			if err != nil {
				return nil, err
			}
			engine.Subscribe(telemetry.Observer(telemetryClient))
			return engine, nil
		}
		return ui.RunRank(cmd.Context(), open, mode, a.Classifier.Descriptions)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
}
