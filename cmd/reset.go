/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/internal/ui"
	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard saved ranking progress",
	Long: `Delete the saved session, result and comparison history of one mode, or of
both with --all. Todoist priorities are left as they are.

--cache also drops cached classifications so every task is classified again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		all, _ := cmd.Flags().GetBool("all")
		cache, _ := cmd.Flags().GetBool("cache")
		yes, _ := cmd.Flags().GetBool("yes")

		if modeFlag == "" && !all && !cache {
			return fmt.Errorf("choose what to reset: --mode <context>, --all or --cache")
		}
		var modes []models.Context
		if all {
			modes = models.Modes
		} else if modeFlag != "" {
			m, err := models.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			modes = []models.Context{m}
		}

		if !yes && !isJSON() {
			if !confirmOrAbort(resetPrompt(modes, cache)) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		ctx := cmd.Context()
		var keys []string
		for _, m := range modes {
			keys = append(keys, ranking.SessionKey(m), ranking.ResultKey(m), ranking.HistoryKey(m))
		}
		if len(keys) > 0 {
			if err := a.Store.Apply(ctx, nil, keys); err != nil {
				return fmt.Errorf("reset progress: %w", err)
			}
			slog.Info("ranking state reset", "modes", modes)
		}

		var purged int64
		if cache {
			purged, err = a.Store.PurgeClassifications(ctx)
			if err != nil {
				return fmt.Errorf("purge classifications: %w", err)
			}
		}

		if isJSON() {
			return printJSON(map[string]any{"modes": modes, "classificationsPurged": purged})
		}
		for _, m := range modes {
			fmt.Println(ui.StyleSuccess.Render("✓ Reset " + ui.ContextTitle(m)))
		}
		if cache {
			fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ Purged %d cached classifications", purged)))
		}
		return nil
	},
}

func resetPrompt(modes []models.Context, cache bool) string {
	what := ""
	for i, m := range modes {
		if i > 0 {
			what += " and "
		}
		what += ui.ContextTitle(m)
	}
	switch {
	case what == "":
		what = "the classification cache"
	case cache:
		what += " progress and the classification cache"
	default:
		what += " progress"
	}
	return fmt.Sprintf("Reset %s? [y/N]: ", what)
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().String("mode", "", "mode to reset (context-a or context-b)")
	resetCmd.Flags().Bool("all", false, "reset both modes")
	resetCmd.Flags().Bool("cache", false, "also purge cached classifications")
	resetCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
}
