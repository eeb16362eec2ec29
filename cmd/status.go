/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/josephgoksu/seiton/internal/app"
	"github.com/josephgoksu/seiton/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show saved ranking progress",
	Long:  `Show the in-progress session and the last completed result for each mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		modes, err := modesFromFlag(modeFlag)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		var all []app.Progress
		for _, m := range modes {
			p, err := app.LoadProgress(cmd.Context(), a.Store, m)
			if err != nil {
				return fmt.Errorf("load %s progress: %w", m, err)
			}
			all = append(all, p)
		}

		if isJSON() {
			return printJSON(all)
		}
		now := time.Now()
		for i, p := range all {
			if i > 0 {
				fmt.Println()
			}
			printProgress(p, a.Ranking.Capacity, now)
		}
		return nil
	},
}

func printProgress(p app.Progress, capacity int, now time.Time) {
	fmt.Println(ui.StyleHeader.Render("◆ " + ui.ContextTitle(p.Mode)))
	switch {
	case p.InProgress:
		line := ui.ProgressLine(len(p.Ranked), capacity, p.Queued, p.Overflow)
		if p.SavedAt != nil {
			line += " · saved " + ui.FormatAgo(*p.SavedAt, now)
		}
		fmt.Println(ui.StyleText.Render(line))
		fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf("%d comparisons recorded", p.Comparisons)))
		if p.Challenger != nil {
			fmt.Println(ui.StylePrimary.Render("Next up: ") + ui.Truncate(p.Challenger.Content, 60))
		}
	case p.HasResult:
		line := fmt.Sprintf("Completed with %d ranked", len(p.Ranked))
		if p.CompletedAt != nil {
			line += " · " + ui.FormatAgo(*p.CompletedAt, now)
		}
		fmt.Println(ui.StyleSuccess.Render(line))
	default:
		fmt.Println(ui.StyleSubtle.Render("No ranking yet. Run `seiton rank " + string(p.Mode) + "`."))
		return
	}
	if len(p.Ranked) > 0 {
		fmt.Println()
		fmt.Print(ui.TaskTable(p.Ranked, 0))
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("mode", "", "only show this mode (context-a or context-b)")
}
