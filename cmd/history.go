/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/internal/ui"
	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded comparisons",
	Long: `List the comparison log of a mode, newest first. The log is what the
comparison screen uses to remind you how you decided last time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		limit, _ := cmd.Flags().GetInt("limit")
		mode, err := models.ParseMode(modeFlag)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		ctx := cmd.Context()
		entries, err := ranking.LoadHistory(ctx, a.Store, mode)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}

		if isJSON() {
			return printJSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println(ui.StyleSubtle.Render("No comparisons recorded for " + ui.ContextTitle(mode) + "."))
			return nil
		}
		titles, err := knownTitles(ctx, a.Store, mode)
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("◆ %s history (%d)", ui.ContextTitle(mode), len(entries))))
		fmt.Print(ui.HistoryTable(entries, titles, time.Now()))
		return nil
	},
}

// knownTitles maps task ids to content from the saved session and result.
func knownTitles(ctx context.Context, store ranking.Store, mode models.Context) (map[string]string, error) {
	titles := make(map[string]string)
	add := func(tasks ...[]models.Task) {
		for _, list := range tasks {
			for _, t := range list {
				titles[t.ID] = t.Content
			}
		}
	}
	if s, ok, err := ranking.LoadSession(ctx, store, mode); err != nil {
		return nil, err
	} else if ok {
		add(s.Queue, s.Ranked, s.Overflow)
		if s.Challenger != nil {
			add([]models.Task{*s.Challenger})
		}
	}
	if r, ok, err := ranking.LoadResult(ctx, store, mode); err != nil {
		return nil, err
	} else if ok {
		add(r.Ranked, r.Overflow)
	}
	return titles, nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("mode", string(models.ContextA), "mode to show (context-a or context-b)")
	historyCmd.Flags().Int("limit", 20, "show at most this many entries (0 for all)")
}
