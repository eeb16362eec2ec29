/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/josephgoksu/seiton/internal/classify"
	"github.com/josephgoksu/seiton/internal/ui"
	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify open tasks into contexts",
	Long: `Classify every open top-level task and cache the labels, so the next
ranking session starts without waiting on the model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		purge, _ := cmd.Flags().GetBool("purge")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		client, err := a.RequireTodoist()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if purge {
			n, err := a.Store.PurgeClassifications(ctx)
			if err != nil {
				return fmt.Errorf("purge classifications: %w", err)
			}
			slog.Info("classification cache purged", "rows", n)
		}

		filter := a.Filter
		if cmd.Flags().Changed("filter") {
			filter, _ = cmd.Flags().GetString("filter")
		}
		all, err := client.ListTasks(ctx, filter)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		tasks := make([]models.Task, 0, len(all))
		for _, t := range all {
			if t.Completed || t.IsSubtask() {
				continue
			}
			tasks = append(tasks, t)
		}

		classifier, err := a.NewClassifier(ctx)
		if err != nil {
			return err
		}
		res := classify.Batch(ctx, classifier, tasks, a.Classifier.Concurrency)

		dist := map[models.Context]int{}
		for _, c := range res.Contexts {
			dist[c]++
		}
		cached, err := a.Store.ClassificationCounts(ctx)
		if err != nil {
			return fmt.Errorf("count classifications: %w", err)
		}

		if isJSON() {
			return printJSON(map[string]any{
				"classifier": classifier.Name(),
				"tasks":      len(tasks),
				"contexts":   dist,
				"undefined":  res.Undefined,
				"cached":     cached,
			})
		}

		fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("◆ Classified %d tasks with %s", len(tasks), classifier.Name())))
		for _, c := range []models.Context{models.ContextA, models.ContextB, models.ContextUndefined} {
			fmt.Printf("  %-12s %d\n", ui.ContextTitle(c), dist[c])
		}
		if res.Undefined > 0 {
			fmt.Println(ui.StyleWarning.Render(fmt.Sprintf("⚠  %d tasks could not be placed and will not be ranked", res.Undefined)))
		}
		if isVerbose() {
			fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf("cache: %v", cached)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().String("filter", "", "Todoist filter query (defaults to todoist.filter)")
	classifyCmd.Flags().Bool("purge", false, "drop cached classifications first")
}
