/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/internal/ui"
	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/cobra"
)

type resultTask struct {
	Rank    int    `json:"rank" yaml:"rank"`
	ID      string `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
	Tier    string `json:"tier" yaml:"tier"`
	Due     string `json:"due,omitempty" yaml:"due,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
}

type resultDoc struct {
	Mode        models.Context `json:"mode" yaml:"mode"`
	CompletedAt time.Time      `json:"completedAt" yaml:"completedAt"`
	Ranked      []resultTask   `json:"ranked" yaml:"ranked"`
	Overflow    []resultTask   `json:"overflow" yaml:"overflow"`
}

func newResultDoc(r *ranking.Result) resultDoc {
	doc := resultDoc{Mode: r.Mode, CompletedAt: r.CompletedAt}
	doc.Ranked = toResultTasks(r.Ranked, 0)
	doc.Overflow = toResultTasks(r.Overflow, len(r.Ranked))
	return doc
}

func toResultTasks(tasks []models.Task, offset int) []resultTask {
	out := make([]resultTask, 0, len(tasks))
	for i, t := range tasks {
		out = append(out, resultTask{
			Rank:    offset + i + 1,
			ID:      t.ID,
			Content: t.Content,
			Tier:    t.Priority.Label(),
			Due:     ui.FormatDue(t),
			URL:     t.URL,
		})
	}
	return out
}

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Print the last completed ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		format, _ := cmd.Flags().GetString("format")
		mode, err := models.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		if isJSON() {
			format = "json"
		}
		switch format {
		case "table", "json", "yaml":
		default:
			return fmt.Errorf("unknown format %q (supported: table, json, yaml)", format)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		res, ok, err := ranking.LoadResult(cmd.Context(), a.Store, mode)
		if err != nil {
			return fmt.Errorf("load result: %w", err)
		}
		if !ok {
			return fmt.Errorf("no completed ranking for %s yet; run `seiton rank %s`", mode, mode)
		}

		switch format {
		case "json":
			return printJSON(newResultDoc(res))
		case "yaml":
			return printYAML(newResultDoc(res))
		}
		fmt.Print(ui.RenderResult(res.Mode, res.Ranked, res.Overflow, res.CompletedAt))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resultCmd)
	resultCmd.Flags().String("mode", string(models.ContextA), "mode to print (context-a or context-b)")
	resultCmd.Flags().String("format", "table", "output format: table, json or yaml")
}
