package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/models"
)

// maxTaskWidth caps the task column so tables fit an 80 column terminal.
const maxTaskWidth = 52

// TaskTable lists tasks with their position, tier and due information.
// Positions start at offset+1.
func TaskTable(tasks []models.Task, offset int) string {
	t := &Table{Headers: []string{"#", "Tier", "Task", "Due", "ID"}}
	for i, task := range tasks {
		style := TierStyle(task.Priority)
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", offset+i+1),
			task.Priority.Label(),
			Truncate(task.Content, maxTaskWidth),
			FormatDue(task),
			TruncateID(task.ID),
		})
		t.Styles = append(t.Styles, []*lipgloss.Style{nil, &style})
	}
	return t.Render()
}

// HistoryTable lists comparison log entries, newest first. titles maps task
// ids to their content where known.
func HistoryTable(entries []ranking.Entry, titles map[string]string, now time.Time) string {
	t := &Table{Headers: []string{"When", "Challenger", "Opponent", "Winner", "Action"}, MaxWidth: 32}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		t.Rows = append(t.Rows, []string{
			FormatAgo(e.Timestamp, now),
			taskLabel(e.ChallengerID, titles),
			taskLabel(e.OpponentID, titles),
			string(e.Winner),
			e.Action,
		})
	}
	return t.Render()
}

func taskLabel(id string, titles map[string]string) string {
	if title, ok := titles[id]; ok && title != "" {
		return title
	}
	return TruncateID(id)
}

// RenderResult draws the finished tournament.
func RenderResult(mode models.Context, ranked, overflow []models.Task, completedAt time.Time) string {
	var s strings.Builder
	s.WriteString(StyleHeader.Render("◆ "+ContextTitle(mode)+" ranking") + "\n")
	if !completedAt.IsZero() {
		s.WriteString(StyleSubtle.Render("Completed "+completedAt.Local().Format("Mon Jan 2 15:04")) + "\n")
	}
	s.WriteString("\n")
	if len(ranked) == 0 {
		s.WriteString(StyleSubtle.Render("No tasks were ranked.") + "\n")
	} else {
		s.WriteString(TaskTable(ranked, 0))
	}
	if len(overflow) > 0 {
		s.WriteString("\n" + StyleTitle.Render(fmt.Sprintf("Overflow (%d)", len(overflow))) + "\n")
		s.WriteString(TaskTable(overflow, len(ranked)))
	}
	return s.String()
}

// ProgressLine summarises a session in one line.
func ProgressLine(ranked, capacity, queued, overflow int) string {
	parts := []string{fmt.Sprintf("%d/%d ranked", ranked, capacity), fmt.Sprintf("%d queued", queued)}
	if overflow > 0 {
		parts = append(parts, fmt.Sprintf("%d overflow", overflow))
	}
	return strings.Join(parts, " · ")
}
