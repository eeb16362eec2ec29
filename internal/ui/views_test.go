package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/models"
	"github.com/stretchr/testify/assert"
)

func TestContextTitle(t *testing.T) {
	assert.Equal(t, "Context A", ContextTitle(models.ContextA))
	assert.Equal(t, "Undefined", ContextTitle(models.ContextUndefined))
}

func TestTaskTable(t *testing.T) {
	tasks := []models.Task{
		{ID: "6X7rM8997g3RQmvh", Content: "Ship release notes", Priority: models.TierUrgent,
			Deadline: &models.Deadline{Date: "2025-05-01"}},
		{ID: "2995104339", Content: "Book dentist", Priority: models.TierHigh},
	}

	out := TaskTable(tasks, 0)

	assert.Contains(t, out, "Ship release notes")
	assert.Contains(t, out, "deadline 2025-05-01")
	assert.Contains(t, out, "P1")
	assert.Contains(t, out, "P2")
	assert.Contains(t, out, "RQmvh")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
}

func TestTaskTable_Offset(t *testing.T) {
	out := TaskTable([]models.Task{{ID: "1", Content: "Overflowing", Priority: models.TierMedium}}, 24)
	assert.Contains(t, out, "25")
}

func TestHistoryTable_NewestFirst(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []ranking.Entry{
		{ChallengerID: "a", OpponentID: "b", Winner: ranking.WinnerChallenger, Action: "outcome", Timestamp: now.Add(-2 * time.Hour)},
		{ChallengerID: "c", OpponentID: "a", Winner: ranking.WinnerNotApplicable, Action: "cancel", Timestamp: now.Add(-5 * time.Minute)},
	}

	out := HistoryTable(entries, map[string]string{"a": "Write report"}, now)

	assert.Less(t, strings.Index(out, "5m ago"), strings.Index(out, "2h ago"))
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "not-applicable")
}

func TestRenderResult_Overflow(t *testing.T) {
	out := RenderResult(models.ContextA,
		[]models.Task{{ID: "1", Content: "Top", Priority: models.TierUrgent}},
		[]models.Task{{ID: "2", Content: "Spilled", Priority: models.TierMedium}},
		time.Time{})

	assert.Contains(t, out, "Context A ranking")
	assert.Contains(t, out, "Overflow (1)")
	assert.Contains(t, out, "Spilled")
	assert.NotContains(t, out, "Completed")
}

func TestRenderResult_Empty(t *testing.T) {
	assert.Contains(t, RenderResult(models.ContextB, nil, nil, time.Time{}), "No tasks were ranked.")
}

func TestProgressLine(t *testing.T) {
	assert.Equal(t, "3/24 ranked · 7 queued", ProgressLine(3, 24, 7, 0))
	assert.Equal(t, "24/24 ranked · 0 queued · 2 overflow", ProgressLine(24, 24, 0, 2))
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", FormatAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "15m ago", FormatAgo(now.Add(-15*time.Minute), now))
	assert.Equal(t, "30h ago", FormatAgo(now.Add(-30*time.Hour), now))
	assert.Equal(t, "Mar 1", FormatAgo(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), now))
}
