package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/josephgoksu/seiton/internal/classify"
	"github.com/josephgoksu/seiton/internal/policy"
	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/models"
)

// TaskLister fetches active tasks. todoist.Client implements it.
type TaskLister interface {
	ListTasks(ctx context.Context, filter string) ([]models.Task, error)
}

// Eligibility keeps the tasks allowed into a session. policy.Engine
// implements it.
type Eligibility interface {
	Filter(ctx context.Context, tasks []models.Task, mode models.Context) ([]models.Task, []policy.Rejection, error)
}

// SessionLoader prepares the queue of a fresh tournament: fetch, classify,
// filter by policy, then sort.
type SessionLoader struct {
	Tasks       TaskLister
	Classifier  classify.Classifier
	Policy      Eligibility
	Filter      string
	Concurrency int
}

var _ ranking.Loader = (*SessionLoader)(nil)

// Load implements ranking.Loader.
func (l *SessionLoader) Load(ctx context.Context, mode models.Context) (ranking.Candidates, error) {
	tasks, err := l.Tasks.ListTasks(ctx, l.Filter)
	if err != nil {
		return ranking.Candidates{}, fmt.Errorf("fetch tasks: %w", err)
	}

	// Subtasks and completed tasks never enter a session, so they are not
	// worth a classifier call.
	pending := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsSubtask() || t.Completed {
			continue
		}
		pending = append(pending, t)
	}

	var warnings []string
	batch := classify.Batch(ctx, l.Classifier, pending, l.Concurrency)
	for i := range pending {
		pending[i].Context = batch.Contexts[pending[i].ID]
	}
	if batch.Undefined > 0 {
		slog.Warn("some tasks could not be classified", "count", batch.Undefined, "total", len(pending))
		warnings = append(warnings, fmt.Sprintf("%d of %d tasks could not be classified and were left out", batch.Undefined, len(pending)))
	}

	eligible := pending
	if l.Policy != nil {
		var rejected []policy.Rejection
		eligible, rejected, err = l.Policy.Filter(ctx, pending, mode)
		if err != nil {
			return ranking.Candidates{}, fmt.Errorf("apply policy: %w", err)
		}
		for _, r := range rejected {
			slog.Debug("task not eligible", "task", r.Task.ID, "violations", r.Violations)
		}
	} else {
		eligible = keepMode(pending, mode)
	}

	ranking.SortForTournament(eligible)
	slog.Debug("session loaded", "mode", mode, "fetched", len(tasks), "eligible", len(eligible))
	return ranking.Candidates{Tasks: eligible, Warnings: warnings}, nil
}

func keepMode(tasks []models.Task, mode models.Context) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Context == mode {
			out = append(out, t)
		}
	}
	return out
}
