package app

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/josephgoksu/seiton/internal/classify"
	"github.com/josephgoksu/seiton/internal/policy"
	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	tasks  []models.Task
	err    error
	filter string
}

func (f *fakeLister) ListTasks(_ context.Context, filter string) ([]models.Task, error) {
	f.filter = filter
	return f.tasks, f.err
}

// prefixClassifier labels "w:" tasks context-a and "h:" tasks context-b.
func prefixClassifier(calls *atomic.Int32) classify.Classifier {
	return classify.Func(func(_ context.Context, content, _ string) models.Context {
		calls.Add(1)
		switch {
		case strings.HasPrefix(content, "w:"):
			return models.ContextA
		case strings.HasPrefix(content, "h:"):
			return models.ContextB
		default:
			return models.ContextUndefined
		}
	})
}

func newPolicy(t *testing.T) *policy.Engine {
	t.Helper()
	e, err := policy.NewEngine(context.Background(), policy.EngineConfig{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)
	return e
}

func TestSessionLoader_Load(t *testing.T) {
	lister := &fakeLister{tasks: []models.Task{
		{ID: "1", Content: "w: low", Priority: models.TierLow},
		{ID: "2", Content: "w: urgent", Priority: models.TierUrgent},
		{ID: "3", Content: "h: home", Priority: models.TierUrgent},
		{ID: "4", Content: "w: child", Priority: models.TierUrgent, ParentID: "2"},
		{ID: "5", Content: "??", Priority: models.TierHigh},
		{ID: "6", Content: "w: deadline", Priority: models.TierLow, Deadline: &models.Deadline{Date: "2026-01-01"}},
	}}
	var calls atomic.Int32
	loader := &SessionLoader{
		Tasks:       lister,
		Classifier:  prefixClassifier(&calls),
		Policy:      newPolicy(t),
		Filter:      "today",
		Concurrency: 2,
	}

	got, err := loader.Load(context.Background(), models.ContextA)
	require.NoError(t, err)

	assert.Equal(t, "today", lister.filter)
	assert.Equal(t, []string{"2", "6", "1"}, ids(got.Tasks))
	for _, task := range got.Tasks {
		assert.Equal(t, models.ContextA, task.Context)
	}
	// The subtask is skipped before classification.
	assert.Equal(t, int32(5), calls.Load())
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "1 of 5 tasks could not be classified and were left out", got.Warnings[0])
}

func TestSessionLoader_NoPolicyFallsBackToMode(t *testing.T) {
	var calls atomic.Int32
	loader := &SessionLoader{
		Tasks: &fakeLister{tasks: []models.Task{
			{ID: "1", Content: "w: a", Priority: models.TierLow},
			{ID: "2", Content: "h: b", Priority: models.TierLow},
		}},
		Classifier: prefixClassifier(&calls),
	}

	got, err := loader.Load(context.Background(), models.ContextB)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(got.Tasks))
	assert.Empty(t, got.Warnings)
}

func TestSessionLoader_FetchError(t *testing.T) {
	var calls atomic.Int32
	loader := &SessionLoader{
		Tasks:      &fakeLister{err: errors.New("503")},
		Classifier: prefixClassifier(&calls),
	}

	_, err := loader.Load(context.Background(), models.ContextA)
	assert.ErrorContains(t, err, "fetch tasks")
	assert.Zero(t, calls.Load())
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
