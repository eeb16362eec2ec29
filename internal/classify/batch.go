package classify

import (
	"context"

	"github.com/josephgoksu/seiton/models"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight classifier requests.
const DefaultConcurrency = 8

// TaskClassifier is implemented by classifiers that use the task id, such
// as CachedClassifier.
type TaskClassifier interface {
	ClassifyTask(ctx context.Context, t models.Task) models.Context
}

// BatchResult holds the outcome of a batch classification.
type BatchResult struct {
	Contexts  map[string]models.Context
	Undefined int
}

// Batch classifies tasks concurrently with at most limit requests in
// flight. Individual failures are already folded into ContextUndefined by
// the classifier, so the batch always completes.
func Batch(ctx context.Context, c Classifier, tasks []models.Task, limit int) BatchResult {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	labels := make([]models.Context, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range tasks {
		g.Go(func() error {
			if tc, ok := c.(TaskClassifier); ok {
				labels[i] = tc.ClassifyTask(gctx, tasks[i])
			} else {
				labels[i] = c.Classify(gctx, tasks[i].Content, tasks[i].Description)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{Contexts: make(map[string]models.Context, len(tasks))}
	for i, t := range tasks {
		label := labels[i]
		if label == "" {
			label = models.ContextUndefined
		}
		if label == models.ContextUndefined {
			res.Undefined++
		}
		res.Contexts[t.ID] = label
	}
	return res
}
