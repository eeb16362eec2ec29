// Package classify assigns each task to one of the two life contexts.
package classify

import (
	"context"

	"github.com/josephgoksu/seiton/models"
)

// Classifier labels one task. Implementations never fail: anything they
// cannot decide, including backend errors, comes back as
// models.ContextUndefined.
type Classifier interface {
	Classify(ctx context.Context, content, description string) models.Context
}

// Func adapts a plain function to Classifier.
type Func func(ctx context.Context, content, description string) models.Context

// Classify calls f.
func (f Func) Classify(ctx context.Context, content, description string) models.Context {
	return f(ctx, content, description)
}

// Named is implemented by classifiers that report a name for the cache.
type Named interface {
	Name() string
}

func nameOf(c Classifier) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	return "custom"
}
