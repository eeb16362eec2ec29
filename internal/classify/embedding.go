package classify

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/josephgoksu/seiton/internal/config"
	"github.com/josephgoksu/seiton/models"
)

// DefaultMargin is the minimum similarity gap between the two contexts.
const DefaultMargin = 0.02

// EmbeddingClassifier compares a task embedding against one anchor
// embedding per context.
type EmbeddingClassifier struct {
	embedder embedding.Embedder
	anchors  [2]string
	margin   float64

	mu      sync.Mutex
	vectors [][]float64
}

// NewEmbeddingClassifier builds a classifier. A non-positive margin uses
// DefaultMargin.
func NewEmbeddingClassifier(e embedding.Embedder, descriptions map[models.Context]string, margin float64) *EmbeddingClassifier {
	if margin <= 0 {
		margin = DefaultMargin
	}
	a := descriptions[models.ContextA]
	if a == "" {
		a = config.DefaultContextADescription
	}
	b := descriptions[models.ContextB]
	if b == "" {
		b = config.DefaultContextBDescription
	}
	return &EmbeddingClassifier{embedder: e, anchors: [2]string{a, b}, margin: margin}
}

// Name implements Named.
func (c *EmbeddingClassifier) Name() string { return "embedding" }

// Classify implements Classifier.
func (c *EmbeddingClassifier) Classify(ctx context.Context, content, description string) models.Context {
	anchors, err := c.anchorVectors(ctx)
	if err != nil {
		slog.Debug("classify: embed anchors failed", "error", err)
		return models.ContextUndefined
	}

	text := strings.TrimSpace(content + "\n" + description)
	vecs, err := c.embedder.EmbedStrings(ctx, []string{text})
	if err != nil || len(vecs) != 1 {
		slog.Debug("classify: embed task failed", "error", err)
		return models.ContextUndefined
	}

	simA := cosine(vecs[0], anchors[0])
	simB := cosine(vecs[0], anchors[1])
	switch {
	case simA-simB >= c.margin:
		return models.ContextA
	case simB-simA >= c.margin:
		return models.ContextB
	default:
		return models.ContextUndefined
	}
}

// anchorVectors embeds the context descriptions once. A failure is not
// cached so the next call retries.
func (c *EmbeddingClassifier) anchorVectors(ctx context.Context) ([][]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vectors != nil {
		return c.vectors, nil
	}
	vecs, err := c.embedder.EmbedStrings(ctx, c.anchors[:])
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(c.anchors) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d anchors", len(vecs), len(c.anchors))
	}
	c.vectors = vecs
	return vecs, nil
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
