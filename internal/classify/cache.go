package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/josephgoksu/seiton/internal/memory"
	"github.com/josephgoksu/seiton/models"
)

// Cache stores classifier answers keyed by task id and content hash.
// memory.SQLiteStore implements it.
type Cache interface {
	GetClassification(ctx context.Context, taskID, contentHash string) (memory.Classification, bool, error)
	PutClassification(ctx context.Context, c memory.Classification) error
}

// CachedClassifier answers from the cache when the task text is unchanged.
// Undefined answers are not cached so a later run can decide them.
type CachedClassifier struct {
	inner Classifier
	cache Cache
}

// NewCachedClassifier wraps inner with cache.
func NewCachedClassifier(inner Classifier, cache Cache) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache}
}

// Name implements Named.
func (c *CachedClassifier) Name() string { return nameOf(c.inner) }

// Classify implements Classifier without a task id, so it never hits the
// cache.
func (c *CachedClassifier) Classify(ctx context.Context, content, description string) models.Context {
	return c.inner.Classify(ctx, content, description)
}

// ClassifyTask classifies t, consulting the cache first.
func (c *CachedClassifier) ClassifyTask(ctx context.Context, t models.Task) models.Context {
	hash := ContentHash(t.Content, t.Description)

	cached, ok, err := c.cache.GetClassification(ctx, t.ID, hash)
	if err != nil {
		slog.Debug("classify: cache read failed", "task", t.ID, "error", err)
	}
	if ok {
		return models.ParseContext(cached.Context)
	}

	label := c.inner.Classify(ctx, t.Content, t.Description)
	if label == models.ContextUndefined {
		return label
	}
	if err := c.cache.PutClassification(ctx, memory.Classification{
		TaskID:      t.ID,
		ContentHash: hash,
		Context:     string(label),
		Classifier:  c.Name(),
	}); err != nil {
		slog.Debug("classify: cache write failed", "task", t.ID, "error", err)
	}
	return label
}

// ContentHash fingerprints the text a classification depends on.
func ContentHash(content, description string) string {
	sum := sha256.Sum256([]byte(content + "\x00" + description))
	return hex.EncodeToString(sum[:])
}
