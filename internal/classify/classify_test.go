package classify

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/josephgoksu/seiton/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want models.Context
	}{
		{`{"context": "context-a"}`, models.ContextA},
		{"```json\n{\"context\": \"context-b\"}\n```", models.ContextB},
		{`Sure! {"context":"undefined"} hope that helps`, models.ContextUndefined},
		{"context-b", models.ContextB},
		{"\"Context-A\".", models.ContextA},
		{"I think it's work", models.ContextUndefined},
		{"", models.ContextUndefined},
		{`{"context": 3}`, models.ContextUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLabel(tt.in))
		})
	}
}

func TestLLMClassifier(t *testing.T) {
	chat := &fakeChat{reply: func(p string) (string, error) {
		if strings.Contains(p, "report") {
			return `{"context":"context-a"}`, nil
		}
		return `{"context":"context-b"}`, nil
	}}
	c := NewLLMClassifier(chat, map[models.Context]string{models.ContextA: "Office stuff"})
	ctx := context.Background()

	assert.Equal(t, models.ContextA, c.Classify(ctx, "Write report", ""))
	assert.Equal(t, models.ContextB, c.Classify(ctx, "Buy groceries", "milk"))

	require.Len(t, chat.last, 2)
	assert.Contains(t, chat.last[0].Content, "Office stuff")
	assert.Contains(t, chat.last[0].Content, "Personal:")
	assert.Contains(t, chat.last[1].Content, "Notes: milk")
}

func TestLLMClassifier_ErrorIsUndefined(t *testing.T) {
	chat := &fakeChat{reply: func(string) (string, error) { return "", errBackend }}
	c := NewLLMClassifier(chat, nil)
	assert.Equal(t, models.ContextUndefined, c.Classify(context.Background(), "x", ""))
}

func TestEmbeddingClassifier(t *testing.T) {
	emb := &fakeEmbedder{vector: keywordVector}
	c := NewEmbeddingClassifier(emb, map[models.Context]string{
		models.ContextA: "work",
		models.ContextB: "personal",
	}, 0)
	ctx := context.Background()

	assert.Equal(t, models.ContextA, c.Classify(ctx, "Quarterly report", ""))
	assert.Equal(t, models.ContextB, c.Classify(ctx, "groceries", ""))
	// Equidistant from both anchors.
	assert.Equal(t, models.ContextUndefined, c.Classify(ctx, "something", ""))

	// Anchors embedded once, plus one call per task.
	assert.Equal(t, int32(4), emb.calls.Load())
}

func TestEmbeddingClassifier_ErrorIsUndefined(t *testing.T) {
	emb := &fakeEmbedder{vector: keywordVector, err: errBackend}
	c := NewEmbeddingClassifier(emb, nil, 0.1)
	assert.Equal(t, models.ContextUndefined, c.Classify(context.Background(), "work", ""))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosine([]float64{0, 0}, []float64{1, 1}))
}

func TestCachedClassifier(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(_ context.Context, content, _ string) models.Context {
		calls.Add(1)
		if content == "unknown" {
			return models.ContextUndefined
		}
		return models.ContextB
	})
	cache := newMemCache()
	c := NewCachedClassifier(inner, cache)
	ctx := context.Background()

	task := models.Task{ID: "1", Content: "Call mom"}
	assert.Equal(t, models.ContextB, c.ClassifyTask(ctx, task))
	assert.Equal(t, models.ContextB, c.ClassifyTask(ctx, task))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "custom", cache.rows["1"].Classifier)

	// Edited content invalidates the entry.
	task.Content = "Call dad"
	c.ClassifyTask(ctx, task)
	assert.Equal(t, int32(2), calls.Load())

	// Undefined answers are not cached.
	unknown := models.Task{ID: "2", Content: "unknown"}
	c.ClassifyTask(ctx, unknown)
	c.ClassifyTask(ctx, unknown)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, 2, cache.puts)
}

func TestCachedClassifier_ReadErrorFallsThrough(t *testing.T) {
	cache := newMemCache()
	cache.readErr = errBackend
	c := NewCachedClassifier(Func(func(context.Context, string, string) models.Context {
		return models.ContextA
	}), cache)

	assert.Equal(t, models.ContextA, c.ClassifyTask(context.Background(), models.Task{ID: "1", Content: "x"}))
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("a", "b"), ContentHash("a", "b"))
	assert.NotEqual(t, ContentHash("ab", ""), ContentHash("a", "b"))
	assert.Len(t, ContentHash("", ""), 64)
}

func TestBatch(t *testing.T) {
	var inFlight, peak atomic.Int32
	c := Func(func(_ context.Context, content, _ string) models.Context {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		switch {
		case strings.HasPrefix(content, "a"):
			return models.ContextA
		case strings.HasPrefix(content, "b"):
			return models.ContextB
		default:
			return models.ContextUndefined
		}
	})

	var tasks []models.Task
	for i := 0; i < 12; i++ {
		prefix := []string{"a", "b", "x"}[i%3]
		tasks = append(tasks, models.Task{ID: fmt.Sprint(i), Content: prefix + "-task"})
	}

	res := Batch(context.Background(), c, tasks, 3)
	require.Len(t, res.Contexts, 12)
	assert.Equal(t, 4, res.Undefined)
	assert.Equal(t, models.ContextA, res.Contexts["0"])
	assert.Equal(t, models.ContextB, res.Contexts["1"])
	assert.Equal(t, models.ContextUndefined, res.Contexts["2"])
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestBatch_UsesTaskClassifier(t *testing.T) {
	cache := newMemCache()
	c := NewCachedClassifier(Func(func(context.Context, string, string) models.Context {
		return models.ContextA
	}), cache)

	res := Batch(context.Background(), c, []models.Task{{ID: "1", Content: "x"}, {ID: "2", Content: "y"}}, 0)
	assert.Equal(t, 0, res.Undefined)
	assert.Equal(t, 2, cache.puts)
}
