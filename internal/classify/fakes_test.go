package classify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/josephgoksu/seiton/internal/memory"
)

// fakeChat answers with reply(userPrompt).
type fakeChat struct {
	reply func(prompt string) (string, error)
	calls atomic.Int32
	last  []*schema.Message
	mu    sync.Mutex
}

func (f *fakeChat) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = in
	f.mu.Unlock()
	out, err := f.reply(in[len(in)-1].Content)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(out, nil), nil
}

func (f *fakeChat) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// fakeEmbedder maps text to a vector by keyword.
type fakeEmbedder struct {
	vector func(text string) []float64
	err    error
	calls  atomic.Int32
}

func (f *fakeEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

func keywordVector(text string) []float64 {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "work") || strings.Contains(lower, "report"):
		return []float64{1, 0.1}
	case strings.Contains(lower, "personal") || strings.Contains(lower, "groceries"):
		return []float64{0.1, 1}
	default:
		return []float64{1, 1}
	}
}

type memCache struct {
	mu      sync.Mutex
	rows    map[string]memory.Classification
	puts    int
	readErr error
}

func newMemCache() *memCache {
	return &memCache{rows: make(map[string]memory.Classification)}
}

func (m *memCache) GetClassification(_ context.Context, id, hash string) (memory.Classification, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return memory.Classification{}, false, m.readErr
	}
	c, ok := m.rows[id]
	if !ok || c.ContentHash != hash {
		return memory.Classification{}, false, nil
	}
	return c, true, nil
}

func (m *memCache) PutClassification(_ context.Context, c memory.Classification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.rows[c.TaskID] = c
	return nil
}

var errBackend = errors.New("backend down")
