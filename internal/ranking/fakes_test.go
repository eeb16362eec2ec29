package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/seiton/models"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu         sync.Mutex
	priorities map[string]models.Tier
	completed  map[string]bool
	setCalls   int

	completeErr error
	reopenErr   error
	setErr      map[string]error
	// completeGate, when set, blocks Complete until it is closed.
	completeGate chan struct{}
	// completeStarted is signalled once Complete has been entered.
	completeStarted chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		priorities: make(map[string]models.Tier),
		completed:  make(map[string]bool),
		setErr:     make(map[string]error),
	}
}

func (f *fakeSource) SetPriority(_ context.Context, id string, tier models.Tier) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if err := f.setErr[id]; err != nil {
		return models.Task{}, err
	}
	f.priorities[id] = tier
	return models.Task{ID: id, Priority: tier}, nil
}

func (f *fakeSource) Complete(_ context.Context, id string) error {
	if f.completeStarted != nil {
		close(f.completeStarted)
	}
	if f.completeGate != nil {
		<-f.completeGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed[id] = true
	return nil
}

func (f *fakeSource) Reopen(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reopenErr != nil {
		return f.reopenErr
	}
	delete(f.completed, id)
	return nil
}

func (f *fakeSource) tier(id string) models.Tier {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.priorities[id]
}

type memStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	applyErr error
	applies  int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Apply(_ context.Context, puts map[string][]byte, deletes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applies++
	if s.applyErr != nil {
		return s.applyErr
	}
	for _, k := range deletes {
		delete(s.data, k)
	}
	for k, v := range puts {
		s.data[k] = v
	}
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

func task(id string) models.Task {
	return models.Task{ID: id, Content: "Task " + id, Priority: models.TierLow}
}

func tasks(ids ...string) []models.Task {
	out := make([]models.Task, len(ids))
	for i, id := range ids {
		out[i] = task(id)
	}
	return out
}

func idsOf(list []models.Task) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func staticLoader(list []models.Task) Loader {
	return LoaderFunc(func(context.Context, models.Context) (Candidates, error) {
		return Candidates{Tasks: models.CloneTasks(list)}, nil
	})
}

type testEnv struct {
	engine *Engine
	source *fakeSource
	store  *memStore
}

func newTestEnv(t *testing.T, capacity, band int, list []models.Task) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, capacity, band, list, newMemStore())
}

func newTestEnvWithStore(t *testing.T, capacity, band int, list []models.Task, store *memStore) *testEnv {
	t.Helper()
	source := newFakeSource()
	var seq int
	engine, err := NewEngine(Config{
		Mode:       models.ContextA,
		Capacity:   capacity,
		UrgentBand: band,
		Source:     source,
		Store:      store,
		Loader:     staticLoader(list),
		Now:        func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			seq++
			return fmt.Sprintf("entry-%d", seq)
		},
	})
	require.NoError(t, err)
	return &testEnv{engine: engine, source: source, store: store}
}

var errBoom = errors.New("boom")
