// Package ranking runs the pairwise tournament that orders tasks into a
// bounded ranked list and derives priority tiers from the result.
package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/seiton/models"
)

// TaskSource is the task tracker the engine writes decisions back to.
type TaskSource interface {
	SetPriority(ctx context.Context, id string, tier models.Tier) (models.Task, error)
	Complete(ctx context.Context, id string) error
	Reopen(ctx context.Context, id string) error
}

// Candidates is what a Loader hands to the engine: tasks in queue order
// and any non-fatal warnings raised while preparing them.
type Candidates struct {
	Tasks    []models.Task
	Warnings []string
}

// Loader fetches the tasks for a fresh tournament.
type Loader interface {
	Load(ctx context.Context, mode models.Context) (Candidates, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, mode models.Context) (Candidates, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, mode models.Context) (Candidates, error) {
	return f(ctx, mode)
}

// Config holds the collaborators and limits of an Engine.
type Config struct {
	Mode         models.Context
	Capacity     int
	UrgentBand   int
	HistoryLimit int

	Source TaskSource
	Store  Store
	Loader Loader

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Engine is the tournament state machine for one mode.
//
// Mutating calls (Start, ApplyOutcome, Cancel, Undo, Reset) are serialized:
// a call made while another is running fails fast with ErrBusy. View and
// History may be called at any time.
type Engine struct {
	mode         models.Context
	capacity     int
	band         int
	historyLimit int
	source       TaskSource
	store        Store
	loader       Loader
	now          func() time.Time
	newID        func() string

	op sync.Mutex

	mu         sync.RWMutex
	state      State
	queue      []models.Task
	ranked     []models.Task
	overflow   []models.Task
	challenger *models.Task
	opponent   int
	snapshot   *Snapshot
	history    *History
	observed   map[string]models.Tier
	observers  []Observer
}

// NewEngine validates cfg and returns an idle engine.
func NewEngine(cfg Config) (*Engine, error) {
	if _, err := models.ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.Source == nil || cfg.Store == nil || cfg.Loader == nil {
		return nil, errors.New("ranking engine needs a task source, a store and a loader")
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.UrgentBand == 0 {
		cfg.UrgentBand = DefaultUrgentBand
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	return &Engine{
		mode:         cfg.Mode,
		capacity:     cfg.Capacity,
		band:         clampBand(cfg.UrgentBand, cfg.Capacity),
		historyLimit: cfg.HistoryLimit,
		source:       cfg.Source,
		store:        cfg.Store,
		loader:       cfg.Loader,
		now:          cfg.Now,
		newID:        cfg.NewID,
		state:        StateIdle,
		opponent:     noOpponent,
		history:      NewHistory(cfg.HistoryLimit),
		observed:     make(map[string]models.Tier),
	}, nil
}

// Mode returns the context this engine ranks.
func (e *Engine) Mode() models.Context { return e.mode }

// Subscribe registers an observer for committed transitions.
func (e *Engine) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Start restores the persisted session for the mode or, when there is none,
// loads fresh candidates. It then runs seed rounds until a comparison is
// needed or the tournament is over.
func (e *Engine) Start(ctx context.Context) error {
	if !e.op.TryLock() {
		return ErrBusy
	}
	defer e.op.Unlock()

	e.setState(StateLoading)

	entries, err := LoadHistory(ctx, e.store, e.mode)
	if err != nil {
		slog.Warn("load comparison history", "mode", e.mode, "error", err)
	}
	sess, restored, err := LoadSession(ctx, e.store, e.mode)
	if err != nil {
		slog.Warn("restore ranking session", "mode", e.mode, "error", err)
		restored = false
	}

	e.mu.Lock()
	e.history.replace(entries)
	e.snapshot = nil
	if restored {
		e.restoreSessionLocked(sess)
	}
	e.mu.Unlock()

	var warnings []string
	if restored {
		slog.Debug("restored ranking session", "mode", e.mode, "queue", len(sess.Queue), "ranked", len(sess.Ranked))
	} else {
		warnings, err = e.loadFresh(ctx)
		if err != nil {
			return err
		}
	}

	e.mu.Lock()
	e.advanceLocked()
	e.mu.Unlock()

	e.commit(ctx, EventLoaded, warnings)
	return nil
}

// ApplyOutcome records the user's decision for the current comparison.
func (e *Engine) ApplyOutcome(ctx context.Context, winner Winner) error {
	if winner != WinnerChallenger && winner != WinnerOpponent {
		return ErrInvalidWinner
	}
	if !e.op.TryLock() {
		return ErrBusy
	}
	defer e.op.Unlock()

	e.mu.Lock()
	if !e.comparingLocked() {
		e.mu.Unlock()
		return ErrNotComparing
	}
	e.snapshot = e.snapshotLocked("")
	entry := e.applyLocked(winner)
	e.history.Append(entry)
	e.advanceLocked()
	e.mu.Unlock()

	slog.Debug("comparison applied", "mode", e.mode, "winner", winner, "challenger", entry.ChallengerID, "opponent", entry.OpponentID)
	e.commit(ctx, EventOutcome, nil)
	return nil
}

// Cancel closes the challenger or the current opponent in the task source
// and drops it from the tournament. Nothing changes if the close fails.
func (e *Engine) Cancel(ctx context.Context, taskID string) error {
	if !e.op.TryLock() {
		return ErrBusy
	}
	defer e.op.Unlock()

	e.mu.RLock()
	if !e.comparingLocked() {
		e.mu.RUnlock()
		return ErrNotComparing
	}
	challenger := *e.challenger
	opponent := e.ranked[e.opponent]
	if taskID != challenger.ID && taskID != opponent.ID {
		e.mu.RUnlock()
		return ErrNotInComparison
	}
	snap := e.snapshotLocked(taskID)
	e.mu.RUnlock()

	if err := e.source.Complete(ctx, taskID); err != nil {
		return fmt.Errorf("complete task %s: %w", taskID, err)
	}

	e.mu.Lock()
	e.snapshot = snap
	role, content := "challenger", challenger.Content
	if taskID == challenger.ID {
		e.queue = removeID(e.queue, taskID)
		e.ranked = removeID(e.ranked, taskID)
		e.overflow = removeID(e.overflow, taskID)
		e.challenger = nil
		e.opponent = noOpponent
	} else {
		role, content = "opponent", opponent.Content
		k := e.opponent
		e.ranked = removeID(e.ranked, taskID)
		e.reclampLocked(k)
	}
	delete(e.observed, taskID)
	e.history.Append(Entry{
		ID:           e.newID(),
		ChallengerID: challenger.ID,
		OpponentID:   opponent.ID,
		Winner:       WinnerNotApplicable,
		Action:       fmt.Sprintf("cancelled %s %q", role, content),
		Timestamp:    e.now(),
	})
	e.advanceLocked()
	e.mu.Unlock()

	slog.Debug("task cancelled", "mode", e.mode, "task", taskID, "role", role)
	e.commit(ctx, EventCancelled, nil)
	return nil
}

// Undo restores the state captured before the last outcome or cancel. A
// cancelled task is reopened first; if that fails the undo is abandoned
// and the snapshot kept.
func (e *Engine) Undo(ctx context.Context) error {
	if !e.op.TryLock() {
		return ErrBusy
	}
	defer e.op.Unlock()

	e.mu.RLock()
	snap := e.snapshot
	e.mu.RUnlock()
	if snap == nil {
		return ErrNoUndo
	}

	if snap.CancelledID != "" {
		if err := e.source.Reopen(ctx, snap.CancelledID); err != nil {
			return fmt.Errorf("reopen task %s: %w", snap.CancelledID, err)
		}
	}

	e.mu.Lock()
	e.queue = snap.Queue
	e.ranked = snap.Ranked
	e.overflow = snap.Overflow
	e.challenger = snap.Challenger
	e.opponent = snap.OpponentIndex
	e.snapshot = nil
	if snap.CancelledID != "" {
		if t, ok := e.findLocked(snap.CancelledID); ok {
			e.observed[t.ID] = t.Priority
		}
	}
	e.state = StateComparing
	e.advanceLocked()
	e.mu.Unlock()

	slog.Debug("undo applied", "mode", e.mode, "reopened", snap.CancelledID)
	e.commit(ctx, EventUndone, nil)
	return nil
}

// Reset forgets the session, the last result and the comparison log for the
// mode, then reloads candidates from scratch.
func (e *Engine) Reset(ctx context.Context) error {
	if !e.op.TryLock() {
		return ErrBusy
	}
	defer e.op.Unlock()

	e.mu.Lock()
	e.history = NewHistory(e.historyLimit)
	e.snapshot = nil
	e.queue, e.ranked, e.overflow = nil, nil, nil
	e.challenger = nil
	e.opponent = noOpponent
	e.state = StateLoading
	e.mu.Unlock()

	keys := []string{SessionKey(e.mode), ResultKey(e.mode), HistoryKey(e.mode)}
	if err := e.store.Apply(ctx, nil, keys); err != nil {
		slog.Warn("clear persisted ranking", "mode", e.mode, "error", err)
	}

	warnings, err := e.loadFresh(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.advanceLocked()
	e.mu.Unlock()

	e.commit(ctx, EventReset, warnings)
	return nil
}

// View returns a copy of the current state.
func (e *Engine) View() View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.viewLocked()
}

// History returns the comparison log, oldest first.
func (e *Engine) History() []Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Entries()
}

func (e *Engine) viewLocked() View {
	v := View{
		Mode:          e.mode,
		State:         e.state,
		Capacity:      e.capacity,
		Queue:         cloneList(e.queue),
		Ranked:        cloneList(e.ranked),
		Overflow:      cloneList(e.overflow),
		Challenger:    cloneTaskPtr(e.challenger),
		OpponentIndex: noOpponent,
		CanUndo:       e.snapshot != nil,
	}
	if e.comparingLocked() {
		opp := e.ranked[e.opponent].Clone()
		v.Opponent = &opp
		v.OpponentIndex = e.opponent
		if h, ok := e.history.Lookup(e.challenger.ID, opp.ID); ok {
			v.Hint = &h
		}
	}
	return v
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) comparingLocked() bool {
	return e.state == StateComparing && e.challenger != nil &&
		e.opponent >= 0 && e.opponent < len(e.ranked)
}

func (e *Engine) loadFresh(ctx context.Context) ([]string, error) {
	cands, err := e.loader.Load(ctx, e.mode)
	if err != nil {
		e.setState(StateIdle)
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = dedupe(models.CloneTasks(cands.Tasks), nil)
	e.ranked, e.overflow = nil, nil
	e.challenger = nil
	e.opponent = noOpponent
	e.observed = make(map[string]models.Tier, len(e.queue))
	for _, t := range e.queue {
		e.observed[t.ID] = t.Priority
	}
	slog.Debug("loaded tournament candidates", "mode", e.mode, "count", len(e.queue), "warnings", len(cands.Warnings))
	return cands.Warnings, nil
}

func (e *Engine) restoreSessionLocked(s *Session) {
	e.queue = s.Queue
	e.ranked = s.Ranked
	e.overflow = s.Overflow
	e.challenger = s.Challenger
	e.opponent = s.OpponentIndex
	e.observed = make(map[string]models.Tier)
	for id, tier := range s.Tiers {
		e.observed[id] = tier
	}
	e.normalizeLocked()
}

// normalizeLocked repairs a restored state so that every id appears once
// and the ranked list fits its capacity.
func (e *Engine) normalizeLocked() {
	seen := make(map[string]bool)
	e.ranked = dedupe(e.ranked, seen)
	e.overflow = dedupe(e.overflow, seen)
	if e.challenger != nil && indexOf(e.ranked, e.challenger.ID) < 0 {
		if seen[e.challenger.ID] {
			e.challenger = nil
			e.opponent = noOpponent
		} else {
			seen[e.challenger.ID] = true
		}
	}
	e.queue = dedupe(e.queue, seen)
	e.spillLocked()
}

// advanceLocked runs rounds until the engine needs a decision or is done.
func (e *Engine) advanceLocked() {
	for !e.roundLocked() {
	}
}

// roundLocked runs one round. It reports true once the engine is waiting
// for the user or has reached the result.
func (e *Engine) roundLocked() bool {
	if e.challenger != nil {
		pos := indexOf(e.ranked, e.challenger.ID)
		switch {
		case len(e.ranked) == 0:
			e.ranked = append(e.ranked, *e.challenger)
			e.challenger = nil
			e.opponent = noOpponent
			return false
		case pos == 0:
			e.challenger = nil
			e.opponent = noOpponent
			return false
		}
		limit := len(e.ranked) - 1
		if pos > 0 {
			limit = pos - 1
		}
		if e.opponent < 0 || e.opponent > limit {
			if pos > 0 {
				e.opponent = limit
			} else {
				e.opponent = min(e.capacity-1, limit)
			}
		}
		e.state = StateComparing
		return true
	}

	if len(e.queue) == 0 {
		e.opponent = noOpponent
		e.state = StateResult
		return true
	}

	head := e.queue[0]
	e.queue = e.queue[1:]
	if len(e.ranked) == 0 {
		e.ranked = append(e.ranked, head)
		slog.Debug("seeded ranked list", "mode", e.mode, "task", head.ID)
		return false
	}

	e.challenger = &head
	e.opponent = min(e.capacity-1, len(e.ranked)-1)
	e.state = StateComparing
	return true
}

func (e *Engine) applyLocked(winner Winner) Entry {
	ch := *e.challenger
	idx := e.opponent
	opp := e.ranked[idx]

	e.ranked = removeID(e.ranked, ch.ID)
	e.overflow = removeID(e.overflow, ch.ID)

	var action string
	if winner == WinnerChallenger {
		e.ranked = insertAt(e.ranked, idx, ch)
		e.spillLocked()
		if idx-1 >= 0 {
			e.challenger = &ch
			e.opponent = idx - 1
		} else {
			e.challenger = nil
			e.opponent = noOpponent
		}
		action = fmt.Sprintf("%q beat %q for rank %d", ch.Content, opp.Content, idx+1)
	} else {
		e.ranked = insertAt(e.ranked, idx+1, ch)
		e.spillLocked()
		e.challenger = nil
		e.opponent = noOpponent
		action = fmt.Sprintf("%q held rank %d against %q", opp.Content, idx+1, ch.Content)
	}

	return Entry{
		ID:           e.newID(),
		ChallengerID: ch.ID,
		OpponentID:   opp.ID,
		Winner:       winner,
		Action:       action,
		Timestamp:    e.now(),
	}
}

// reclampLocked picks the next opponent after the one at index k was
// cancelled: the slot above it, or the top when there is none.
func (e *Engine) reclampLocked(k int) {
	next := k - 1
	if next < 0 {
		if indexOf(e.ranked, e.challenger.ID) < 0 {
			e.ranked = insertAt(e.ranked, 0, *e.challenger)
			e.spillLocked()
		}
		e.challenger = nil
		e.opponent = noOpponent
		return
	}
	e.opponent = min(next, len(e.ranked)-1)
}

// spillLocked moves tasks past capacity from the bottom of the ranked list
// into overflow.
func (e *Engine) spillLocked() {
	for len(e.ranked) > e.capacity {
		last := e.ranked[len(e.ranked)-1]
		e.ranked = e.ranked[:len(e.ranked)-1]
		e.overflow = append(e.overflow, last)
		if e.challenger != nil && e.challenger.ID == last.ID {
			e.challenger = nil
			e.opponent = noOpponent
		}
	}
}

func (e *Engine) snapshotLocked(cancelledID string) *Snapshot {
	return &Snapshot{
		Queue:         models.CloneTasks(e.queue),
		Ranked:        models.CloneTasks(e.ranked),
		Overflow:      models.CloneTasks(e.overflow),
		Challenger:    cloneTaskPtr(e.challenger),
		OpponentIndex: e.opponent,
		CancelledID:   cancelledID,
	}
}

func (e *Engine) findLocked(id string) (models.Task, bool) {
	for _, list := range [][]models.Task{e.ranked, e.overflow, e.queue} {
		if i := indexOf(list, id); i >= 0 {
			return list[i], true
		}
	}
	if e.challenger != nil && e.challenger.ID == id {
		return *e.challenger, true
	}
	return models.Task{}, false
}

// deriveLocked re-tags ranked and overflow tasks and returns the
// assignments that differ from what the task source last confirmed.
func (e *Engine) deriveLocked() []Assignment {
	var pending []Assignment
	for i, a := range DeriveTiers(e.ranked, e.overflow, e.band) {
		if i < len(e.ranked) {
			e.ranked[i].Priority = a.Tier
		} else {
			e.overflow[i-len(e.ranked)].Priority = a.Tier
		}
		if e.observed[a.TaskID] != a.Tier {
			pending = append(pending, a)
		}
	}
	// Unplaced tasks keep their own tier; this puts back tiers an undo
	// moved out of the ranked list.
	unplaced := e.queue
	if e.challenger != nil {
		if i := indexOf(e.ranked, e.challenger.ID); i >= 0 {
			e.challenger.Priority = e.ranked[i].Priority
		} else {
			unplaced = append([]models.Task{*e.challenger}, e.queue...)
		}
	}
	for _, t := range unplaced {
		if observed, ok := e.observed[t.ID]; ok && observed != t.Priority {
			pending = append(pending, Assignment{TaskID: t.ID, Tier: t.Priority})
		}
	}
	return pending
}

// commit ends every mutating operation: one tier-sync batch, one
// persistence write, then observer notification.
func (e *Engine) commit(ctx context.Context, kind EventKind, warnings []string) {
	e.mu.Lock()
	pending := e.deriveLocked()
	e.mu.Unlock()

	for _, a := range pending {
		if _, err := e.source.SetPriority(ctx, a.TaskID, a.Tier); err != nil {
			slog.Warn("tier sync failed", "mode", e.mode, "task", a.TaskID, "tier", a.Tier.String(), "error", err)
			warnings = append(warnings, fmt.Sprintf("could not set task %s to %s: %v", a.TaskID, a.Tier, err))
			continue
		}
		e.mu.Lock()
		e.observed[a.TaskID] = a.Tier
		e.mu.Unlock()
	}

	e.mu.RLock()
	puts, deletes := e.persistPayloadLocked()
	view := e.viewLocked()
	observers := append([]Observer(nil), e.observers...)
	e.mu.RUnlock()

	if err := e.store.Apply(ctx, puts, deletes); err != nil {
		slog.Warn("persist ranking state", "mode", e.mode, "error", err)
	}

	events := []Event{{Kind: kind, View: view, Warnings: warnings}}
	if view.State == StateResult {
		events = append(events, Event{Kind: EventCompleted, View: view})
	}
	for _, ev := range events {
		for _, o := range observers {
			o(ev)
		}
	}
}

func (e *Engine) persistPayloadLocked() (map[string][]byte, []string) {
	puts := make(map[string][]byte)
	var deletes []string

	if raw, err := json.Marshal(e.history.Entries()); err == nil {
		puts[HistoryKey(e.mode)] = raw
	} else {
		slog.Warn("encode comparison history", "error", err)
	}

	if e.state == StateResult {
		deletes = append(deletes, SessionKey(e.mode))
		if len(e.ranked)+len(e.overflow) == 0 {
			return puts, deletes
		}
		res := Result{
			Mode:        e.mode,
			Ranked:      cloneList(e.ranked),
			Overflow:    cloneList(e.overflow),
			CompletedAt: e.now(),
		}
		if raw, err := json.Marshal(res); err == nil {
			puts[ResultKey(e.mode)] = raw
		} else {
			slog.Warn("encode ranking result", "error", err)
		}
		return puts, deletes
	}

	tiers := make(map[string]models.Tier, len(e.observed))
	for id, t := range e.observed {
		tiers[id] = t
	}
	sess := Session{
		Queue:         cloneList(e.queue),
		Ranked:        cloneList(e.ranked),
		Overflow:      cloneList(e.overflow),
		Challenger:    cloneTaskPtr(e.challenger),
		OpponentIndex: e.opponent,
		Tiers:         tiers,
		SavedAt:       e.now(),
	}
	if raw, err := json.Marshal(sess); err == nil {
		puts[SessionKey(e.mode)] = raw
	} else {
		slog.Warn("encode ranking session", "error", err)
	}
	return puts, deletes
}

func indexOf(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func removeID(tasks []models.Task, id string) []models.Task {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

func insertAt(tasks []models.Task, i int, t models.Task) []models.Task {
	if i > len(tasks) {
		i = len(tasks)
	}
	out := make([]models.Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, t)
	return append(out, tasks[i:]...)
}

// dedupe drops tasks whose id is already in seen, recording the rest.
func dedupe(tasks []models.Task, seen map[string]bool) []models.Task {
	if seen == nil {
		seen = make(map[string]bool, len(tasks))
	}
	out := tasks[:0:0]
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

func cloneList(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
