package ranking

import (
	"time"

	"github.com/josephgoksu/seiton/models"
)

// State is the phase of a ranking session.
type State int

const (
	StateIdle State = iota
	StateModeSelect
	StateLoading
	StateComparing
	StateResult
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateModeSelect:
		return "mode-select"
	case StateLoading:
		return "loading"
	case StateComparing:
		return "comparing"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}

// noOpponent marks an unset opponent index.
const noOpponent = -1

// Snapshot is the single-level undo record taken before a mutating action.
type Snapshot struct {
	Queue         []models.Task
	Ranked        []models.Task
	Overflow      []models.Task
	Challenger    *models.Task
	OpponentIndex int
	// CancelledID is set when the action was a cancel; undo reopens it first.
	CancelledID string
}

// View is a read-only copy of the engine state for rendering.
type View struct {
	Mode          models.Context `json:"mode"`
	State         State          `json:"state"`
	Capacity      int            `json:"capacity"`
	Queue         []models.Task  `json:"queue"`
	Ranked        []models.Task  `json:"ranked"`
	Overflow      []models.Task  `json:"overflow"`
	Challenger    *models.Task   `json:"challenger,omitempty"`
	Opponent      *models.Task   `json:"opponent,omitempty"`
	OpponentIndex int            `json:"opponentIndex"`
	Hint          *Hint          `json:"hint,omitempty"`
	CanUndo       bool           `json:"canUndo"`
}

// Session is the persisted progress of an unfinished tournament.
type Session struct {
	Queue         []models.Task          `json:"queue"`
	Ranked        []models.Task          `json:"ranked"`
	Overflow      []models.Task          `json:"overflow"`
	Challenger    *models.Task           `json:"challenger,omitempty"`
	OpponentIndex int                    `json:"opponentIndex"`
	Tiers         map[string]models.Tier `json:"tiers,omitempty"`
	SavedAt       time.Time              `json:"savedAt"`
}

// Result is the persisted outcome of a finished tournament.
type Result struct {
	Mode        models.Context `json:"mode"`
	Ranked      []models.Task  `json:"ranked"`
	Overflow    []models.Task  `json:"overflow"`
	CompletedAt time.Time      `json:"completedAt"`
}

func cloneTaskPtr(t *models.Task) *models.Task {
	if t == nil {
		return nil
	}
	c := t.Clone()
	return &c
}
