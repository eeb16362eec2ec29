package app

import (
	"context"
	"time"

	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/models"
)

// Progress summarises the persisted state of one mode. It is the canonical
// response used by both `seiton status` and the ranking_status MCP tool.
type Progress struct {
	Mode        models.Context `json:"mode"`
	InProgress  bool           `json:"inProgress"`
	Queued      int            `json:"queued"`
	Ranked      []models.Task  `json:"ranked,omitempty"`
	Overflow    int            `json:"overflow"`
	Challenger  *models.Task   `json:"challenger,omitempty"`
	SavedAt     *time.Time     `json:"savedAt,omitempty"`
	HasResult   bool           `json:"hasResult"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Comparisons int            `json:"comparisons"`
}

// LoadProgress reads the session, result and history of mode.
func LoadProgress(ctx context.Context, store ranking.Store, mode models.Context) (Progress, error) {
	p := Progress{Mode: mode}

	session, ok, err := ranking.LoadSession(ctx, store, mode)
	if err != nil {
		return p, err
	}
	if ok {
		p.InProgress = true
		p.Queued = len(session.Queue)
		p.Ranked = session.Ranked
		p.Overflow = len(session.Overflow)
		p.Challenger = session.Challenger
		saved := session.SavedAt
		p.SavedAt = &saved
	}

	result, ok, err := ranking.LoadResult(ctx, store, mode)
	if err != nil {
		return p, err
	}
	if ok {
		p.HasResult = true
		done := result.CompletedAt
		p.CompletedAt = &done
		if !p.InProgress {
			p.Ranked = result.Ranked
			p.Overflow = len(result.Overflow)
		}
	}

	entries, err := ranking.LoadHistory(ctx, store, mode)
	if err != nil {
		return p, err
	}
	for _, e := range entries {
		if e.Winner != ranking.WinnerNotApplicable {
			p.Comparisons++
		}
	}
	return p, nil
}

// LookupHint returns the most recent decisive outcome between two tasks in
// mode, oriented to challengerID.
func LookupHint(ctx context.Context, store ranking.Store, mode models.Context, challengerID, opponentID string) (ranking.Hint, bool, error) {
	entries, err := ranking.LoadHistory(ctx, store, mode)
	if err != nil {
		return ranking.Hint{}, false, err
	}
	hint, ok := ranking.HistoryFrom(len(entries), entries).Lookup(challengerID, opponentID)
	return hint, ok, nil
}
