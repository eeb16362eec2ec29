package ranking

import (
	"time"
)

// DefaultHistoryLimit bounds the comparison log of one mode.
const DefaultHistoryLimit = 100

// Winner tags the outcome recorded in a history entry.
type Winner string

const (
	WinnerChallenger    Winner = "challenger"
	WinnerOpponent      Winner = "opponent"
	WinnerNotApplicable Winner = "not-applicable"
)

// Invert swaps challenger and opponent.
func (w Winner) Invert() Winner {
	switch w {
	case WinnerChallenger:
		return WinnerOpponent
	case WinnerOpponent:
		return WinnerChallenger
	default:
		return w
	}
}

// Entry is one immutable record in the comparison log.
type Entry struct {
	ID           string    `json:"id"`
	ChallengerID string    `json:"challengerId"`
	OpponentID   string    `json:"opponentId"`
	Winner       Winner    `json:"winner"`
	Action       string    `json:"action"`
	Timestamp    time.Time `json:"timestamp"`
}

// Hint is a prior outcome for the pair currently being compared, oriented
// to the current challenger.
type Hint struct {
	Winner Winner    `json:"winner"`
	At     time.Time `json:"at"`
	Action string    `json:"action"`
}

// History is an insertion-ordered comparison log with a fixed capacity.
type History struct {
	limit   int
	entries []Entry
}

// NewHistory creates an empty log holding at most limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Append adds an entry, evicting the oldest ones past the limit.
func (h *History) Append(e Entry) {
	h.entries = append(h.entries, e)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]Entry(nil), h.entries[over:]...)
	}
}

// Entries returns a copy of the log, oldest first.
func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Lookup finds the most recent decisive outcome between two tasks in either
// orientation. The winner is reported relative to challengerID. Outcomes are
// not chained: A>B and B>C says nothing about A and C.
func (h *History) Lookup(challengerID, opponentID string) (Hint, bool) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		e := h.entries[i]
		if e.Winner == WinnerNotApplicable {
			continue
		}
		switch {
		case e.ChallengerID == challengerID && e.OpponentID == opponentID:
			return Hint{Winner: e.Winner, At: e.Timestamp, Action: e.Action}, true
		case e.ChallengerID == opponentID && e.OpponentID == challengerID:
			return Hint{Winner: e.Winner.Invert(), At: e.Timestamp, Action: e.Action}, true
		}
	}
	return Hint{}, false
}

func (h *History) replace(entries []Entry) {
	h.entries = nil
	for _, e := range entries {
		h.Append(e)
	}
}

// HistoryFrom rebuilds a log from persisted entries, oldest first.
func HistoryFrom(limit int, entries []Entry) *History {
	h := NewHistory(limit)
	h.replace(entries)
	return h
}
