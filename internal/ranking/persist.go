package ranking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/josephgoksu/seiton/models"
)

// Store is the durable key-value adapter. Apply writes all puts and deletes
// as one unit.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Apply(ctx context.Context, puts map[string][]byte, deletes []string) error
}

// SessionKey is the key of the in-progress tournament for a mode.
func SessionKey(mode models.Context) string { return "seiton:" + string(mode) + ":session" }

// ResultKey is the key of the last finished ranking for a mode.
func ResultKey(mode models.Context) string { return "seiton:" + string(mode) + ":result" }

// HistoryKey is the key of the comparison log for a mode.
func HistoryKey(mode models.Context) string { return "seiton:" + string(mode) + ":history" }

// LoadSession reads the persisted session for a mode.
func LoadSession(ctx context.Context, store Store, mode models.Context) (*Session, bool, error) {
	var s Session
	ok, err := getJSON(ctx, store, SessionKey(mode), &s)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &s, true, nil
}

// LoadResult reads the last finished ranking for a mode.
func LoadResult(ctx context.Context, store Store, mode models.Context) (*Result, bool, error) {
	var r Result
	ok, err := getJSON(ctx, store, ResultKey(mode), &r)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &r, true, nil
}

// LoadHistory reads the comparison log for a mode, oldest first.
func LoadHistory(ctx context.Context, store Store, mode models.Context) ([]Entry, error) {
	var entries []Entry
	if _, err := getJSON(ctx, store, HistoryKey(mode), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func getJSON(ctx context.Context, store Store, key string, v any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
