package ranking

import "errors"

var (
	// ErrBusy is returned when a mutating call arrives while another one is still running.
	ErrBusy = errors.New("another ranking action is in progress")

	// ErrNoUndo is returned by Undo when there is no snapshot to restore.
	ErrNoUndo = errors.New("nothing to undo")

	// ErrNotComparing is returned when an outcome is applied outside a comparison.
	ErrNotComparing = errors.New("no comparison in progress")

	// ErrNotInComparison is returned by Cancel for a task that is neither the
	// challenger nor the current opponent.
	ErrNotInComparison = errors.New("task is not part of the current comparison")

	// ErrInvalidWinner is returned for an outcome other than challenger or opponent.
	ErrInvalidWinner = errors.New("winner must be challenger or opponent")

	// ErrNotStarted is returned when an operation needs a loaded session.
	ErrNotStarted = errors.New("ranking session not started")
)
