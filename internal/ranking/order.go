package ranking

import (
	"sort"
	"time"

	"github.com/josephgoksu/seiton/models"
)

// SortForTournament orders candidates for the queue:
// 1. Priority tier: highest first
// 2. Deadline: earliest first (missing last)
// 3. Due date: earliest first (missing last)
// Ties keep their fetch order.
func SortForTournament(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}

		if less, decided := compareDates(deadlineOf(a), deadlineOf(b)); decided {
			return less
		}

		less, _ := compareDates(dueOf(a), dueOf(b))
		return less
	})
}

func deadlineOf(t models.Task) *time.Time {
	if t.Deadline == nil {
		return nil
	}
	return parseDay(t.Deadline.Date)
}

func dueOf(t models.Task) *time.Time {
	if t.Due == nil {
		return nil
	}
	if t.Due.Datetime != "" {
		if ts, err := time.Parse(time.RFC3339, t.Due.Datetime); err == nil {
			return &ts
		}
		if ts, err := time.Parse("2006-01-02T15:04:05", t.Due.Datetime); err == nil {
			return &ts
		}
	}
	return parseDay(t.Due.Date)
}

func parseDay(s string) *time.Time {
	if len(s) < 10 {
		return nil
	}
	ts, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return nil
	}
	return &ts
}

// compareDates reports a<b with nil sorting last; decided is false on a tie.
func compareDates(a, b *time.Time) (less, decided bool) {
	if (a == nil) != (b == nil) {
		return a != nil, true
	}
	if a != nil && b != nil && !a.Equal(*b) {
		return a.Before(*b), true
	}
	return false, false
}
