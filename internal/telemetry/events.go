package telemetry

import (
	"github.com/josephgoksu/seiton/internal/ranking"
)

// Event names.
const (
	EventSessionStarted    = "session_started"
	EventComparisonApplied = "comparison_applied"
	EventTaskCancelled     = "task_cancelled"
	EventSessionCompleted  = "session_completed"
	EventCommandExecuted   = "command_executed"
)

// Observer turns engine transitions into telemetry events. Only counts and
// the mode are reported.
func Observer(c Client) ranking.Observer {
	return func(ev ranking.Event) {
		v := ev.View
		switch ev.Kind {
		case ranking.EventLoaded:
			c.Track(EventSessionStarted, Properties{
				"mode":     string(v.Mode),
				"queued":   len(v.Queue),
				"ranked":   len(v.Ranked),
				"capacity": v.Capacity,
				"warnings": len(ev.Warnings),
			})
		case ranking.EventOutcome:
			c.Track(EventComparisonApplied, Properties{
				"mode":   string(v.Mode),
				"ranked": len(v.Ranked),
				"queued": len(v.Queue),
			})
		case ranking.EventCancelled:
			c.Track(EventTaskCancelled, Properties{"mode": string(v.Mode)})
		case ranking.EventCompleted:
			c.Track(EventSessionCompleted, Properties{
				"mode":     string(v.Mode),
				"ranked":   len(v.Ranked),
				"overflow": len(v.Overflow),
			})
		}
	}
}
