package telemetry

import (
	"testing"

	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/models"
)

func TestObserver_MapsEngineEvents(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "a"}, "dev")
	obs := Observer(client)

	view := ranking.View{
		Mode:     models.ContextA,
		Capacity: 24,
		Queue:    []models.Task{{ID: "1"}, {ID: "2"}},
		Ranked:   []models.Task{{ID: "3"}},
	}
	obs(ranking.Event{Kind: ranking.EventLoaded, View: view, Warnings: []string{"w"}})
	obs(ranking.Event{Kind: ranking.EventOutcome, View: view})
	obs(ranking.Event{Kind: ranking.EventUndone, View: view})
	obs(ranking.Event{Kind: ranking.EventCompleted, View: view})

	events := mock.getEvents()
	want := []string{EventSessionStarted, EventComparisonApplied, EventSessionCompleted}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, name := range want {
		if events[i].Event != name {
			t.Errorf("event %d = %q, want %q", i, events[i].Event, name)
		}
	}
	if events[0].Properties["queued"] != 2 || events[0].Properties["warnings"] != 1 {
		t.Errorf("session_started properties = %v", events[0].Properties)
	}
	if events[0].Properties["mode"] != "context-a" {
		t.Errorf("mode = %v", events[0].Properties["mode"])
	}
}
