package telemetry

import (
	"runtime"
	"sync"
	"testing"

	"github.com/posthog/posthog-go"
)

type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closed bool
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if capture, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, capture)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockEnqueuer) getEvents() []posthog.Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]posthog.Capture, len(m.events))
	copy(out, m.events)
	return out
}

func newTestClient(cfg *Config, version string) (*PostHogClient, *mockEnqueuer) {
	mock := &mockEnqueuer{}
	return newPostHogClientWithEnqueuer(mock, cfg, version), mock
}

func TestPostHogClient_Track_WhenEnabled(t *testing.T) {
	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "anon-1"}
	client, mock := newTestClient(cfg, "0.3.0")

	client.Track(EventSessionStarted, Properties{"mode": "context-a", "queued": 7})

	events := mock.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Event != EventSessionStarted {
		t.Errorf("event = %q, want %q", ev.Event, EventSessionStarted)
	}
	if ev.DistinctId != "anon-1" {
		t.Errorf("distinct id = %q, want anon-1", ev.DistinctId)
	}
	if ev.Properties["queued"] != 7 {
		t.Errorf("queued = %v, want 7", ev.Properties["queued"])
	}
	if ev.Properties["os"] != runtime.GOOS || ev.Properties["arch"] != runtime.GOARCH {
		t.Errorf("missing os/arch properties: %v", ev.Properties)
	}
	if ev.Properties["cli_version"] != "0.3.0" {
		t.Errorf("cli_version = %v", ev.Properties["cli_version"])
	}
	if ev.Properties["$process_person_profile"] != false {
		t.Error("person profiles must be disabled")
	}
}

func TestPostHogClient_Track_WhenDisabled(t *testing.T) {
	cfg := &Config{Enabled: false, ConsentAsked: true, AnonymousID: "anon-1"}
	client, mock := newTestClient(cfg, "0.3.0")

	client.Track(EventSessionStarted, nil)

	if n := len(mock.getEvents()); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
}

func TestNewPostHogClient_NoAPIKey(t *testing.T) {
	client, err := NewPostHogClient(ClientConfig{Version: "dev", Config: &Config{Enabled: true}})
	if err != nil {
		t.Fatalf("NewPostHogClient() error = %v", err)
	}
	client.Track(EventSessionStarted, nil)
	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestPostHogClient_Close(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true}, "dev")
	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mock.closed {
		t.Error("Close() should close the underlying client")
	}
}

func TestNoopClient(t *testing.T) {
	var c Client = NewNoopClient()
	c.Track(EventSessionCompleted, Properties{"ranked": 3})
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestPostHogClient_RunIDIsStable(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "anon-1"}, "dev")

	client.Track(EventSessionStarted, Properties{"run_id": "spoofed", "os": "plan9"})
	client.Track(EventSessionCompleted, nil)

	events := mock.getEvents()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	first, second := events[0].Properties["run_id"], events[1].Properties["run_id"]
	if first == "" || first == "spoofed" || first != second {
		t.Errorf("run_id = %v / %v, want one generated id", first, second)
	}
	if events[0].Properties["os"] != runtime.GOOS {
		t.Errorf("os = %v, caller properties must not override base properties", events[0].Properties["os"])
	}
}

func TestPostHogClient_TrackAfterClose(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true}, "dev")
	_ = client.Close()
	client.Track(EventSessionStarted, nil)
	if n := len(mock.getEvents()); n != 0 {
		t.Fatalf("expected no events after Close, got %d", n)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
