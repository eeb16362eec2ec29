package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
)

// Client sends anonymous usage events.
type Client interface {
	// Track enqueues an event and returns immediately. It is a no-op when
	// telemetry is disabled.
	Track(event string, properties map[string]any)

	// Close flushes pending events.
	Close() error
}

// Properties is a type alias for event properties.
type Properties = map[string]any

type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient sends events to PostHog. Every event of one process carries
// the same run_id so a ranking session can be followed from start to finish.
type PostHogClient struct {
	mu     sync.Mutex
	sink   enqueuer // nil without an API key
	cfg    *Config
	base   map[string]any
	closed bool
}

// ClientConfig holds what NewPostHogClient needs.
type ClientConfig struct {
	APIKey  string
	Version string
	Config  *Config
	// Endpoint overrides the PostHog cloud endpoint for self-hosted installs.
	Endpoint string
}

// NewPostHogClient returns a client that drops every event when APIKey is
// empty or Config is nil.
func NewPostHogClient(cfg ClientConfig) (*PostHogClient, error) {
	if cfg.APIKey == "" || cfg.Config == nil {
		return newPostHogClientWithEnqueuer(nil, cfg.Config, cfg.Version), nil
	}

	sink, err := posthog.NewWithConfig(cfg.APIKey, posthog.Config{
		Endpoint:  cfg.Endpoint,
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietPostHogLogger{},
	})
	if err != nil {
		return nil, err
	}
	return newPostHogClientWithEnqueuer(sink, cfg.Config, cfg.Version), nil
}

func newPostHogClientWithEnqueuer(sink enqueuer, cfg *Config, version string) *PostHogClient {
	return &PostHogClient{
		sink: sink,
		cfg:  cfg,
		base: map[string]any{
			"os":          runtime.GOOS,
			"arch":        runtime.GOARCH,
			"cli_version": version,
			"run_id":      uuid.NewString(),
			// No person profiles: events stay anonymous.
			"$process_person_profile": false,
		},
	}
}

func (c *PostHogClient) active() bool {
	return c.sink != nil && !c.closed && c.cfg != nil && c.cfg.IsEnabled()
}

// Track enqueues event. Caller properties never override the base set.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active() {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	for k, v := range c.base {
		props.Set(k, v)
	}
	_ = c.sink.Enqueue(posthog.Capture{
		DistinctId: c.cfg.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes the queue. Events tracked afterwards are dropped.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.sink == nil {
		c.closed = true
		return nil
	}
	c.closed = true
	return c.sink.Close()
}

// NoopClient drops every event.
type NoopClient struct{}

func (NoopClient) Track(string, map[string]any) {}

func (NoopClient) Close() error { return nil }

// NewNoopClient returns a client that does nothing.
func NewNoopClient() NoopClient { return NoopClient{} }

type quietPostHogLogger struct{}

func (quietPostHogLogger) Debugf(string, ...interface{}) {}
func (quietPostHogLogger) Logf(string, ...interface{})   {}
func (quietPostHogLogger) Warnf(string, ...interface{})  {}
func (quietPostHogLogger) Errorf(string, ...interface{}) {}
