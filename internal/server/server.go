// Package server exposes the Todoist proxy endpoints used by browser
// clients that must not hold the API token.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/seiton/internal/todoist"
	"github.com/josephgoksu/seiton/models"
)

// DefaultPort is the port `seiton serve` listens on.
const DefaultPort = 8787

// TaskService is the slice of the Todoist client the proxy forwards to.
type TaskService interface {
	CreateTask(ctx context.Context, in todoist.NewTask, requestID string) (models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	UpdateDescription(ctx context.Context, id, description string) (models.Task, error)
}

// Options configures a Server.
type Options struct {
	Port           int
	AllowedOrigins []string
	// Tasks is nil when no API token is configured; every proxy call then
	// answers with a configuration error.
	Tasks TaskService

	Now   func() time.Time
	NewID func() string
}

type Server struct {
	tasks   TaskService
	origins map[string]struct{}
	now     func() time.Time
	newID   func() string
	server  *http.Server
}

// New builds a server. It does not start listening.
func New(opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = struct{}{}
	}

	s := &Server{
		tasks:   opts.Tasks,
		origins: origins,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("proxy listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("proxy server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeAPIJSON(w http.ResponseWriter, data interface{}) {
	writeAPIJSONStatus(w, http.StatusOK, data)
}

func writeAPIJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
