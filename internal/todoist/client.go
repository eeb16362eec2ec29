// Package todoist is a small client for the Todoist REST v2 API covering the
// calls the ranking and proxy code need.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/seiton/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Todoist REST v2 endpoint.
	DefaultBaseURL = "https://api.todoist.com/rest/v2"

	// DefaultRateLimit is the default request budget per second.
	DefaultRateLimit = 5

	// DefaultTimeout bounds one HTTP round trip.
	DefaultTimeout = 15 * time.Second
)

// ErrMissingToken is returned when no API token is configured.
var ErrMissingToken = errors.New("TODOIST_API_TOKEN is not set")

// Options configures a Client.
type Options struct {
	Token      string
	BaseURL    string
	RateLimit  float64
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to Todoist. It is safe for concurrent use; requests share
// one rate limiter.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New builds a client. A missing token is an error.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, ErrMissingToken
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	burst := int(opts.RateLimit)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		token:   strings.TrimSpace(opts.Token),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), burst),
	}, nil
}

// ListTasks returns active tasks matching a Todoist filter expression.
// An empty filter lists every active task.
func (c *Client) ListTasks(ctx context.Context, filter string) ([]models.Task, error) {
	path := "/tasks"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &task); err != nil {
		return models.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return task, nil
}

// SetPriority updates the priority tier of a task.
func (c *Client) SetPriority(ctx context.Context, id string, tier models.Tier) (models.Task, error) {
	var task models.Task
	body := map[string]any{"priority": int(tier)}
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id), body, nil, &task); err != nil {
		return models.Task{}, fmt.Errorf("set priority of %s: %w", id, err)
	}
	return task, nil
}

// UpdateDescription replaces the description of a task.
func (c *Client) UpdateDescription(ctx context.Context, id, description string) (models.Task, error) {
	var task models.Task
	body := map[string]any{"description": description}
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id), body, nil, &task); err != nil {
		return models.Task{}, fmt.Errorf("update description of %s: %w", id, err)
	}
	return task, nil
}

// Complete closes a task.
func (c *Client) Complete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/close", nil, nil, nil); err != nil {
		return fmt.Errorf("close task %s: %w", id, err)
	}
	return nil
}

// Reopen reopens a closed task.
func (c *Client) Reopen(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/reopen", nil, nil, nil); err != nil {
		return fmt.Errorf("reopen task %s: %w", id, err)
	}
	return nil
}

// CreateTask creates a task. requestID is sent as X-Request-Id so Todoist
// drops duplicates of a retried request; a new one is generated when empty.
func (c *Client) CreateTask(ctx context.Context, in NewTask, requestID string) (models.Task, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	var task models.Task
	headers := map[string]string{"X-Request-Id": requestID}
	if err := c.do(ctx, http.MethodPost, "/tasks", in, headers, &task); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	slog.Debug("todoist request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
