package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/josephgoksu/seiton/internal/todoist"
	"github.com/josephgoksu/seiton/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTasks struct {
	mu         sync.Mutex
	requestIDs []string
	failOn     map[string]error
	tasks      map[string]models.Task
	updated    map[string]string
	seq        atomic.Int32
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{
		failOn:  map[string]error{},
		tasks:   map[string]models.Task{},
		updated: map[string]string{},
	}
}

func (f *fakeTasks) CreateTask(_ context.Context, in todoist.NewTask, requestID string) (models.Task, error) {
	f.mu.Lock()
	f.requestIDs = append(f.requestIDs, requestID)
	f.mu.Unlock()
	if err := f.failOn[in.Content]; err != nil {
		return models.Task{}, err
	}
	id := fmt.Sprint(f.seq.Add(1))
	return models.Task{ID: id, Content: in.Content, Priority: models.Tier(max(in.Priority, 1))}, nil
}

func (f *fakeTasks) GetTask(_ context.Context, id string) (models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return models.Task{}, &todoist.APIError{StatusCode: http.StatusNotFound, Method: "GET", Path: "/tasks/" + id}
	}
	return t, nil
}

func (f *fakeTasks) UpdateDescription(_ context.Context, id, description string) (models.Task, error) {
	f.updated[id] = description
	t := f.tasks[id]
	t.Description = description
	return t, nil
}

func newTestServer(tasks TaskService, origins ...string) *Server {
	return New(Options{
		Tasks:          tasks,
		AllowedOrigins: origins,
		Now:            func() time.Time { return time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC) },
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestCreateTasks_AllSucceed(t *testing.T) {
	tasks := newFakeTasks()
	s := newTestServer(tasks)

	rec := do(t, s, http.MethodPost, "/tasks", `[{"content":"A","priority":4},{"content":"B","labels":["x"]}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CreateTasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tasks, 2)
	assert.Equal(t, "A", resp.Tasks[0].Content)
	assert.Equal(t, "B", resp.Tasks[1].Content)

	require.Len(t, tasks.requestIDs, 2)
	assert.NotEqual(t, tasks.requestIDs[0], tasks.requestIDs[1])
}

func TestCreateTasks_PartialFailure(t *testing.T) {
	tasks := newFakeTasks()
	tasks.failOn["B"] = &todoist.APIError{StatusCode: 400, Method: "POST", Path: "/tasks", Body: "bad due"}
	s := newTestServer(tasks)

	rec := do(t, s, http.MethodPost, "/tasks", `[{"content":"A"},{"content":"B"},{"content":"C"}]`)
	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var resp PartialFailureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.FailedTasks, 1)
	assert.Equal(t, "B", resp.FailedTasks[0].Task.Content)
	assert.Contains(t, resp.FailedTasks[0].Error, "bad due")
	assert.Len(t, resp.SuccessfulTasks, 2)
}

func TestCreateTasks_AllFail(t *testing.T) {
	tasks := newFakeTasks()
	tasks.failOn["A"] = errors.New("timeout")
	s := newTestServer(tasks)

	rec := do(t, s, http.MethodPost, "/tasks", `[{"content":"A"}]`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"failedTasks":[{"task":{"content":"A"},"error":"timeout"}],"successfulTasks":[]}`, rec.Body.String())
}

func TestCreateTasks_BadRequests(t *testing.T) {
	s := newTestServer(newFakeTasks())

	for name, body := range map[string]string{
		"not json":        `{`,
		"object":          `{"content":"A"}`,
		"empty":           `[]`,
		"missing content": `[{"priority":2}]`,
		"bad priority":    `[{"content":"A","priority":9}]`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/tasks", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMissingToken(t *testing.T) {
	s := newTestServer(nil)

	for _, path := range []string{"/tasks", "/task-description-update"} {
		rec := do(t, s, http.MethodPost, path, `[]`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"configuration error","message":"TODOIST_API_TOKEN is not set"}`, rec.Body.String())
	}
}

func TestDescriptionUpdate(t *testing.T) {
	tasks := newFakeTasks()
	tasks.tasks["7"] = models.Task{ID: "7", Content: "Write", Description: "first"}
	s := newTestServer(tasks)

	rec := do(t, s, http.MethodPost, "/task-description-update", `{"taskId":"7","contentToAppend":"second"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	want := "first\n\n---\n**2026-05-04T10:30:00Z**\nsecond"
	assert.Equal(t, want, tasks.updated["7"])

	var resp DescriptionUpdateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, want, resp.Task.Description)
}

func TestDescriptionUpdate_Errors(t *testing.T) {
	s := newTestServer(newFakeTasks())

	rec := do(t, s, http.MethodPost, "/task-description-update", `{"taskId":"7"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/task-description-update", `{"taskId":"404","contentToAppend":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","configured":false}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	s := newTestServer(newFakeTasks(), "http://localhost:5173")

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAppendBlock(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "\n\n---\n**2026-01-02T02:04:05Z**\nhi", AppendBlock("", "hi", at))
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	s := newTestServer(newFakeTasks(), "http://localhost:5173")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Vary"))
}

func TestCORS_Wildcard(t *testing.T) {
	s := newTestServer(newFakeTasks(), "*")

	req := httptest.NewRequest(http.MethodOptions, "/task-description-update", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://anywhere.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
