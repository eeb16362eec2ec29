package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/josephgoksu/seiton/internal/todoist"
	"github.com/josephgoksu/seiton/models"
	"golang.org/x/sync/errgroup"
)

// forwardConcurrency bounds parallel creates within one request. The
// client's rate limiter still applies.
const forwardConcurrency = 4

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, map[string]any{
		"status":     "ok",
		"configured": s.tasks != nil,
	})
}

// handleCreateTasks forwards each payload with its own idempotency token.
func (s *Server) handleCreateTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requireTasks(w) {
		return
	}

	var reqs []CreateTaskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&reqs); err != nil {
		writeBadRequest(w, "body must be a JSON array of tasks")
		return
	}
	if len(reqs) == 0 {
		writeBadRequest(w, "at least one task is required")
		return
	}
	for i := range reqs {
		if err := validate.Struct(reqs[i]); err != nil {
			writeBadRequest(w, fmt.Sprintf("task %d: %v", i, err))
			return
		}
	}

	created := make([]*models.Task, len(reqs))
	failures := make([]error, len(reqs))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(forwardConcurrency)
	for i := range reqs {
		requestID := s.newID()
		g.Go(func() error {
			t, err := s.tasks.CreateTask(ctx, toNewTask(reqs[i]), requestID)
			if err != nil {
				failures[i] = err
				return nil
			}
			created[i] = &t
			return nil
		})
	}
	_ = g.Wait()

	resp := PartialFailureResponse{
		FailedTasks:     []FailedTask{},
		SuccessfulTasks: []models.Task{},
	}
	for i := range reqs {
		if failures[i] != nil {
			slog.Warn("proxy: create task failed", "index", i, "error", failures[i])
			resp.FailedTasks = append(resp.FailedTasks, FailedTask{Task: reqs[i], Error: failures[i].Error()})
			continue
		}
		resp.SuccessfulTasks = append(resp.SuccessfulTasks, *created[i])
	}

	switch {
	case len(resp.FailedTasks) == 0:
		writeAPIJSON(w, CreateTasksResponse{Tasks: resp.SuccessfulTasks})
	case len(resp.SuccessfulTasks) == 0:
		writeAPIJSONStatus(w, http.StatusBadGateway, resp)
	default:
		writeAPIJSONStatus(w, http.StatusMultiStatus, resp)
	}
}

// handleDescriptionUpdate appends a timestamped block to a task description.
func (s *Server) handleDescriptionUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.requireTasks(w) {
		return
	}

	var req DescriptionUpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	current, err := s.tasks.GetTask(r.Context(), req.TaskID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	updated, err := s.tasks.UpdateDescription(r.Context(), req.TaskID, AppendBlock(current.Description, req.ContentToAppend, s.now()))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeAPIJSON(w, DescriptionUpdateResponse{Task: updated})
}

// AppendBlock adds content below a separator stamped with at.
func AppendBlock(description, content string, at time.Time) string {
	return fmt.Sprintf("%s\n\n---\n**%s**\n%s", description, at.UTC().Format(time.RFC3339), content)
}

func (s *Server) requireTasks(w http.ResponseWriter) bool {
	if s.tasks != nil {
		return true
	}
	writeAPIJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "configuration error",
		Message: todoist.ErrMissingToken.Error(),
	})
	return false
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeAPIJSONStatus(w, http.StatusBadRequest, ErrorResponse{Error: "bad request", Message: msg})
}

func writeUpstreamError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var apiErr *todoist.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		status = http.StatusNotFound
	}
	slog.Warn("proxy: upstream call failed", "error", err)
	writeAPIJSONStatus(w, status, ErrorResponse{Error: "upstream error", Message: err.Error()})
}

func toNewTask(r CreateTaskRequest) todoist.NewTask {
	return todoist.NewTask{
		Content:     r.Content,
		Description: r.Description,
		DueString:   r.DueString,
		Priority:    r.Priority,
		Labels:      r.Labels,
		ProjectID:   r.ProjectID,
	}
}
