// Package policy decides which tasks are eligible for a ranking session
// using Rego policies evaluated by OPA.
package policy

import (
	"time"

	"github.com/josephgoksu/seiton/models"
)

// Decision is the outcome of evaluating the policies against one task.
type Decision struct {
	DecisionID  string    `json:"decisionId"`
	TaskID      string    `json:"taskId"`
	Mode        string    `json:"mode"`
	Result      string    `json:"result"`
	Violations  []string  `json:"violations,omitempty"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

// Result constants.
const (
	ResultAllow = "allow"
	ResultDeny  = "deny"
)

// IsAllowed returns true if the decision was "allow".
func (d *Decision) IsAllowed() bool {
	return d.Result == ResultAllow
}

// Input is what Rego policies receive in the `input` variable.
type Input struct {
	Task TaskInput `json:"task"`
	Mode string    `json:"mode"`
}

// TaskInput is the task as seen by policies.
type TaskInput struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Context     string   `json:"context"`
	Priority    int      `json:"priority"`
	Labels      []string `json:"labels"`
	ProjectID   string   `json:"project_id"`
	IsSubtask   bool     `json:"is_subtask"`
	IsCompleted bool     `json:"is_completed"`
	HasDeadline bool     `json:"has_deadline"`
	HasDue      bool     `json:"has_due"`
}

// NewInput builds the policy input for t in mode.
func NewInput(t models.Task, mode models.Context) Input {
	ctxLabel := t.Context
	if ctxLabel == "" {
		ctxLabel = models.ContextUndefined
	}
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	return Input{
		Task: TaskInput{
			ID:          t.ID,
			Content:     t.Content,
			Context:     string(ctxLabel),
			Priority:    int(t.Priority),
			Labels:      labels,
			ProjectID:   t.ProjectID,
			IsSubtask:   t.IsSubtask(),
			IsCompleted: t.Completed,
			HasDeadline: t.Deadline != nil && t.Deadline.Date != "",
			HasDue:      t.Due != nil,
		},
		Mode: string(mode),
	}
}

// asMap turns the input into the plain JSON shape OPA works on.
func (in Input) asMap() map[string]any {
	labels := make([]any, len(in.Task.Labels))
	for i, l := range in.Task.Labels {
		labels[i] = l
	}
	return map[string]any{
		"mode": in.Mode,
		"task": map[string]any{
			"id":           in.Task.ID,
			"content":      in.Task.Content,
			"context":      in.Task.Context,
			"priority":     in.Task.Priority,
			"labels":       labels,
			"project_id":   in.Task.ProjectID,
			"is_subtask":   in.Task.IsSubtask,
			"is_completed": in.Task.IsCompleted,
			"has_deadline": in.Task.HasDeadline,
			"has_due":      in.Task.HasDue,
		},
	}
}
