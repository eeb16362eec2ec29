package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tier is a task priority level as Todoist stores it: 4 is the most urgent.
type Tier int

const (
	TierLow    Tier = 1
	TierMedium Tier = 2
	TierHigh   Tier = 3
	TierUrgent Tier = 4
)

// String returns the human label for a tier.
func (t Tier) String() string {
	switch t {
	case TierUrgent:
		return "urgent"
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Label returns the P1..P4 label Todoist shows for a tier.
func (t Tier) Label() string {
	if t < TierLow || t > TierUrgent {
		return "P?"
	}
	return fmt.Sprintf("P%d", 5-int(t))
}

// Context is the classifier label attached to a task. The two defined
// contexts double as ranking modes.
type Context string

const (
	ContextA         Context = "context-a"
	ContextB         Context = "context-b"
	ContextUndefined Context = "undefined"
)

// Modes lists the contexts a tournament can be run for.
var Modes = []Context{ContextA, ContextB}

// ParseMode validates a ranking mode name.
func ParseMode(s string) (Context, error) {
	switch Context(strings.ToLower(strings.TrimSpace(s))) {
	case ContextA:
		return ContextA, nil
	case ContextB:
		return ContextB, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %s or %s)", s, ContextA, ContextB)
	}
}

// ParseContext maps a classifier answer to a Context; anything unknown is undefined.
func ParseContext(s string) Context {
	switch Context(strings.ToLower(strings.TrimSpace(s))) {
	case ContextA:
		return ContextA
	case ContextB:
		return ContextB
	default:
		return ContextUndefined
	}
}

// Due is the due marker of a task.
type Due struct {
	Date      string `json:"date"`
	Datetime  string `json:"datetime,omitempty"`
	String    string `json:"string,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Recurring bool   `json:"is_recurring"`
}

// Deadline is the optional hard deadline of a task.
type Deadline struct {
	Date string `json:"date"`
}

// Task is a Todoist task. Field names follow the REST v2 payload so tasks
// decode straight from the API. Context is set locally by the classifier.
type Task struct {
	ID          string    `json:"id" validate:"required"`
	Content     string    `json:"content" validate:"required"`
	Description string    `json:"description,omitempty"`
	Due         *Due      `json:"due,omitempty"`
	Deadline    *Deadline `json:"deadline,omitempty"`
	Priority    Tier      `json:"priority" validate:"min=1,max=4"`
	Completed   bool      `json:"is_completed"`
	ParentID    string    `json:"parent_id,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	URL         string    `json:"url,omitempty"`
	Context     Context   `json:"context,omitempty"`
}

// IsSubtask reports whether the task has a parent.
func (t Task) IsSubtask() bool {
	return t.ParentID != ""
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.Labels != nil {
		c.Labels = append([]string(nil), t.Labels...)
	}
	return c
}

// CloneTasks deep-copies a slice of tasks. A nil slice stays nil.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// validate is a single instance of Validate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct validates any struct carrying validate tags and flattens
// the validator errors into one readable message.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
}
