package todoist

import (
	"errors"
	"fmt"
	"net/http"
)

// NewTask is the payload of a task creation.
type NewTask struct {
	Content     string   `json:"content" validate:"required,max=500"`
	Description string   `json:"description,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
	DueDate     string   `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority    int      `json:"priority,omitempty" validate:"omitempty,min=1,max=4"`
	Labels      []string `json:"labels,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
}

// APIError is a non-2xx answer from Todoist.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("todoist %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("todoist %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from Todoist.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
