package server

import (
	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/seiton/models"
)

var validate = validator.New()

// CreateTaskRequest is one element of the POST /tasks payload.
type CreateTaskRequest struct {
	Content     string   `json:"content" validate:"required,max=500"`
	Description string   `json:"description,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
	Priority    int      `json:"priority,omitempty" validate:"omitempty,min=1,max=4"`
	Labels      []string `json:"labels,omitempty" validate:"omitempty,dive,required"`
	ProjectID   string   `json:"project_id,omitempty"`
}

// FailedTask pairs a rejected payload with the reason.
type FailedTask struct {
	Task  CreateTaskRequest `json:"task"`
	Error string            `json:"error"`
}

// CreateTasksResponse is the body of a full success.
type CreateTasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

// PartialFailureResponse is the body when at least one task failed.
type PartialFailureResponse struct {
	FailedTasks     []FailedTask  `json:"failedTasks"`
	SuccessfulTasks []models.Task `json:"successfulTasks"`
}

// DescriptionUpdateRequest is the POST /task-description-update payload.
type DescriptionUpdateRequest struct {
	TaskID          string `json:"taskId" validate:"required"`
	ContentToAppend string `json:"contentToAppend" validate:"required"`
}

// DescriptionUpdateResponse wraps the updated task.
type DescriptionUpdateResponse struct {
	Task models.Task `json:"task"`
}

// ErrorResponse is the body of every non-2xx answer produced here.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
