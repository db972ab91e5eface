package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
)

// UserRef represents a user embedded in other responses
type UserRef struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    *string             `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *string             `json:"due_date"`
	CreatedBy      UserRef             `json:"created_by"`
	Team           *uint64             `json:"team"`
	AssignedTo     *UserRef            `json:"assigned_to"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	IsAssignedToMe *bool               `json:"is_assigned_to_me,omitempty"`
}

// CreateTaskRequest is the body of personal and team task creation.
// AssignedTo is only read for team tasks.
type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *string             `json:"due_date"`
	AssignedTo  string              `json:"assigned_to"`
}

// UpdateStatusRequest is the body of a team task status change
type UpdateStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// GenerateTasksRequest is the body of a task suggestion request
type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required,max=10000"`
}

// Conversion functions

// ToUserRef converts a User model to UserRef
func ToUserRef(user models.User) UserRef {
	return UserRef{
		ID:       user.ID,
		Username: user.Username,
	}
}

// FormatDate renders a due date as YYYY-MM-DD
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(constants.DateLayout)
	return &s
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     FormatDate(task.DueDate),
		CreatedBy:   UserRef{ID: task.CreatedByID, Username: task.CreatedBy.Username},
		Team:        task.TeamID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.AssignedToID != nil {
		ref := UserRef{ID: *task.AssignedToID}
		if task.AssignedTo != nil {
			ref.Username = task.AssignedTo.Username
		}
		dto.AssignedTo = &ref
	}

	return dto
}

// ToTeamTaskDTO converts a team task and marks whether viewerID is its assignee
func ToTeamTaskDTO(task models.Task, viewerID uint64) TaskDTO {
	dto := ToTaskDTO(task)
	assigned := task.IsAssignedTo(viewerID)
	dto.IsAssignedToMe = &assigned
	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTeamTaskDTOs converts a slice of team tasks for viewerID
func ToTeamTaskDTOs(tasks []models.Task, viewerID uint64) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTeamTaskDTO(task, viewerID)
	}
	return dtos
}
