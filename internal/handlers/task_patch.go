package handlers

import (
	"encoding/json"

	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// decodeTaskPatch reads the fields present in a task update body. Explicit
// nulls on description and due_date clear them; read-only fields are ignored.
func decodeTaskPatch(raw map[string]json.RawMessage) (services.TaskPatch, apierrors.FieldErrors) {
	var patch services.TaskPatch
	fields := apierrors.FieldErrors{}

	if v, ok := raw["title"]; ok {
		var title *string
		if err := json.Unmarshal(v, &title); err != nil {
			fields.Add("title", "Not a valid string.")
		} else if title == nil {
			fields.Add("title", "This field may not be null.")
		} else {
			patch.Title = title
		}
	}

	if v, ok := raw["description"]; ok {
		var desc *string
		if err := json.Unmarshal(v, &desc); err != nil {
			fields.Add("description", "Not a valid string.")
		} else if desc == nil {
			patch.ClearDescription = true
		} else {
			patch.Description = desc
		}
	}

	if v, ok := raw["status"]; ok {
		var status models.TaskStatus
		if err := json.Unmarshal(v, &status); err != nil {
			fields.Add("status", "Not a valid string.")
		} else {
			patch.Status = &status
		}
	}

	if v, ok := raw["priority"]; ok {
		var priority models.TaskPriority
		if err := json.Unmarshal(v, &priority); err != nil {
			fields.Add("priority", "Not a valid string.")
		} else {
			patch.Priority = &priority
		}
	}

	if v, ok := raw["due_date"]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			fields.Add("due_date", "Not a valid string.")
		} else if s == nil {
			patch.ClearDueDate = true
		} else if due, err := parseDate(s); err != nil {
			fields.Add("due_date", msgDateFormat)
		} else if due == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = due
		}
	}

	return patch, fields
}

// taskInput converts a create request into service input.
func taskInput(title string, description *string, status models.TaskStatus, priority models.TaskPriority, dueDate *string) (services.TaskInput, apierrors.FieldErrors) {
	fields := apierrors.FieldErrors{}
	due, err := parseDate(dueDate)
	if err != nil {
		fields.Add("due_date", msgDateFormat)
	}
	return services.TaskInput{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     due,
	}, fields
}
