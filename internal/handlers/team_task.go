package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/services"
)

type TeamTaskHandler struct {
	taskService *services.TaskService
}

func NewTeamTaskHandler(taskService *services.TaskService) *TeamTaskHandler {
	return &TeamTaskHandler{
		taskService: taskService,
	}
}

// CreateTeamTask creates a task in the team assigned to a member
func (h *TeamTaskHandler) CreateTeamTask(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	input, fields := taskInput(req.Title, req.Description, req.Status, req.Priority, req.DueDate)
	if !fields.Empty() {
		if strings.TrimSpace(req.AssignedTo) == "" {
			fields.Add("assigned_to", "This field is required.")
		}
		apierrors.ValidationFailed(c, fields)
		return
	}

	task, err := h.taskService.CreateTeamTask(c.Request.Context(), actor, services.TeamTaskInput{
		TaskInput:  input,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTeamOwner):
			apierrors.Forbidden(c, "Only team owner can create tasks")
		case errors.Is(err, services.ErrAssigneeRequired):
			apierrors.ValidationFailed(c, apierrors.FieldErrors{"assigned_to": {"This field is required."}})
		case respondFieldErrors(c, err):
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "Assigned user not found")
		case errors.Is(err, services.ErrAssigneeNotMember):
			apierrors.BadRequest(c, "Assigned user is not a member of this team")
		default:
			respondInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTeamTaskDTO(*task, actor.User.ID),
	})
}

// MyTasks returns the team tasks assigned to the current user
func (h *TeamTaskHandler) MyTasks(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	tasks, err := h.taskService.MyTeamTasks(c.Request.Context(), actor)
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTeamTaskDTOs(tasks, actor.User.ID),
	})
}

// UpdateStatus changes the status of a team task assigned to the current user
func (h *TeamTaskHandler) UpdateStatus(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return
	}

	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTeamTaskStatus(c.Request.Context(), actor, taskID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, services.ErrNotTaskAssignee):
			apierrors.Forbidden(c, "Only the assigned user can update task status")
		case errors.Is(err, services.ErrInvalidStatus):
			apierrors.ValidationFailed(c, apierrors.FieldErrors{"status": {"Invalid status"}})
		default:
			respondInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated successfully",
		"task":    dto.ToTeamTaskDTO(*task, actor.User.ID),
	})
}

// DeleteTeamTask deletes a task of the team
func (h *TeamTaskHandler) DeleteTeamTask(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if err := h.taskService.DeleteTeamTask(c.Request.Context(), actor, taskID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotTeamOwner):
			apierrors.Forbidden(c, "Only team owner can delete tasks")
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		default:
			respondInternal(c, err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// MemberTasks returns the team tasks assigned to one member
func (h *TeamTaskHandler) MemberTasks(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	memberID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Member not found in this team")
		return
	}

	member, tasks, err := h.taskService.MemberTasks(c.Request.Context(), actor, memberID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			apierrors.NotFound(c, "Member not found in this team")
			return
		}
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member": dto.ToUserRef(*member),
		"tasks":  dto.ToTeamTaskDTOs(tasks, actor.User.ID),
	})
}
