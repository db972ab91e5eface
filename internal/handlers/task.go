package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks created by the current user
// Can filter by status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	status := models.TaskStatus(c.Query("status"))

	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID, status)
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a personal task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, _ := middleware.GetUser(c)

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	input, fields := taskInput(req.Title, req.Description, req.Status, req.Priority, req.DueDate)
	if !fields.Empty() {
		apierrors.ValidationFailed(c, fields)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), user, input)
	if err != nil {
		if respondFieldErrors(c, err) {
			return
		}
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, _ := middleware.GetTask(c)
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ReplaceTask updates every writable field of a task
func (h *TaskHandler) ReplaceTask(c *gin.Context) {
	h.updateTask(c, true)
}

// PatchTask updates the fields present in the request body
func (h *TaskHandler) PatchTask(c *gin.Context) {
	h.updateTask(c, false)
}

func (h *TaskHandler) updateTask(c *gin.Context, replace bool) {
	user, _ := middleware.GetUser(c)
	task, _ := middleware.GetTask(c)

	raw, ok := bindRawJSON(c)
	if !ok {
		return
	}

	patch, fields := decodeTaskPatch(raw)
	if !fields.Empty() {
		apierrors.ValidationFailed(c, fields)
		return
	}

	var err error
	if replace {
		task, err = h.taskService.ReplaceTask(c.Request.Context(), user, task, patch)
	} else {
		task, err = h.taskService.PatchTask(c.Request.Context(), user, task, patch)
	}
	if err != nil {
		if respondFieldErrors(c, err) {
			return
		}
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	task, _ := middleware.GetTask(c)

	if err := h.taskService.DeleteTask(c.Request.Context(), user, task); err != nil {
		respondInternal(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	generatedTasks, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{Text: req.Text})
	if err != nil {
		switch {
		case respondFieldErrors(c, err):
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
			apierrors.BadRequest(c, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generatedTasks,
	})
}
