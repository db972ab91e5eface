package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrMemberNotFound         = errors.New("member not found in this team")
	ErrAssigneeRequired       = errors.New("assigned_to is required for team tasks")
	ErrAssigneeNotMember      = errors.New("assigned user is not a member of this team")
	ErrNotTaskAssignee        = errors.New("only the assignee can update the status of this task")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// Activity log actions.
const (
	ActionCreatedTask = "created task"
	ActionUpdatedTask = "updated task"
	ActionDeletedTask = "deleted task"
)

// TaskGenerator extracts task drafts from free text.
type TaskGenerator interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

// TaskService handles personal and team task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	teamRepo  repository.TeamRepository
	userRepo  repository.UserRepository
	activity  *ActivityService
	generator TaskGenerator
}

// NewTaskService creates a new TaskService. generator may be nil.
func NewTaskService(
	taskRepo repository.TaskRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	activity *ActivityService,
	generator TaskGenerator,
) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		activity:  activity,
		generator: generator,
	}
}

// TaskInput represents input for creating a task
type TaskInput struct {
	Title       string
	Description *string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// TaskPatch holds the fields present in an update. Clear* flags mark
// fields sent as null.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *models.TaskStatus
	Priority         *models.TaskPriority
	DueDate          *time.Time
	ClearDueDate     bool
}

// TeamTaskInput represents input for creating a team task
type TeamTaskInput struct {
	TaskInput
	AssignedTo string
}

// ListTasks returns the personal tasks created by userID. An unknown status matches nothing.
func (s *TaskService) ListTasks(ctx context.Context, userID uint64, status models.TaskStatus) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		CreatorID: &userID,
		Status:    status,
		Personal:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetOwnTask returns a personal task only if userID created it.
func (s *TaskService) GetOwnTask(ctx context.Context, userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByCreator(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a personal task for actor.
func (s *TaskService) CreateTask(ctx context.Context, actor *models.User, input TaskInput) (*models.Task, error) {
	task, err := newTask(input)
	if err != nil {
		return nil, err
	}
	task.CreatedByID = actor.ID

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if err := s.activity.Record(ctx, actor, ActionCreatedTask, task.ID); err != nil {
		return nil, err
	}

	return task, nil
}

// ReplaceTask applies a full update; title is required.
func (s *TaskService) ReplaceTask(ctx context.Context, actor *models.User, task *models.Task, patch TaskPatch) (*models.Task, error) {
	if patch.Title == nil {
		return nil, apierrors.FieldErrors{"title": {"This field is required."}}
	}
	return s.PatchTask(ctx, actor, task, patch)
}

// PatchTask applies the fields present in patch to a task actor created.
func (s *TaskService) PatchTask(ctx context.Context, actor *models.User, task *models.Task, patch TaskPatch) (*models.Task, error) {
	if err := applyPatch(task, patch); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if err := s.activity.Record(ctx, actor, ActionUpdatedTask, task.ID); err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask deletes a task actor created.
func (s *TaskService) DeleteTask(ctx context.Context, actor *models.User, task *models.Task) error {
	taskID := task.ID
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return s.activity.Record(ctx, actor, ActionDeletedTask, taskID)
}

// CreateTeamTask creates a task in the actor's team assigned to a member.
func (s *TaskService) CreateTeamTask(ctx context.Context, actor TeamActor, input TeamTaskInput) (*models.Task, error) {
	if !actor.IsOwner() {
		return nil, ErrNotTeamOwner
	}

	assignedTo := strings.TrimSpace(input.AssignedTo)
	if assignedTo == "" {
		return nil, ErrAssigneeRequired
	}

	task, err := newTask(input.TaskInput)
	if err != nil {
		return nil, err
	}

	assignee, err := s.userRepo.FindByUsername(ctx, assignedTo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if _, err := s.teamRepo.FindMembership(ctx, actor.Team.ID, assignee.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssigneeNotMember
		}
		return nil, fmt.Errorf("failed to check assignee membership: %w", err)
	}

	task.CreatedByID = actor.User.ID
	task.TeamID = &actor.Team.ID
	task.AssignedToID = &assignee.ID

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create team task: %w", err)
	}
	if err := s.activity.Record(ctx, actor.User, fmt.Sprintf("created team task '%s'", task.Title), task.ID); err != nil {
		return nil, err
	}

	return task, nil
}

// MyTeamTasks returns the team tasks assigned to the actor, newest first.
func (s *TaskService) MyTeamTasks(ctx context.Context, actor TeamActor) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		TeamID:       &actor.Team.ID,
		AssignedToID: &actor.User.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list team tasks: %w", err)
	}
	return tasks, nil
}

// MemberTasks returns the team tasks assigned to memberID, newest first.
func (s *TaskService) MemberTasks(ctx context.Context, actor TeamActor, memberID uint64) (*models.User, []models.Task, error) {
	if _, err := s.teamRepo.FindMembership(ctx, actor.Team.ID, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrMemberNotFound
		}
		return nil, nil, fmt.Errorf("failed to find member: %w", err)
	}

	member, err := s.userRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrMemberNotFound
		}
		return nil, nil, fmt.Errorf("failed to find member: %w", err)
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		TeamID:       &actor.Team.ID,
		AssignedToID: &memberID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list member tasks: %w", err)
	}
	return member, tasks, nil
}

// UpdateTeamTaskStatus sets the status of a team task. Only the assignee may
// do so; any status may follow any other.
func (s *TaskService) UpdateTeamTaskStatus(ctx context.Context, actor TeamActor, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	task, err := s.findTeamTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsAssignedTo(actor.User.ID) {
		return nil, ErrNotTaskAssignee
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	previous := task.Status
	task.Status = status
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	action := fmt.Sprintf("updated task status from '%s' to '%s'", previous, status)
	if err := s.activity.Record(ctx, actor.User, action, task.ID); err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTeamTask deletes a task of the actor's team. Owner only.
func (s *TaskService) DeleteTeamTask(ctx context.Context, actor TeamActor, taskID uint64) error {
	if !actor.IsOwner() {
		return ErrNotTeamOwner
	}

	task, err := s.findTeamTask(ctx, actor, taskID)
	if err != nil {
		return err
	}

	id, title := task.ID, task.Title
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team task: %w", err)
	}
	return s.activity.Record(ctx, actor.User, fmt.Sprintf("deleted team task '%s'", title), id)
}

func (s *TaskService) findTeamTask(ctx context.Context, actor TeamActor, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindInTeam(ctx, taskID, actor.Team.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text string
}

// GenerateTasks uses AI to draft tasks from text. Nothing is persisted.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, apierrors.FieldErrors{"text": {"This field is required."}}
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	today := time.Now().Format(constants.DateLayout)
	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" || len(aiTask.Title) > constants.MaxTitleLength {
			continue
		}
		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.TaskPriorityMedium
		}
		aiTask.DueDate = normalizeDueDate(aiTask.DueDate, today)

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// normalizeDueDate reduces a date or timestamp to YYYY-MM-DD and drops it
// when unparseable or already past.
func normalizeDueDate(raw *string, today string) *string {
	if raw == nil {
		return nil
	}

	var day string
	if t, err := time.Parse(constants.DateLayout, *raw); err == nil {
		day = t.Format(constants.DateLayout)
	} else if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		day = t.Format(constants.DateLayout)
	} else {
		return nil
	}

	if day < today {
		return nil
	}
	return &day
}

func newTask(input TaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	if fields := validateTask(task); !fields.Empty() {
		return nil, fields
	}
	return task, nil
}

func applyPatch(task *models.Task, patch TaskPatch) error {
	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.ClearDescription {
		task.Description = nil
	} else if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if fields := validateTask(task); !fields.Empty() {
		return fields
	}
	return nil
}

func validateTask(task *models.Task) apierrors.FieldErrors {
	fields := apierrors.FieldErrors{}
	switch {
	case task.Title == "":
		fields.Add("title", "This field may not be blank.")
	case len(task.Title) > constants.MaxTitleLength:
		fields.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxTitleLength))
	}
	if !task.Status.Valid() {
		fields.Add("status", fmt.Sprintf("%q is not a valid choice.", task.Status))
	}
	if !task.Priority.Valid() {
		fields.Add("priority", fmt.Sprintf("%q is not a valid choice.", task.Priority))
	}
	return fields
}
