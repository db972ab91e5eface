package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/team-task-api/internal/metrics"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
)

// ActivityService appends to and reads the activity log.
type ActivityService struct {
	repo repository.ActivityLogRepository
	now  func() time.Time
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{
		repo: repo,
		now:  time.Now,
	}
}

// Record appends one entry for an action user took on a task.
func (s *ActivityService) Record(ctx context.Context, user *models.User, action string, taskID uint64) error {
	entry := &models.ActivityLog{
		User:      user.Username,
		Action:    action,
		TaskID:    strconv.FormatUint(taskID, 10),
		Timestamp: s.now().UTC(),
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	kind, _, _ := strings.Cut(action, " ")
	metrics.ObserveActivity(kind)
	return nil
}

// List returns all entries in insertion order.
func (s *ActivityService) List(ctx context.Context) ([]models.ActivityLog, error) {
	logs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return logs, nil
}
