package repository

import (
	"context"

	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task and reloads its relations
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(task).Error; err != nil {
		return err
	}
	return reload(db, task)
}

// FindByID finds a task by ID with relations preloaded
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.WithTaskRelations).
		First(&task, id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// FindByCreator finds a personal task by ID scoped to its creator. Team
// tasks are never returned.
func (r *GormTaskRepository) FindByCreator(ctx context.Context, id, creatorID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.WithTaskRelations, database.Personal).
		Where("tasks.id = ? AND tasks.created_by_id = ?", id, creatorID).
		First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// FindInTeam finds a task by ID scoped to a team
func (r *GormTaskRepository) FindInTeam(ctx context.Context, id, teamID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.WithTaskRelations, database.InTeam(teamID)).
		Where("tasks.id = ?", id).
		First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.WithTaskRelations, database.WithStatus(filter.Status))

	if filter.CreatorID != nil {
		query = query.Where("tasks.created_by_id = ?", *filter.CreatorID)
	}
	if filter.Personal {
		query = query.Scopes(database.Personal)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.TeamID != nil {
		query = query.Scopes(database.InTeam(*filter.TeamID), database.NewestFirst)
	} else {
		query = query.Order("tasks.id ASC")
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves task columns without touching associations
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(task).Error; err != nil {
		return err
	}
	return reload(db, task)
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// reload refreshes relations after a write; stale pointers are cleared so a
// removed assignee does not survive the preload.
func reload(db *gorm.DB, task *models.Task) error {
	task.CreatedBy = models.User{}
	task.AssignedTo = nil
	task.Team = nil
	return db.Scopes(database.WithTaskRelations).First(task, task.ID).Error
}
