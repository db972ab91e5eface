package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/team-task-api/internal/models"
)

// WithTaskRelations preloads the users and team a task DTO renders.
func WithTaskRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("CreatedBy").Preload("AssignedTo").Preload("Team")
}

// NewestFirst orders tasks by creation time, newest first.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.created_at DESC").Order("tasks.id DESC")
}

// WithStatus filters by exact status; an empty status leaves the query as is.
func WithStatus(status models.TaskStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("tasks.status = ?", status)
	}
}

// Personal restricts a task query to tasks outside any team.
func Personal(db *gorm.DB) *gorm.DB {
	return db.Where("tasks.team_id IS NULL")
}

// InTeam restricts a task query to one team.
func InTeam(teamID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.team_id = ?", teamID)
	}
}
