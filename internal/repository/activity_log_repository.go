package repository

import (
	"context"

	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityLogRepository stores activity entries in the relational database.
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a relational ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Append writes one entry
func (r *GormActivityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns every entry in insertion order
func (r *GormActivityLogRepository) List(ctx context.Context) ([]models.ActivityLog, error) {
	logs := []models.ActivityLog{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
