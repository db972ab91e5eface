package database

import (
	"fmt"

	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns string
}

// compositeIndexes back the listing queries; single-column indexes come
// from the model tags.
var compositeIndexes = []compositeIndex{
	// Personal task list filtered by status
	{"tasks", "idx_tasks_created_by_status", "created_by_id, status"},
	// Team task listings, newest first
	{"tasks", "idx_tasks_team_created_at", "team_id, created_at"},
	// my-tasks and member task listings
	{"tasks", "idx_tasks_team_assignee", "team_id, assigned_to_id"},
	{"team_memberships", "idx_team_memberships_user", "user_id"},
}

// AddIndexes creates the composite indexes that AutoMigrate cannot express.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
