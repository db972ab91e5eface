package models

import "time"

// ActivityLog is an append-only audit entry. User holds the actor's
// username rather than a foreign key so entries outlive their users.
type ActivityLog struct {
	ID        uint64    `gorm:"primarykey" json:"-"`
	User      string    `gorm:"type:varchar(150);not null" json:"user"`
	Action    string    `gorm:"type:varchar(255);not null" json:"action"`
	TaskID    string    `gorm:"type:varchar(64);not null" json:"task_id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
