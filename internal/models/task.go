package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the three task states. Any state may
// follow any other.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(100);not null" json:"title"`
	Description  *string      `gorm:"type:text" json:"description"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate      *time.Time   `gorm:"type:date" json:"due_date"`
	CreatedByID  uint64       `gorm:"not null;index" json:"created_by_id"`
	TeamID       *uint64      `gorm:"index" json:"team_id"`
	AssignedToID *uint64      `gorm:"index" json:"assigned_to_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	CreatedBy  User  `gorm:"foreignKey:CreatedByID" json:"-"`
	Team       *Team `gorm:"foreignKey:TeamID" json:"-"`
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"-"`
}

// IsTeamTask reports whether the task belongs to a team.
func (t Task) IsTeamTask() bool {
	return t.TeamID != nil
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t Task) IsAssignedTo(userID uint64) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}
