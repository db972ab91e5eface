package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(254)" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile       *Profile         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedTasks  []Task           `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedTasks []Task           `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"-"`
	Memberships   []TeamMembership `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin mirrors the staff-or-superuser gate used for admin-only endpoints.
func (u User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}
