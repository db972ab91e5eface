package models

import "time"

type ProfileRole string

const (
	ProfileRoleLeader ProfileRole = "leader"
	ProfileRoleMember ProfileRole = "member"
)

// Valid reports whether r is an assignable profile role.
func (r ProfileRole) Valid() bool {
	return r == ProfileRoleLeader || r == ProfileRoleMember
}

type Profile struct {
	ID        uint64      `gorm:"primarykey" json:"id"`
	UserID    uint64      `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone     string      `gorm:"type:varchar(20)" json:"phone"`
	Bio       string      `gorm:"type:text" json:"bio"`
	Role      ProfileRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
