package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
)

// RegisterRequest is the body of registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of a token refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// CurrentUserDTO is the user returned on login
type CurrentUserDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// ProfileDTO is the self-service profile view
type ProfileDTO struct {
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Phone    string             `json:"phone"`
	Bio      string             `json:"bio"`
	Role     models.ProfileRole `json:"role"`
}

// ProfileUpdateRequest is the body of a profile patch
type ProfileUpdateRequest struct {
	Phone *string             `json:"phone"`
	Bio   *string             `json:"bio"`
	Role  *models.ProfileRole `json:"role"`
}

// ActivityLogDTO is one activity entry
type ActivityLogDTO struct {
	User      string `json:"user"`
	Action    string `json:"action"`
	TaskID    string `json:"task_id"`
	Timestamp string `json:"timestamp"`
}

// ToCurrentUserDTO converts a User model to CurrentUserDTO
func ToCurrentUserDTO(user models.User) CurrentUserDTO {
	return CurrentUserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

// ToProfileDTO converts a Profile with its preloaded user
func ToProfileDTO(profile models.Profile) ProfileDTO {
	return ProfileDTO{
		Username: profile.User.Username,
		Email:    profile.User.Email,
		Phone:    profile.Phone,
		Bio:      profile.Bio,
		Role:     profile.Role,
	}
}

// ToActivityLogDTOs converts entries with RFC 3339 timestamps
func ToActivityLogDTOs(logs []models.ActivityLog) []ActivityLogDTO {
	dtos := make([]ActivityLogDTO, len(logs))
	for i, l := range logs {
		dtos[i] = ActivityLogDTO{
			User:      l.User,
			Action:    l.Action,
			TaskID:    l.TaskID,
			Timestamp: l.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return dtos
}
