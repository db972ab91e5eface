package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TeamListItemDTO is a team together with the caller's role in it
type TeamListItemDTO struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Role        models.TeamRole `json:"role"`
}

// MemberDTO represents a team membership
type MemberDTO struct {
	ID            uint64          `json:"id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	Role          models.TeamRole `json:"role"`
	IsCurrentUser bool            `json:"is_current_user"`
}

// AvailableUserDTO is a user that can still be added to a team
type AvailableUserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TeamDetailsDTO is the full team view
type TeamDetailsDTO struct {
	Team            TeamDTO         `json:"team"`
	Members         []MemberDTO     `json:"members"`
	Tasks           []TaskDTO       `json:"tasks"`
	TotalMembers    int             `json:"total_members"`
	TotalTasks      int             `json:"total_tasks"`
	CurrentUserRole models.TeamRole `json:"current_user_role"`
	IsOwner         bool            `json:"is_owner"`
	Owner           *UserRef        `json:"owner"`
}

// CreateTeamRequest is the body of team creation
type CreateTeamRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// AddMemberRequest is the body of adding a member
type AddMemberRequest struct {
	Username string `json:"username" binding:"required"`
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		CreatedAt:   team.CreatedAt,
	}
}

// ToTeamListItemDTOs converts memberships with preloaded teams
func ToTeamListItemDTOs(memberships []models.TeamMembership) []TeamListItemDTO {
	dtos := make([]TeamListItemDTO, len(memberships))
	for i, m := range memberships {
		dtos[i] = TeamListItemDTO{
			ID:          m.Team.ID,
			Name:        m.Team.Name,
			Description: m.Team.Description,
			Role:        m.Role,
		}
	}
	return dtos
}

// ToMemberDTOs converts memberships with preloaded users
func ToMemberDTOs(members []models.TeamMembership, viewerID uint64) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = MemberDTO{
			ID:            m.User.ID,
			Username:      m.User.Username,
			Email:         m.User.Email,
			Role:          m.Role,
			IsCurrentUser: m.UserID == viewerID,
		}
	}
	return dtos
}

// ToAvailableUserDTOs converts users
func ToAvailableUserDTOs(users []models.User) []AvailableUserDTO {
	dtos := make([]AvailableUserDTO, len(users))
	for i, u := range users {
		dtos[i] = AvailableUserDTO{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return dtos
}

// ToTeamDetailsDTO converts service details for viewerID
func ToTeamDetailsDTO(details *services.TeamDetails, viewerID uint64) TeamDetailsDTO {
	dto := TeamDetailsDTO{
		Team:            ToTeamDTO(*details.Team),
		Members:         ToMemberDTOs(details.Members, viewerID),
		Tasks:           ToTeamTaskDTOs(details.Tasks, viewerID),
		TotalMembers:    len(details.Members),
		TotalTasks:      len(details.Tasks),
		CurrentUserRole: details.Role,
		IsOwner:         details.IsOwner,
	}
	if details.Owner != nil {
		owner := ToUserRef(*details.Owner)
		dto.Owner = &owner
	}
	return dto
}
