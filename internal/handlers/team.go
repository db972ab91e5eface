package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// ListTeams returns the teams the current user belongs to with their role
func (h *TeamHandler) ListTeams(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	memberships, err := h.teamService.ListTeamsForUser(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamListItemDTOs(memberships))
}

// CreateTeam creates a team owned by the calling administrator
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	user, _ := middleware.GetUser(c)

	var req dto.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), user, services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAdmin):
			apierrors.Forbidden(c, "Only administrators can create teams")
		case respondFieldErrors(c, err):
		default:
			respondInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team created successfully",
		"team":    dto.ToTeamDTO(*team),
	})
}

// AddMember adds a user to the team by username
func (h *TeamHandler) AddMember(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.teamService.AddMember(c.Request.Context(), actor, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTeamOwner):
			apierrors.Forbidden(c, "Only team owner can add members")
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrAlreadyTeamMember):
			apierrors.BadRequest(c, "User is already a member of this team")
		case respondFieldErrors(c, err):
		default:
			respondInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User " + user.Username + " added to team successfully",
	})
}

// AvailableUsers lists users that can still be added to the team
func (h *TeamHandler) AvailableUsers(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	users, err := h.teamService.AvailableUsers(c.Request.Context(), actor)
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available_users": dto.ToAvailableUserDTOs(users),
	})
}

// ListMembers lists the members of the team with their roles
func (h *TeamHandler) ListMembers(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	members, err := h.teamService.ListMembers(c.Request.Context(), actor)
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToMemberDTOs(members, actor.User.ID),
	})
}

// Details returns the team with its members and tasks
func (h *TeamHandler) Details(c *gin.Context) {
	actor, _ := middleware.GetTeamActor(c)

	details, err := h.teamService.Details(c.Request.Context(), actor)
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailsDTO(details, actor.User.ID))
}
