package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// TeamGate resolves teams and memberships for the team middleware.
type TeamGate interface {
	GetTeam(ctx context.Context, teamID uint64) (*models.Team, error)
	Membership(ctx context.Context, teamID, userID uint64) (*models.TeamMembership, error)
}

// RequireTeamMember checks that the team in the "id" parameter exists and
// that the caller holds any role in it.
func RequireTeamMember(teams TeamGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.NotFound(c, "Team not found")
			return
		}

		user, ok := GetUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		team, err := teams.GetTeam(c.Request.Context(), teamID)
		if err != nil {
			if errors.Is(err, services.ErrTeamNotFound) {
				apierrors.NotFound(c, "Team not found")
				return
			}
			apierrors.InternalError(c, "")
			return
		}

		member, err := teams.Membership(c.Request.Context(), teamID, user.ID)
		if err != nil {
			if errors.Is(err, services.ErrNotTeamMember) {
				apierrors.Forbidden(c, "You are not a member of this team")
				return
			}
			apierrors.InternalError(c, "")
			return
		}

		// Store team and membership in context
		c.Set(constants.ContextKeyTeam, team)
		c.Set(constants.ContextKeyMembership, member)
		c.Next()
	}
}

// RequireTeamOwner checks that the caller owns the team. Must run after RequireTeamMember.
func RequireTeamOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetTeamActor(c)
		if !ok {
			apierrors.Forbidden(c, "Team access required")
			return
		}
		if !actor.IsOwner() {
			apierrors.Forbidden(c, services.ErrNotTeamOwner.Error())
			return
		}
		c.Next()
	}
}

// GetTeamActor returns the caller resolved against the current team.
func GetTeamActor(c *gin.Context) (services.TeamActor, bool) {
	user, ok := GetUser(c)
	if !ok {
		return services.TeamActor{}, false
	}
	teamValue, ok := c.Get(constants.ContextKeyTeam)
	if !ok {
		return services.TeamActor{}, false
	}
	memberValue, ok := c.Get(constants.ContextKeyMembership)
	if !ok {
		return services.TeamActor{}, false
	}

	team, ok := teamValue.(*models.Team)
	if !ok {
		return services.TeamActor{}, false
	}
	member, ok := memberValue.(*models.TeamMembership)
	if !ok {
		return services.TeamActor{}, false
	}

	return services.TeamActor{User: user, Team: team, Membership: member}, true
}
