package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrNotAdmin          = errors.New("only administrators can create teams")
	ErrNotTeamMember     = errors.New("you are not a member of this team")
	ErrNotTeamOwner      = errors.New("only the team owner can perform this action")
	ErrAlreadyTeamMember = errors.New("user is already a member of this team")
)

// TeamActor is the caller resolved against one team by the team gate.
type TeamActor struct {
	User       *models.User
	Team       *models.Team
	Membership *models.TeamMembership
}

// IsOwner reports whether the caller owns the team.
func (a TeamActor) IsOwner() bool {
	return a.Membership != nil && a.Membership.Role == models.TeamRoleOwner
}

// TeamService provides business logic for team operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, taskRepo repository.TaskRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Description *string
}

// CreateTeam creates a team owned by actor. Only administrators may create teams.
func (s *TeamService) CreateTeam(ctx context.Context, actor *models.User, input CreateTeamInput) (*models.Team, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAdmin
	}

	name := strings.TrimSpace(input.Name)
	fields := apierrors.FieldErrors{}
	switch {
	case name == "":
		fields.Add("name", "This field is required.")
	case len(name) > constants.MaxTeamNameLength:
		fields.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxTeamNameLength))
	}
	if input.Description != nil && len(*input.Description) > constants.MaxTeamDescLength {
		fields.Add("description", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxTeamDescLength))
	}
	if !fields.Empty() {
		return nil, fields
	}

	team := &models.Team{
		Name:        name,
		Description: input.Description,
	}
	if err := s.teamRepo.CreateWithOwner(ctx, team, actor.ID); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// GetTeam returns a team by ID.
func (s *TeamService) GetTeam(ctx context.Context, teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// Membership returns the membership of userID in teamID.
func (s *TeamService) Membership(ctx context.Context, teamID, userID uint64) (*models.TeamMembership, error) {
	member, err := s.teamRepo.FindMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}

// RoleInTeam returns the role of userID in teamID; ok is false without a membership.
func (s *TeamService) RoleInTeam(ctx context.Context, teamID, userID uint64) (role models.TeamRole, ok bool, err error) {
	member, err := s.Membership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, ErrNotTeamMember) {
			return "", false, nil
		}
		return "", false, err
	}
	return member.Role, true, nil
}

// ListTeamsForUser returns the memberships of userID with teams loaded.
func (s *TeamService) ListTeamsForUser(ctx context.Context, userID uint64) ([]models.TeamMembership, error) {
	memberships, err := s.teamRepo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return memberships, nil
}

// AddMember adds the user named username to the actor's team as a member.
func (s *TeamService) AddMember(ctx context.Context, actor TeamActor, username string) (*models.User, error) {
	if !actor.IsOwner() {
		return nil, ErrNotTeamOwner
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apierrors.FieldErrors{"username": {"This field is required."}}
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	member := &models.TeamMembership{
		TeamID: actor.Team.ID,
		UserID: user.ID,
		Role:   models.TeamRoleMember,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadyTeamMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return user, nil
}

// AvailableUsers lists users that are not yet members of the actor's team.
func (s *TeamService) AvailableUsers(ctx context.Context, actor TeamActor) ([]models.User, error) {
	users, err := s.userRepo.ListNotInTeam(ctx, actor.Team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available users: %w", err)
	}
	return users, nil
}

// ListMembers lists the memberships of the actor's team.
func (s *TeamService) ListMembers(ctx context.Context, actor TeamActor) ([]models.TeamMembership, error) {
	members, err := s.teamRepo.ListMembers(ctx, actor.Team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// TeamDetails is the full view of a team for one of its members.
type TeamDetails struct {
	Team    *models.Team
	Members []models.TeamMembership
	Tasks   []models.Task
	Owner   *models.User
	Role    models.TeamRole
	IsOwner bool
}

// Details returns the team with its members and all of its tasks.
func (s *TeamService) Details(ctx context.Context, actor TeamActor) (*TeamDetails, error) {
	members, err := s.ListMembers(ctx, actor)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{TeamID: &actor.Team.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list team tasks: %w", err)
	}

	details := &TeamDetails{
		Team:    actor.Team,
		Members: members,
		Tasks:   tasks,
		Role:    actor.Membership.Role,
		IsOwner: actor.IsOwner(),
	}
	for i := range members {
		if members[i].Role == models.TeamRoleOwner {
			details.Owner = &members[i].User
			break
		}
	}
	return details, nil
}
