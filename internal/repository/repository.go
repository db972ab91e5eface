package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/team-task-api/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row or document.
	ErrNotFound = errors.New("repository: record not found")
	// ErrAlreadyExists is returned when an insert hits a unique constraint.
	ErrAlreadyExists = errors.New("repository: record already exists")
)

// UserRepository defines the interface for user and profile data access
type UserRepository interface {
	// CreateWithProfile creates a user and its profile in one transaction.
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// ListNotInTeam lists users without a membership in the team
	ListNotInTeam(ctx context.Context, teamID uint64) ([]models.User, error)

	// FindProfile finds the profile of a user with the user preloaded
	FindProfile(ctx context.Context, userID uint64) (*models.Profile, error)

	// UpdateProfile saves profile fields
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	// CreateWithOwner creates a team and the owner membership in one transaction.
	CreateWithOwner(ctx context.Context, team *models.Team, ownerID uint64) error

	// FindByID finds a team by ID
	FindByID(ctx context.Context, id uint64) (*models.Team, error)

	// AddMember inserts a membership unless the (team, user) pair exists,
	// in which case it returns ErrAlreadyExists.
	AddMember(ctx context.Context, member *models.TeamMembership) error

	// FindMembership finds the membership of a user in a team
	FindMembership(ctx context.Context, teamID, userID uint64) (*models.TeamMembership, error)

	// ListMembers lists the memberships of a team with users preloaded
	ListMembers(ctx context.Context, teamID uint64) ([]models.TeamMembership, error)

	// ListMembershipsByUser lists the memberships of a user with teams preloaded
	ListMembershipsByUser(ctx context.Context, userID uint64) ([]models.TeamMembership, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with relations preloaded
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// FindByCreator finds a personal task by ID scoped to its creator
	FindByCreator(ctx context.Context, id, creatorID uint64) (*models.Task, error)

	// FindInTeam finds a task by ID scoped to a team
	FindInTeam(ctx context.Context, id, teamID uint64) (*models.Task, error)

	// List retrieves tasks matching the filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update saves task columns without touching associations
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task
	Delete(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks. Team listings are
// ordered newest first; creator listings keep the store order.
type TaskFilter struct {
	CreatorID    *uint64
	TeamID       *uint64
	AssignedToID *uint64
	Status       models.TaskStatus

	// Personal excludes team tasks.
	Personal bool
}

// ActivityLogRepository is the append-only activity store.
type ActivityLogRepository interface {
	// Append writes one entry
	Append(ctx context.Context, entry *models.ActivityLog) error

	// List returns every entry in insertion order
	List(ctx context.Context) ([]models.ActivityLog, error)
}
