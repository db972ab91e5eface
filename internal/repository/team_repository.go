package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithOwner creates a team and its owner membership atomically.
func (r *GormTeamRepository) CreateWithOwner(ctx context.Context, team *models.Team, ownerID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return fmt.Errorf("create team: %w", err)
		}

		owner := &models.TeamMembership{
			TeamID:   team.ID,
			UserID:   ownerID,
			Role:     models.TeamRoleOwner,
			JoinedAt: time.Now(),
		}
		if err := tx.Omit(clause.Associations).Create(owner).Error; err != nil {
			return fmt.Errorf("create owner membership: %w", err)
		}

		return nil
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

// AddMember is a single insert-if-absent on the (team, user) unique index.
func (r *GormTeamRepository) AddMember(ctx context.Context, member *models.TeamMembership) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}

	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(member)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// FindMembership finds the membership of a user in a team
func (r *GormTeamRepository) FindMembership(ctx context.Context, teamID, userID uint64) (*models.TeamMembership, error) {
	var member models.TeamMembership
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// ListMembers lists the memberships of a team with users preloaded
func (r *GormTeamRepository) ListMembers(ctx context.Context, teamID uint64) ([]models.TeamMembership, error) {
	var members []models.TeamMembership
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Order("joined_at ASC").
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUser lists the memberships of a user with teams preloaded
func (r *GormTeamRepository) ListMembershipsByUser(ctx context.Context, userID uint64) ([]models.TeamMembership, error) {
	var members []models.TeamMembership
	if err := r.db.WithContext(ctx).
		Preload("Team").
		Where("user_id = ?", userID).
		Order("team_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
