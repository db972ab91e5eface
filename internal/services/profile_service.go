package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService serves the caller's own profile.
type ProfileService struct {
	userRepo repository.UserRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// ProfilePatch holds the fields present in a profile update.
type ProfilePatch struct {
	Phone *string
	Bio   *string
	Role  *models.ProfileRole
}

// GetProfile returns the profile of userID with the user preloaded.
func (s *ProfileService) GetProfile(ctx context.Context, userID uint64) (*models.Profile, error) {
	profile, err := s.userRepo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies patch to the profile of userID.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint64, patch ProfilePatch) (*models.Profile, error) {
	fields := apierrors.FieldErrors{}
	if patch.Phone != nil && *patch.Phone != "" && len(*patch.Phone) < constants.MinPhoneLength {
		fields.Add("phone", "Phone number must be at least 10 digits")
	}
	if patch.Role != nil && !patch.Role.Valid() {
		fields.Add("role", fmt.Sprintf("%q is not a valid choice.", *patch.Role))
	}
	if !fields.Empty() {
		return nil, fields
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Phone != nil {
		profile.Phone = *patch.Phone
	}
	if patch.Bio != nil {
		profile.Bio = *patch.Bio
	}
	if patch.Role != nil {
		profile.Role = *patch.Role
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}
