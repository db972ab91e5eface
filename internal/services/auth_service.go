package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

const msgUsernameTaken = "A user with that username already exists."

var validate = validator.New()

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user along with an empty member profile.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	fields := apierrors.FieldErrors{}
	switch {
	case username == "":
		fields.Add("username", "This field is required.")
	case len(username) > constants.MaxUsernameLength:
		fields.Add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxUsernameLength))
	}
	if email != "" && validate.Var(email, "email") != nil {
		fields.Add("email", "Enter a valid email address.")
	}
	if len(input.Password) < constants.MinPasswordLength {
		fields.Add("password", "This field is required.")
	}
	if !fields.Empty() {
		return nil, fields
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, apierrors.FieldErrors{"username": {msgUsernameTaken}}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	user, err := newUser(username, email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, &models.Profile{Role: models.ProfileRoleMember}); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			// Lost a race with a concurrent registration.
			return nil, apierrors.FieldErrors{"username": {msgUsernameTaken}}
		case errors.Is(err, repository.ErrCreateUser), errors.Is(err, repository.ErrCreateProfile):
			return nil, ErrFailedToCreateUser
		default:
			return nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// EnsureSuperuser creates a staff superuser unless the username is taken.
// It reports whether a user was created.
func (s *AuthService) EnsureSuperuser(ctx context.Context, input RegisterInput) (bool, error) {
	if input.Username == "" || input.Password == "" {
		return false, nil
	}

	if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to check superuser: %w", err)
	}

	user, err := newUser(input.Username, input.Email, input.Password)
	if err != nil {
		return false, err
	}
	user.IsStaff = true
	user.IsSuperuser = true

	if err := s.userRepo.CreateWithProfile(ctx, user, &models.Profile{Role: models.ProfileRoleLeader}); err != nil {
		return false, fmt.Errorf("failed to create superuser: %w", err)
	}
	return true, nil
}

func newUser(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}, nil
}
