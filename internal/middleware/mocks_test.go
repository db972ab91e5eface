package middleware

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yukikurage/team-task-api/internal/models"
)

type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) ParseAccess(token string) (uint64, error) {
	args := m.Called(token)
	return args.Get(0).(uint64), args.Error(1)
}

type MockUserLoader struct {
	mock.Mock
}

func (m *MockUserLoader) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTeamGate struct {
	mock.Mock
}

func (m *MockTeamGate) GetTeam(ctx context.Context, teamID uint64) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if t := args.Get(0); t != nil {
		return t.(*models.Team), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTeamGate) Membership(ctx context.Context, teamID, userID uint64) (*models.TeamMembership, error) {
	args := m.Called(ctx, teamID, userID)
	if tm := args.Get(0); tm != nil {
		return tm.(*models.TeamMembership), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOwnTaskLoader struct {
	mock.Mock
}

func (m *MockOwnTaskLoader) GetOwnTask(ctx context.Context, userID, taskID uint64) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if t := args.Get(0); t != nil {
		return t.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}
