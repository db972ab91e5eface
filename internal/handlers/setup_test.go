package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db *gorm.DB

	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
	taskRepo repository.TaskRepository

	auth     *services.AuthService
	tokens   *services.TokenService
	profiles *services.ProfileService
	teams    *services.TeamService
	tasks    *services.TaskService
	activity *services.ActivityService
}

func setupTestEnv(t *testing.T, generator services.TaskGenerator) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:       db,
		userRepo: repository.NewUserRepository(db),
		teamRepo: repository.NewTeamRepository(db),
		taskRepo: repository.NewTaskRepository(db),
	}
	env.activity = services.NewActivityService(repository.NewActivityLogRepository(db))
	env.auth = services.NewAuthService(env.userRepo)
	env.tokens = services.NewTokenService("test-secret", 5*time.Minute, time.Hour)
	env.profiles = services.NewProfileService(env.userRepo)
	env.teams = services.NewTeamService(env.teamRepo, env.userRepo, env.taskRepo)
	env.tasks = services.NewTaskService(env.taskRepo, env.teamRepo, env.userRepo, env.activity, generator)

	gin.SetMode(gin.TestMode)
	return env
}

func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	user, err := env.auth.Register(context.Background(), services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	return user
}

func (env *testEnv) createAdmin(t *testing.T, username string) *models.User {
	t.Helper()

	user := env.createUser(t, username)
	require.NoError(t, env.db.Model(user).Update("is_staff", true).Error)
	user.IsStaff = true
	return user
}

// createTeam creates a team owned by owner and adds members with the member role.
func (env *testEnv) createTeam(t *testing.T, name string, owner *models.User, members ...*models.User) *models.Team {
	t.Helper()

	ctx := context.Background()
	team := &models.Team{Name: name}
	require.NoError(t, env.teamRepo.CreateWithOwner(ctx, team, owner.ID))
	for _, m := range members {
		require.NoError(t, env.teamRepo.AddMember(ctx, &models.TeamMembership{
			TeamID: team.ID,
			UserID: m.ID,
			Role:   models.TeamRoleMember,
		}))
	}
	return team
}

func (env *testEnv) createTask(t *testing.T, title string, creator *models.User) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:       title,
		Status:      models.TaskStatusPending,
		Priority:    models.TaskPriorityMedium,
		CreatedByID: creator.ID,
	}
	require.NoError(t, env.taskRepo.Create(context.Background(), task))
	return task
}

func (env *testEnv) createTeamTask(t *testing.T, title string, team *models.Team, creator, assignee *models.User) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:        title,
		Status:       models.TaskStatusPending,
		Priority:     models.TaskPriorityMedium,
		CreatedByID:  creator.ID,
		TeamID:       &team.ID,
		AssignedToID: &assignee.ID,
	}
	require.NoError(t, env.taskRepo.Create(context.Background(), task))
	return task
}

func (env *testEnv) activityActions(t *testing.T) []string {
	t.Helper()

	logs, err := env.activity.List(context.Background())
	require.NoError(t, err)
	actions := make([]string, len(logs))
	for i, l := range logs {
		actions[i] = l.Action
	}
	return actions
}

// newAuthContext builds a context as RequireAuth leaves it.
func newAuthContext(t *testing.T, method, url string, body any, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, url, nil)
	case string:
		req = httptest.NewRequest(method, url, bytes.NewBufferString(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
	}
	return c, w
}

// setTeamContext simulates RequireTeamMember.
func (env *testEnv) setTeamContext(t *testing.T, c *gin.Context, team *models.Team, user *models.User) {
	t.Helper()

	member, err := env.teamRepo.FindMembership(context.Background(), team.ID, user.ID)
	require.NoError(t, err)
	c.Set(constants.ContextKeyTeam, team)
	c.Set(constants.ContextKeyMembership, member)
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details"`
}
