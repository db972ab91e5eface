package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// withUser stands in for RequireAuth.
func withUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

func newTeamRouter(gate TeamGate, user *models.User) *gin.Engine {
	r := gin.New()
	team := r.Group("/teams/:id", withUser(user), RequireTeamMember(gate))
	team.GET("/members/", func(c *gin.Context) {
		actor, ok := GetTeamActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"team": actor.Team.ID, "owner": actor.IsOwner()})
	})
	team.POST("/add-member/", RequireTeamOwner(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRequireTeamMember(t *testing.T) {
	user := &models.User{ID: 2, Username: "bob"}
	gate := new(MockTeamGate)
	gate.On("GetTeam", mock.Anything, uint64(1)).Return(&models.Team{ID: 1, Name: "Alpha"}, nil)
	gate.On("Membership", mock.Anything, uint64(1), uint64(2)).
		Return(&models.TeamMembership{TeamID: 1, UserID: 2, Role: models.TeamRoleMember}, nil)
	gate.On("GetTeam", mock.Anything, uint64(2)).Return(&models.Team{ID: 2, Name: "Beta"}, nil)
	gate.On("Membership", mock.Anything, uint64(2), uint64(2)).Return(nil, services.ErrNotTeamMember)
	gate.On("GetTeam", mock.Anything, uint64(404)).Return(nil, services.ErrTeamNotFound)
	gate.On("GetTeam", mock.Anything, uint64(500)).Return(nil, errors.New("db down"))

	r := newTeamRouter(gate, user)

	w := serve(r, http.MethodGet, "/teams/1/members/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"team":1,"owner":false}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/teams/2/members/").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/teams/404/members/").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/teams/abc/members/").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, "/teams/500/members/").Code)

	// a missing team is reported before membership is looked up
	gate.AssertNotCalled(t, "Membership", mock.Anything, uint64(404), mock.Anything)
}

func TestRequireTeamOwner(t *testing.T) {
	gate := new(MockTeamGate)
	gate.On("GetTeam", mock.Anything, uint64(1)).Return(&models.Team{ID: 1}, nil)
	gate.On("Membership", mock.Anything, uint64(1), uint64(1)).
		Return(&models.TeamMembership{TeamID: 1, UserID: 1, Role: models.TeamRoleOwner}, nil)
	gate.On("Membership", mock.Anything, uint64(1), uint64(2)).
		Return(&models.TeamMembership{TeamID: 1, UserID: 2, Role: models.TeamRoleLeader}, nil)

	owner := newTeamRouter(gate, &models.User{ID: 1})
	assert.Equal(t, http.StatusOK, serve(owner, http.MethodPost, "/teams/1/add-member/").Code)

	leader := newTeamRouter(gate, &models.User{ID: 2})
	assert.Equal(t, http.StatusForbidden, serve(leader, http.MethodPost, "/teams/1/add-member/").Code)
}

func TestRequireOwnTask(t *testing.T) {
	user := &models.User{ID: 3}
	tasks := new(MockOwnTaskLoader)
	tasks.On("GetOwnTask", mock.Anything, uint64(3), uint64(10)).
		Return(&models.Task{ID: 10, Title: "Mine", CreatedByID: 3}, nil)
	tasks.On("GetOwnTask", mock.Anything, uint64(3), uint64(11)).Return(nil, services.ErrTaskNotFound)

	r := gin.New()
	r.GET("/tasks/:id/", withUser(user), RequireOwnTask(tasks), func(c *gin.Context) {
		task, ok := GetTask(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"title": task.Title})
	})

	w := serve(r, http.MethodGet, "/tasks/10/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Mine"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/tasks/11/").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/tasks/x/").Code)
}
