package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
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
	return db
}

func createUser(t *testing.T, repo UserRepository, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateWithProfile(context.Background(), user, &models.Profile{Role: models.ProfileRoleMember}))
	return user
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewUserRepository(db)

	user := createUser(t, repo, "alice")
	assert.NotZero(t, user.ID)

	profile, err := repo.FindProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileRoleMember, profile.Role)
	assert.Equal(t, "alice", profile.User.Username)

	t.Run("duplicate username", func(t *testing.T) {
		dup := &models.User{Username: "alice", PasswordHash: "hash"}
		err := repo.CreateWithProfile(ctx, dup, &models.Profile{Role: models.ProfileRoleMember})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlreadyExists)
		assert.ErrorIs(t, err, ErrCreateUser)

		var profiles int64
		require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
		assert.Equal(t, int64(1), profiles)
	})
}

func TestUserRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupDB(t))
	alice := createUser(t, repo, "alice")

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindProfile(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupDB(t))
	alice := createUser(t, repo, "alice")

	profile, err := repo.FindProfile(ctx, alice.ID)
	require.NoError(t, err)

	profile.Phone = "5551234567"
	profile.Bio = "likes tasks"
	profile.Role = models.ProfileRoleLeader
	require.NoError(t, repo.UpdateProfile(ctx, profile))

	got, err := repo.FindProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "5551234567", got.Phone)
	assert.Equal(t, "likes tasks", got.Bio)
	assert.Equal(t, models.ProfileRoleLeader, got.Role)
}

func TestTeamRepository_CreateWithOwner(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserRepository(db)
	teams := NewTeamRepository(db)
	admin := createUser(t, users, "admin")

	team := &models.Team{Name: "Alpha"}
	require.NoError(t, teams.CreateWithOwner(ctx, team, admin.ID))

	members, err := teams.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, admin.ID, members[0].UserID)
	assert.Equal(t, models.TeamRoleOwner, members[0].Role)
	assert.Equal(t, "admin", members[0].User.Username)

	memberships, err := teams.ListMembershipsByUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, "Alpha", memberships[0].Team.Name)
}

func TestTeamRepository_AddMember(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserRepository(db)
	teams := NewTeamRepository(db)
	admin := createUser(t, users, "admin")
	bob := createUser(t, users, "bob")

	team := &models.Team{Name: "Alpha"}
	require.NoError(t, teams.CreateWithOwner(ctx, team, admin.ID))

	require.NoError(t, teams.AddMember(ctx, &models.TeamMembership{TeamID: team.ID, UserID: bob.ID, Role: models.TeamRoleMember}))

	err := teams.AddMember(ctx, &models.TeamMembership{TeamID: team.ID, UserID: bob.ID, Role: models.TeamRoleMember})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var count int64
	require.NoError(t, db.Model(&models.TeamMembership{}).Where("team_id = ? AND user_id = ?", team.ID, bob.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	member, err := teams.FindMembership(ctx, team.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamRoleMember, member.Role)
	assert.False(t, member.JoinedAt.IsZero())

	_, err = teams.FindMembership(ctx, team.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_ListNotInTeam(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserRepository(db)
	teams := NewTeamRepository(db)
	admin := createUser(t, users, "admin")
	createUser(t, users, "carol")
	createUser(t, users, "bob")

	team := &models.Team{Name: "Alpha"}
	require.NoError(t, teams.CreateWithOwner(ctx, team, admin.ID))

	available, err := users.ListNotInTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "bob", available[0].Username)
	assert.Equal(t, "carol", available[1].Username)
}

func TestTaskRepository(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserRepository(db)
	teams := NewTeamRepository(db)
	tasks := NewTaskRepository(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	team := &models.Team{Name: "Alpha"}
	require.NoError(t, teams.CreateWithOwner(ctx, team, alice.ID))

	personal := &models.Task{Title: "personal", Status: models.TaskStatusPending, Priority: models.TaskPriorityLow, CreatedByID: alice.ID}
	require.NoError(t, tasks.Create(ctx, personal))
	assert.Equal(t, "alice", personal.CreatedBy.Username)
	assert.Nil(t, personal.AssignedTo)

	older := &models.Task{Title: "older", Status: models.TaskStatusPending, Priority: models.TaskPriorityMedium, CreatedByID: alice.ID, TeamID: &team.ID, AssignedToID: &bob.ID, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, tasks.Create(ctx, older))
	require.NotNil(t, older.AssignedTo)
	assert.Equal(t, "bob", older.AssignedTo.Username)

	newer := &models.Task{Title: "newer", Status: models.TaskStatusCompleted, Priority: models.TaskPriorityHigh, CreatedByID: alice.ID, TeamID: &team.ID}
	require.NoError(t, tasks.Create(ctx, newer))

	t.Run("scoped lookups", func(t *testing.T) {
		_, err := tasks.FindByCreator(ctx, personal.ID, alice.ID)
		require.NoError(t, err)

		_, err = tasks.FindByCreator(ctx, personal.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		// team tasks are out of the personal scope even for their creator
		_, err = tasks.FindByCreator(ctx, older.ID, alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = tasks.FindInTeam(ctx, older.ID, team.ID)
		require.NoError(t, err)

		_, err = tasks.FindInTeam(ctx, personal.ID, team.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = tasks.FindByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("team listing is newest first", func(t *testing.T) {
		got, err := tasks.List(ctx, TaskFilter{TeamID: &team.ID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "newer", got[0].Title)
		assert.Equal(t, "older", got[1].Title)
	})

	t.Run("filters", func(t *testing.T) {
		got, err := tasks.List(ctx, TaskFilter{CreatorID: &alice.ID, Status: models.TaskStatusCompleted})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "newer", got[0].Title)

		got, err = tasks.List(ctx, TaskFilter{TeamID: &team.ID, AssignedToID: &bob.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "older", got[0].Title)

		got, err = tasks.List(ctx, TaskFilter{CreatorID: &alice.ID, Personal: true})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "personal", got[0].Title)

		got, err = tasks.List(ctx, TaskFilter{CreatorID: &bob.ID})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("update clears assignee", func(t *testing.T) {
		older.AssignedToID = nil
		older.Status = models.TaskStatusInProgress
		require.NoError(t, tasks.Update(ctx, older))
		assert.Nil(t, older.AssignedTo)

		got, err := tasks.FindByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusInProgress, got.Status)
		assert.Nil(t, got.AssignedToID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, tasks.Delete(ctx, personal.ID))
		assert.ErrorIs(t, tasks.Delete(ctx, personal.ID), ErrNotFound)
	})
}

func TestActivityLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityLogRepository(setupDB(t))

	now := time.Now().UTC()
	for _, action := range []string{"created task", "updated task", "deleted task"} {
		require.NoError(t, repo.Append(ctx, &models.ActivityLog{User: "alice", Action: action, TaskID: "1", Timestamp: now}))
	}

	logs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "created task", logs[0].Action)
	assert.Equal(t, "deleted task", logs[2].Action)
}
