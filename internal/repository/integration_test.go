//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("team_tasks"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func setupMongo(t *testing.T) *mongo.Database {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Disconnect(context.Background())
	})
	return client.Database("team_tasks_test")
}

func TestIntegration_AddMember_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)
	users := NewUserRepository(db)
	teams := NewTeamRepository(db)

	admin := createUser(t, users, "admin")
	bob := createUser(t, users, "bob")
	team := &models.Team{Name: "Alpha"}
	require.NoError(t, teams.CreateWithOwner(ctx, team, admin.ID))

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = teams.AddMember(ctx, &models.TeamMembership{TeamID: team.ID, UserID: bob.ID, Role: models.TeamRoleMember})
		}(i)
	}
	wg.Wait()

	var inserted int
	for _, err := range errs {
		if err == nil {
			inserted++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyExists)
	}
	assert.Equal(t, 1, inserted)

	members, err := teams.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestIntegration_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(setupPostgres(t))
	createUser(t, users, "alice")

	err := users.CreateWithProfile(ctx, &models.User{Username: "alice", PasswordHash: "x"}, &models.Profile{Role: models.ProfileRoleMember})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestIntegration_MongoActivityLog(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoActivityLogRepository(setupMongo(t))

	base := time.Now().UTC().Truncate(time.Millisecond)
	actions := []string{"created task", "updated task", "deleted task"}
	for i, action := range actions {
		require.NoError(t, repo.Append(ctx, &models.ActivityLog{
			User:      "alice",
			Action:    action,
			TaskID:    "42",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	logs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, len(actions))
	for i, action := range actions {
		assert.Equal(t, action, logs[i].Action)
		assert.Equal(t, "42", logs[i].TaskID)
		assert.True(t, base.Add(time.Duration(i)*time.Second).Equal(logs[i].Timestamp))
	}
}
