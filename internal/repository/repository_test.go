package repository

import (
	"context"
	"testing"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/database"
	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Container, *sqlx.DB, func()) {
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: "repo_" + uuid.NewString()}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)

	err = database.Migrate(db, config.DBTypeMemory)
	require.NoError(t, err)

	repos := NewRepositories(db, config.DBTypeMemory)

	cleanup := func() {
		db.Close()
	}

	return repos, db, cleanup
}

func createUser(t *testing.T, repos *Container, name string) *model.User {
	user := &model.User{
		Name:         name,
		Email:        name + "@example.com",
		APITokenHash: uuid.NewString(),
	}
	require.NoError(t, repos.User.Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}
