package repository

import (
	"context"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// FavoriteRepository persists favorites and owns the single-default invariant.
// Every mutating call is one transaction serialized per user.
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Favorite, error)
	GetByID(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error)
	GetDefault(ctx context.Context, userID int64) (*model.Favorite, error)
	ExistsByCity(ctx context.Context, userID int64, city string) (bool, error)
	Add(ctx context.Context, userID int64, favorite model.NewFavorite) (*model.Favorite, error)
	Update(ctx context.Context, userID, favoriteID int64, favorite model.FavoriteUpdate) (*model.Favorite, error)
	Remove(ctx context.Context, userID, favoriteID int64) error
	TransferDefault(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error)
}

// HistoryRepository persists weather lookups
type HistoryRepository interface {
	Create(ctx context.Context, record *model.HistoryRecord) error
	List(ctx context.Context, userID int64, filter model.HistoryFilter) ([]model.HistoryRecord, int, error)
	Recent(ctx context.Context, userID int64, limit int) ([]model.HistoryRecord, error)
	MostSearchedCities(ctx context.Context, userID int64, limit int) ([]model.CitySearchCount, error)
	DeleteByID(ctx context.Context, userID, historyID int64) (bool, error)
	DeleteAllByUser(ctx context.Context, userID int64) (int64, error)
}

// UserRepository resolves API tokens to users and maintains their profile
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, profile model.ProfileUpdate) (*model.User, error)
}

// Container holds all repositories
type Container struct {
	Favorite FavoriteRepository
	History  HistoryRepository
	User     UserRepository
}

// dialect covers the statements that differ between PostgreSQL and SQLite
type dialect interface {
	// lockUser serializes writers of one user's rows until tx ends
	lockUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
	isUniqueViolation(err error) bool
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	var d dialect = sqliteDialect{}
	if dbType == config.DBTypePostgreSQL {
		d = pgDialect{}
	}

	return &Container{
		Favorite: &favoriteRepository{db: db, dialect: d, now: time.Now},
		History:  &historyRepository{db: db, now: time.Now},
		User:     &userRepository{db: db, dialect: d, now: time.Now},
	}
}
