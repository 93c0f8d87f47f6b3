package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

const pgUniqueViolation = "23505"

type pgDialect struct{}

// lockUser takes a row lock on the owning user, so concurrent transactions
// for the same user queue up while other users proceed.
func (pgDialect) lockUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	var id int64
	err := tx.GetContext(ctx, &id, "SELECT id FROM users WHERE id = $1 FOR UPDATE", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewNotFoundError("user", userID)
	}
	if err != nil {
		return model.NewPersistenceError("lock user", err)
	}
	return nil
}

func (pgDialect) isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
