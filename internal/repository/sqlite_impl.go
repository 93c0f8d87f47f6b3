package repository

import (
	"context"
	"errors"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

type sqliteDialect struct{}

// lockUser makes a write the first statement of the transaction. SQLite has a
// single database-wide writer, so this holds the write lock from the start
// instead of upgrading a read lock later.
func (sqliteDialect) lockUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	res, err := tx.ExecContext(ctx, "UPDATE users SET updated_at = updated_at WHERE id = ?", userID)
	if err != nil {
		return model.NewPersistenceError("lock user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.NewPersistenceError("lock user", err)
	}
	if n == 0 {
		return model.NewNotFoundError("user", userID)
	}
	return nil
}

func (sqliteDialect) isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
