package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const userColumns = "id, name, email, api_token_hash, created_at, updated_at"

type userRepository struct {
	db      *sqlx.DB
	dialect dialect
	now     func() time.Time
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := r.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := r.db.Rebind(`INSERT INTO users (name, email, api_token_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query,
		user.Name, user.Email, user.APITokenHash, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return model.NewPersistenceError("insert user", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *userRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	return r.getOne(ctx, "api_token_hash = ?", tokenHash)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, profile model.ProfileUpdate) (*model.User, error) {
	query := r.db.Rebind(`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, profile.Name, profile.Email, r.now().UTC(), id)
	if err != nil {
		if r.dialect.isUniqueViolation(err) {
			return nil, model.NewValidationError("email", "has already been taken")
		}
		return nil, model.NewPersistenceError("update user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, model.NewPersistenceError("update user", err)
	}
	if affected == 0 {
		return nil, model.NewNotFoundError("user", id)
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) getOne(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + cond)

	var user model.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewPersistenceError("get user", err)
	}
	return &user, nil
}
