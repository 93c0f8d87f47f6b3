package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const favoriteColumns = "id, user_id, city, country, latitude, longitude, is_default, created_at, updated_at"

type favoriteRepository struct {
	db      *sqlx.DB
	dialect dialect
	now     func() time.Time
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID int64) ([]model.Favorite, error) {
	query := r.db.Rebind(`SELECT ` + favoriteColumns + ` FROM favorites
		WHERE user_id = ?
		ORDER BY is_default DESC, city ASC`)

	favorites := []model.Favorite{}
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, model.NewPersistenceError("list favorites", err)
	}
	return favorites, nil
}

func (r *favoriteRepository) GetByID(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error) {
	return getFavorite(ctx, r.db, userID, favoriteID)
}

func (r *favoriteRepository) GetDefault(ctx context.Context, userID int64) (*model.Favorite, error) {
	query := r.db.Rebind(`SELECT ` + favoriteColumns + ` FROM favorites WHERE user_id = ? AND is_default = ?`)

	var favorite model.Favorite
	err := r.db.GetContext(ctx, &favorite, query, userID, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewPersistenceError("get default favorite", err)
	}
	return &favorite, nil
}

func (r *favoriteRepository) ExistsByCity(ctx context.Context, userID int64, city string) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND city = ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, city); err != nil {
		return false, model.NewPersistenceError("check favorite city", err)
	}
	return count > 0, nil
}

// Add inserts a favorite. The first favorite of a user always becomes the
// default; a default request clears the previous default in the same transaction.
func (r *favoriteRepository) Add(ctx context.Context, userID int64, in model.NewFavorite) (*model.Favorite, error) {
	var created model.Favorite

	err := r.inUserTx(ctx, userID, func(tx *sqlx.Tx) error {
		var counts struct {
			Total    int `db:"total"`
			SameCity int `db:"same_city"`
		}
		countQuery := tx.Rebind(`SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN city = ? THEN 1 ELSE 0 END), 0) AS same_city
			FROM favorites WHERE user_id = ?`)
		if err := tx.GetContext(ctx, &counts, countQuery, in.City, userID); err != nil {
			return model.NewPersistenceError("count favorites", err)
		}
		if counts.SameCity > 0 {
			return duplicateCityError(in.City)
		}

		now := r.now().UTC()
		isDefault := in.IsDefault || counts.Total == 0
		if isDefault {
			if err := clearDefault(ctx, tx, userID, now); err != nil {
				return err
			}
		}

		created = model.Favorite{
			UserID:    userID,
			City:      in.City,
			Country:   in.Country,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			IsDefault: isDefault,
			CreatedAt: now,
			UpdatedAt: now,
		}

		insert := tx.Rebind(`INSERT INTO favorites
			(user_id, city, country, latitude, longitude, is_default, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
		err := tx.QueryRowxContext(ctx, insert,
			created.UserID, created.City, created.Country, created.Latitude, created.Longitude,
			created.IsDefault, created.CreatedAt, created.UpdatedAt,
		).Scan(&created.ID)
		if err != nil {
			if r.dialect.isUniqueViolation(err) {
				return duplicateCityError(in.City)
			}
			return model.NewPersistenceError("insert favorite", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the location fields of a favorite. The default flag is
// left untouched; it only moves through TransferDefault and Remove.
func (r *favoriteRepository) Update(ctx context.Context, userID, favoriteID int64, in model.FavoriteUpdate) (*model.Favorite, error) {
	var result *model.Favorite

	err := r.inUserTx(ctx, userID, func(tx *sqlx.Tx) error {
		favorite, err := getFavorite(ctx, tx, userID, favoriteID)
		if err != nil {
			return err
		}
		if favorite == nil {
			return model.NewNotFoundError("favorite", favoriteID)
		}

		var sameCity int
		countQuery := tx.Rebind(`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND city = ? AND id <> ?`)
		if err := tx.GetContext(ctx, &sameCity, countQuery, userID, in.City, favoriteID); err != nil {
			return model.NewPersistenceError("count favorites", err)
		}
		if sameCity > 0 {
			return duplicateCityError(in.City)
		}

		now := r.now().UTC()
		update := tx.Rebind(`UPDATE favorites
			SET city = ?, country = ?, latitude = ?, longitude = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`)
		_, err = tx.ExecContext(ctx, update,
			in.City, in.Country, in.Latitude, in.Longitude, now, favoriteID, userID,
		)
		if err != nil {
			if r.dialect.isUniqueViolation(err) {
				return duplicateCityError(in.City)
			}
			return model.NewPersistenceError("update favorite", err)
		}

		favorite.City = in.City
		favorite.Country = in.Country
		favorite.Latitude = in.Latitude
		favorite.Longitude = in.Longitude
		favorite.UpdatedAt = now
		result = favorite
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes a favorite. Removing the default promotes the oldest remaining favorite.
func (r *favoriteRepository) Remove(ctx context.Context, userID, favoriteID int64) error {
	return r.inUserTx(ctx, userID, func(tx *sqlx.Tx) error {
		favorite, err := getFavorite(ctx, tx, userID, favoriteID)
		if err != nil {
			return err
		}
		if favorite == nil {
			return model.NewNotFoundError("favorite", favoriteID)
		}

		del := tx.Rebind(`DELETE FROM favorites WHERE id = ? AND user_id = ?`)
		if _, err := tx.ExecContext(ctx, del, favoriteID, userID); err != nil {
			return model.NewPersistenceError("delete favorite", err)
		}

		if !favorite.IsDefault {
			return nil
		}

		promote := tx.Rebind(`UPDATE favorites SET is_default = ?, updated_at = ?
			WHERE id = (
				SELECT id FROM favorites WHERE user_id = ?
				ORDER BY created_at ASC, id ASC LIMIT 1
			)`)
		if _, err := tx.ExecContext(ctx, promote, true, r.now().UTC(), userID); err != nil {
			return model.NewPersistenceError("promote default favorite", err)
		}
		return nil
	})
}

// TransferDefault makes favoriteID the user's only default
func (r *favoriteRepository) TransferDefault(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error) {
	var result *model.Favorite

	err := r.inUserTx(ctx, userID, func(tx *sqlx.Tx) error {
		favorite, err := getFavorite(ctx, tx, userID, favoriteID)
		if err != nil {
			return err
		}
		if favorite == nil {
			return model.NewNotFoundError("favorite", favoriteID)
		}
		result = favorite
		if favorite.IsDefault {
			return nil
		}

		now := r.now().UTC()
		if err := clearDefault(ctx, tx, userID, now); err != nil {
			return err
		}

		set := tx.Rebind(`UPDATE favorites SET is_default = ?, updated_at = ? WHERE id = ? AND user_id = ?`)
		if _, err := tx.ExecContext(ctx, set, true, now, favoriteID, userID); err != nil {
			return model.NewPersistenceError("set default favorite", err)
		}
		favorite.IsDefault = true
		favorite.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// inUserTx runs fn in a transaction that holds the per-user write lock
func (r *favoriteRepository) inUserTx(ctx context.Context, userID int64, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.NewPersistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.dialect.lockUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return model.NewPersistenceError("commit transaction", err)
	}
	return nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx
type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

func getFavorite(ctx context.Context, q queryer, userID, favoriteID int64) (*model.Favorite, error) {
	query := q.Rebind(`SELECT ` + favoriteColumns + ` FROM favorites WHERE id = ? AND user_id = ?`)

	var favorite model.Favorite
	err := q.GetContext(ctx, &favorite, query, favoriteID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewPersistenceError("get favorite", err)
	}
	return &favorite, nil
}

func clearDefault(ctx context.Context, tx *sqlx.Tx, userID int64, now time.Time) error {
	query := tx.Rebind(`UPDATE favorites SET is_default = ?, updated_at = ? WHERE user_id = ? AND is_default = ?`)
	if _, err := tx.ExecContext(ctx, query, false, now, userID, true); err != nil {
		return model.NewPersistenceError("clear default favorite", err)
	}
	return nil
}

func duplicateCityError(city string) error {
	return model.NewValidationError("city", fmt.Sprintf("%s is already in favorites", city))
}
