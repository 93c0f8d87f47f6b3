package repository

import (
	"context"
	"strings"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const historyColumns = `id, user_id, city, country, temperature, description, humidity, wind_speed,
	request_data, response_data, created_at`

type historyRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func (r *historyRepository) Create(ctx context.Context, record *model.HistoryRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now()
	}
	record.CreatedAt = record.CreatedAt.UTC()

	query := r.db.Rebind(`INSERT INTO weather_history
		(user_id, city, country, temperature, description, humidity, wind_speed, request_data, response_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query,
		record.UserID, record.City, record.Country, record.Temperature, record.Description,
		record.Humidity, record.WindSpeed, jsonObject(record.RequestData), jsonObject(record.ResponseData),
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return model.NewPersistenceError("insert weather history", err)
	}
	return nil
}

// List returns one page of records plus the total number of matches.
// filter.Page and filter.PerPage must already be normalized.
func (r *historyRepository) List(ctx context.Context, userID int64, filter model.HistoryFilter) ([]model.HistoryRecord, int, error) {
	where, args := historyWhere(userID, filter)

	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM weather_history WHERE ` + where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, model.NewPersistenceError("count weather history", err)
	}

	records := []model.HistoryRecord{}
	if total == 0 {
		return records, 0, nil
	}

	offset := (filter.Page - 1) * filter.PerPage
	listQuery := r.db.Rebind(`SELECT ` + historyColumns + ` FROM weather_history
		WHERE ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`)
	args = append(args, filter.PerPage, offset)
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, model.NewPersistenceError("list weather history", err)
	}
	return records, total, nil
}

func (r *historyRepository) Recent(ctx context.Context, userID int64, limit int) ([]model.HistoryRecord, error) {
	query := r.db.Rebind(`SELECT ` + historyColumns + ` FROM weather_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)

	records := []model.HistoryRecord{}
	if err := r.db.SelectContext(ctx, &records, query, userID, limit); err != nil {
		return nil, model.NewPersistenceError("list recent weather history", err)
	}
	return records, nil
}

func (r *historyRepository) MostSearchedCities(ctx context.Context, userID int64, limit int) ([]model.CitySearchCount, error) {
	query := r.db.Rebind(`SELECT city, country, COUNT(*) AS searches FROM weather_history
		WHERE user_id = ?
		GROUP BY city, country
		ORDER BY searches DESC, city ASC
		LIMIT ?`)

	counts := []model.CitySearchCount{}
	if err := r.db.SelectContext(ctx, &counts, query, userID, limit); err != nil {
		return nil, model.NewPersistenceError("count searched cities", err)
	}
	return counts, nil
}

func (r *historyRepository) DeleteByID(ctx context.Context, userID, historyID int64) (bool, error) {
	query := r.db.Rebind(`DELETE FROM weather_history WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, historyID, userID)
	if err != nil {
		return false, model.NewPersistenceError("delete weather history", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, model.NewPersistenceError("delete weather history", err)
	}
	return n > 0, nil
}

func (r *historyRepository) DeleteAllByUser(ctx context.Context, userID int64) (int64, error) {
	query := r.db.Rebind(`DELETE FROM weather_history WHERE user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, model.NewPersistenceError("clear weather history", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, model.NewPersistenceError("clear weather history", err)
	}
	return n, nil
}

// historyWhere builds the filter clause. Date bounds cover whole UTC days.
func historyWhere(userID int64, filter model.HistoryFilter) (string, []interface{}) {
	conds := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.FromDate != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, startOfDay(*filter.FromDate))
	}
	if filter.ToDate != nil {
		conds = append(conds, "created_at < ?")
		args = append(args, startOfDay(*filter.ToDate).AddDate(0, 0, 1))
	}
	if filter.City != "" {
		conds = append(conds, "LOWER(city) = LOWER(?)")
		args = append(args, filter.City)
	}

	return strings.Join(conds, " AND "), args
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func jsonObject(v []byte) string {
	if len(v) == 0 {
		return "{}"
	}
	return string(v)
}
