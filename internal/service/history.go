package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/alexivanou/weather-favorites-api/internal/repository"
)

const (
	maxPerPage             = 100
	defaultTopCitiesLimit  = 5
	maxTopCitiesLimit      = 50
	defaultRecentLimit     = 10
	maxRecentSearchesLimit = 100
)

// HistoryService records and reports weather lookups
type HistoryService struct {
	repo    repository.HistoryRepository
	perPage int
}

// NewHistoryService creates a HistoryService. perPage is the default page size.
func NewHistoryService(repo repository.HistoryRepository, perPage int) *HistoryService {
	if perPage <= 0 {
		perPage = 15
	}
	return &HistoryService{repo: repo, perPage: perPage}
}

// Record stores a copy of snap for the user. snap itself is not modified.
func (s *HistoryService) Record(ctx context.Context, userID int64, snap *model.WeatherSnapshot) (*model.HistoryRecord, error) {
	requestData, err := json.Marshal(snap.RequestOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request data: %w", err)
	}
	responseData, err := json.Marshal(snap.RawResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response data: %w", err)
	}

	record := &model.HistoryRecord{
		UserID:       userID,
		City:         snap.City,
		Country:      snap.Country,
		Temperature:  snap.Temperature,
		Description:  snap.Description,
		Humidity:     snap.Humidity,
		WindSpeed:    snap.WindSpeed,
		RequestData:  requestData,
		ResponseData: responseData,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	return record, nil
}

// List returns one page of the user's history, newest first
func (s *HistoryService) List(ctx context.Context, userID int64, filter model.HistoryFilter) (*model.HistoryPage, error) {
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return nil, model.NewValidationError("to_date", "must be on or after from_date")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = s.perPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	items, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	lastPage := (total + filter.PerPage - 1) / filter.PerPage
	if lastPage < 1 {
		lastPage = 1
	}

	return &model.HistoryPage{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
		LastPage: lastPage,
	}, nil
}

// Clear deletes all of the user's history and returns the number removed
func (s *HistoryService) Clear(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return n, nil
}

// Delete removes one record. It returns false when the record does not
// exist or belongs to another user.
func (s *HistoryService) Delete(ctx context.Context, userID, historyID int64) (bool, error) {
	deleted, err := s.repo.DeleteByID(ctx, userID, historyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete history entry: %w", err)
	}
	return deleted, nil
}

// MostSearchedCities returns the user's most looked-up cities
func (s *HistoryService) MostSearchedCities(ctx context.Context, userID int64, limit int) ([]model.CitySearchCount, error) {
	limit = clampLimit(limit, defaultTopCitiesLimit, maxTopCitiesLimit)
	cities, err := s.repo.MostSearchedCities(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get most searched cities: %w", err)
	}
	return cities, nil
}

// RecentSearches returns the user's latest lookups
func (s *HistoryService) RecentSearches(ctx context.Context, userID int64, limit int) ([]model.HistoryRecord, error) {
	limit = clampLimit(limit, defaultRecentLimit, maxRecentSearchesLimit)
	records, err := s.repo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent searches: %w", err)
	}
	return records, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
