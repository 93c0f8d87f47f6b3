package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/alexivanou/weather-favorites-api/internal/repository"
	"github.com/alexivanou/weather-favorites-api/internal/validation"
)

// FavoriteService applies the business rules for favorite cities
type FavoriteService struct {
	repo repository.FavoriteRepository
}

// NewFavoriteService creates a FavoriteService
func NewFavoriteService(repo repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: repo}
}

// ListFavorites returns the user's favorites, default first
func (s *FavoriteService) ListFavorites(ctx context.Context, userID int64) ([]model.Favorite, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

// AddFavorite validates and stores a new favorite
func (s *FavoriteService) AddFavorite(ctx context.Context, userID int64, in model.NewFavorite) (*model.Favorite, error) {
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	// Fast path; Add re-checks under the user lock.
	exists, err := s.IsCityFavorite(ctx, userID, in.City)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewValidationError("city", fmt.Sprintf("%s is already in favorites", in.City))
	}

	favorite, err := s.repo.Add(ctx, userID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return favorite, nil
}

// UpdateFavorite changes the location of a favorite owned by the user
func (s *FavoriteService) UpdateFavorite(ctx context.Context, userID, favoriteID int64, in model.FavoriteUpdate) (*model.Favorite, error) {
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	favorite, err := s.repo.Update(ctx, userID, favoriteID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update favorite: %w", err)
	}
	return favorite, nil
}

// RemoveFavorite deletes a favorite owned by the user
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, favoriteID int64) error {
	if err := s.repo.Remove(ctx, userID, favoriteID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// SetDefaultFavorite makes favoriteID the user's default
func (s *FavoriteService) SetDefaultFavorite(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error) {
	favorite, err := s.repo.TransferDefault(ctx, userID, favoriteID)
	if err != nil {
		return nil, fmt.Errorf("failed to set default favorite: %w", err)
	}
	return favorite, nil
}

// GetDefaultFavorite returns the default favorite, or nil when the user has none
func (s *FavoriteService) GetDefaultFavorite(ctx context.Context, userID int64) (*model.Favorite, error) {
	favorite, err := s.repo.GetDefault(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get default favorite: %w", err)
	}
	return favorite, nil
}

// IsCityFavorite reports whether the user already saved city
func (s *FavoriteService) IsCityFavorite(ctx context.Context, userID int64, city string) (bool, error) {
	exists, err := s.repo.ExistsByCity(ctx, userID, city)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite city: %w", err)
	}
	return exists, nil
}
