package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/alexivanou/weather-favorites-api/internal/repository"
	"github.com/alexivanou/weather-favorites-api/internal/validation"
)

// UserService manages the authenticated user's profile
type UserService struct {
	repo repository.UserRepository
}

// NewUserService creates a UserService
func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// GetProfile returns the user's profile
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("user", userID)
	}
	return user, nil
}

// UpdateProfile changes the user's name and email
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in model.ProfileUpdate) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.repo.UpdateProfile(ctx, userID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
