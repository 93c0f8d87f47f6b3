package model

import "time"

// Favorite is a city a user has saved. At most one favorite per user is the
// default, and exactly one is whenever the user has any.
type Favorite struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	City      string    `json:"city" db:"city"`
	Country   string    `json:"country" db:"country"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewFavorite carries the caller-supplied fields of a favorite to create
type NewFavorite struct {
	City      string  `json:"city" validate:"required,max=255"`
	Country   string  `json:"country" validate:"required,len=2,alpha"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	IsDefault bool    `json:"is_default"`
}

// FavoriteUpdate replaces the location of an existing favorite.
// The default flag only moves through a default transfer.
type FavoriteUpdate struct {
	City      string  `json:"city" validate:"required,max=255"`
	Country   string  `json:"country" validate:"required,len=2,alpha"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
