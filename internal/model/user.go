package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// User owns favorites and history records
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	APITokenHash string    `json:"-" db:"api_token_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HashAPIToken returns the stored form of an API token
func HashAPIToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ProfileUpdate holds the editable fields of a user
type ProfileUpdate struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}
