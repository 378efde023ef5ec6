package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is a shop operator account for the catalog-management API.
type AdminUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken is a stored admin refresh token
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AdminID   uuid.UUID `json:"admin_id" db:"admin_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}
