package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated user for the current session
type Identity struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Language      *string   `json:"language,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Profile is the public-facing slice of an identity
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Followers int       `json:"followers"`
	Following int       `json:"following"`
}

// Session is the persisted client-side session state
type Session struct {
	Token    string    `json:"token"`
	Identity *Identity `json:"identity,omitempty"`
}
