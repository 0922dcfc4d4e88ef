package http

import (
	"time"

	"github.com/zachrizzo/hens-travel/internal/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid email or password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" example:"admin@hens.travel"`
	Password string `json:"password" form:"password" example:"Sup3r-Secret!pass"`
}

// AuthSession is the public view of an admin session.
type AuthSession struct {
	ID        string    `json:"id" example:"5d0c7f7e-3c5a-4a43-9d54-1f3bd7c6f9e1"`
	Email     string    `json:"email" example:"admin@hens.travel"`
	CreatedAt time.Time `json:"created_at" example:"2024-06-01T10:30:00Z"`
	ExpiresAt time.Time `json:"expires_at" example:"2024-06-01T22:30:00Z"`
}

// AuthTokenResponse is returned by the login endpoint.
type AuthTokenResponse struct {
	Token     string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt string      `json:"expires_at" example:"2024-06-01T22:30:00Z"`
	Session   AuthSession `json:"session"`
}

func buildAuthSession(s domain.AdminSession) AuthSession {
	return AuthSession{
		ID:        s.ID,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
