package domain

import (
	"strings"
	"time"
)

// AdminUser is keyed by its normalized email. Accounts are provisioned with
// hensctl; the site has no registration flow.
type AdminUser struct {
	ID           string    `json:"id,omitempty" firestore:"-"`
	Email        string    `json:"email" firestore:"email"`
	PasswordHash string    `json:"passwordHash" firestore:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
