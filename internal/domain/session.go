package domain

import "time"

// AdminSession is a signed-in admin. Presence of an active, unexpired session
// is the only permission check; there are no roles.
type AdminSession struct {
	ID        string    `json:"id,omitempty" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	Email     string    `json:"email" firestore:"email"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
	Active    bool      `json:"active" firestore:"active"`
}

func (s AdminSession) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
