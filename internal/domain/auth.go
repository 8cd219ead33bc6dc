package domain

import "time"

// Identity is the authenticated caller derived from verified token claims.
type Identity struct {
	UserID    string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}
