package entity

import "time"

// RevokedToken records an explicitly invalidated session token.
// TokenHash is the hex SHA-256 of the raw token.
type RevokedToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	RevokedAt time.Time
}
