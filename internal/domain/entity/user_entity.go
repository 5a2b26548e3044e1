package entity

import (
	"time"
)

// User is the account that owns profiles, medicines and schedules.
// Passwords are stored as bcrypt hashes in Password field.
//
// PasswordLastChanged is the token watermark: tokens carrying an older
// snapshot are rejected.
type User struct {
	ID                  string
	Email               string
	Password            string
	PasswordLastChanged time.Time
	DeviceToken         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}
