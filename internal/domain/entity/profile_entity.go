package entity

import "time"

// Profile is a family member or individual tracked under one user account.
// UserID never changes after creation.
type Profile struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}
