package entity

import (
	"fmt"
	"strings"
	"time"
)

// MedicineStatus is ACTIVE until the medicine is soft deleted.
type MedicineStatus string

const (
	MedicineActive   MedicineStatus = "ACTIVE"
	MedicineInactive MedicineStatus = "INACTIVE"
)

// ParseMedicineStatus accepts the two known statuses, case-insensitively.
func ParseMedicineStatus(s string) (MedicineStatus, error) {
	switch st := MedicineStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case MedicineActive, MedicineInactive:
		return st, nil
	default:
		return "", fmt.Errorf("unknown medicine status %q", s)
	}
}

// Composition is one active ingredient of a medicine.
type Composition struct {
	Name          string  `json:"name"`
	StrengthValue float64 `json:"strength_value"`
	StrengthUnit  string  `json:"strength_unit"`
}

// Medicine is a tracked drug item owned by one user through one profile.
type Medicine struct {
	ID          string
	UserID      string
	ProfileID   string
	Name        string
	ImageURL    string
	Dosage      string
	Quantity    int
	ExpiryDate  time.Time
	Category    string
	Notes       string
	Composition []Composition
	Form        string
	Status      MedicineStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the medicine is visible on default read paths.
func (m *Medicine) IsActive() bool { return m.Status == MedicineActive }

// OwnedBy reports whether the medicine belongs to userID under profileID.
// An empty profileID skips the profile check.
func (m *Medicine) OwnedBy(userID, profileID string) bool {
	if m.UserID != userID {
		return false
	}
	return profileID == "" || m.ProfileID == profileID
}
