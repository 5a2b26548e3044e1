package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

// MedicineFilter narrows List. Empty fields are ignored.
type MedicineFilter struct {
	UserID    string
	ProfileID string
	Status    entity.MedicineStatus
}

type MedicineRepository interface {
	// Create inserts only while m.ProfileID exists and belongs to m.UserID,
	// checked in the same step as the insert. ErrNotFound otherwise.
	Create(ctx context.Context, m *entity.Medicine) error
	GetByID(ctx context.Context, id string) (*entity.Medicine, error)
	// Update rewrites the editable fields of an ACTIVE medicine. Status is
	// never written; ErrNotFound when the row is gone or inactive.
	Update(ctx context.Context, m *entity.Medicine) error
	List(ctx context.Context, f MedicineFilter) ([]entity.Medicine, error)
	SetStatus(ctx context.Context, id string, status entity.MedicineStatus) error
	SetStatusByProfile(ctx context.Context, profileID string, status entity.MedicineStatus) (int64, error)
	// DecrementQuantity subtracts one only while quantity > 0 and returns the
	// new quantity. ErrConflict means the row was already at zero.
	DecrementQuantity(ctx context.Context, id string) (int, error)
	// ListExpiring returns ACTIVE medicines with expiry_date in [from, before).
	ListExpiring(ctx context.Context, from, before time.Time) ([]entity.Medicine, error)
}
