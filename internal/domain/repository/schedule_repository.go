package repository

import (
	"context"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

// ScheduleFilter narrows List. Empty fields are ignored.
type ScheduleFilter struct {
	UserID     string
	ProfileID  string
	MedicineID string
	ActiveOnly bool
}

type ScheduleRepository interface {
	// Create inserts only while the medicine is ACTIVE and owned by s.UserID,
	// checked in the same step as the insert, and copies its profile id.
	// ErrNotFound otherwise; ErrConflict when an active schedule holds the
	// same slot.
	Create(ctx context.Context, s *entity.Schedule) error
	GetByID(ctx context.Context, id string) (*entity.Schedule, error)
	Update(ctx context.Context, s *entity.Schedule) error
	List(ctx context.Context, f ScheduleFilter) ([]entity.Schedule, error)
	ExistsActiveDuplicate(ctx context.Context, medicineID string, tod entity.TimeOfDay, freq entity.Frequency, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByProfile(ctx context.Context, profileID string) (int64, error)
	DeleteByMedicine(ctx context.Context, medicineID string) (int64, error)
	// ListActiveAt returns active schedules whose time of day equals tod.
	ListActiveAt(ctx context.Context, tod entity.TimeOfDay) ([]entity.Schedule, error)
}
