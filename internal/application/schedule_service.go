package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type ScheduleService struct {
	Schedules repo.ScheduleRepository
	Medicines repo.MedicineRepository
	Logger    *logrus.Logger
}

func NewScheduleService(s repo.ScheduleRepository, m repo.MedicineRepository, logger *logrus.Logger) *ScheduleService {
	return &ScheduleService{Schedules: s, Medicines: m, Logger: logger}
}

// ScheduleInput creates a schedule. Frequency defaults to DAILY and Active
// to true.
type ScheduleInput struct {
	TimeOfDay entity.TimeOfDay
	Frequency entity.Frequency
	Active    *bool
}

// SchedulePatch updates only the non-nil fields.
type SchedulePatch struct {
	TimeOfDay *entity.TimeOfDay
	Frequency *entity.Frequency
	Active    *bool
}

type ScheduleQuery struct {
	ProfileID       string
	MedicineID      string
	IncludeInactive bool
}

func (s *ScheduleService) Create(ctx context.Context, userID, medicineID string, in ScheduleInput) (*entity.Schedule, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	m, err := s.Medicines.GetByID(ctx, medicineID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if m == nil || m.UserID != userID || !m.IsActive() {
		return nil, s.foreignMedicine(userID, medicineID)
	}

	sc := &entity.Schedule{
		MedicineID: m.ID,
		ProfileID:  m.ProfileID,
		UserID:     userID,
		TimeOfDay:  in.TimeOfDay,
		Frequency:  in.Frequency,
		Active:     true,
	}
	if sc.Frequency == "" {
		sc.Frequency = entity.FrequencyDaily
	}
	if in.Active != nil {
		sc.Active = *in.Active
	}
	if err := s.checkSlot(ctx, sc, ""); err != nil {
		return nil, err
	}
	if err := s.Schedules.Create(ctx, sc); err != nil {
		switch {
		case errors.Is(err, repo.ErrConflict):
			return nil, ErrDuplicateSchedule
		case errors.Is(err, repo.ErrNotFound):
			// deactivated or deleted since the lookup above
			return nil, s.foreignMedicine(userID, medicineID)
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "schedule_id": sc.ID}).Info("schedule created")
	return sc, nil
}

func (s *ScheduleService) foreignMedicine(userID, medicineID string) error {
	incr(metricOwnershipDeny)
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "medicine_id": medicineID}).Warn("schedule create on foreign medicine")
	return ErrOwnership
}

// checkSlot enforces one active schedule per (medicine, time of day, frequency).
func (s *ScheduleService) checkSlot(ctx context.Context, sc *entity.Schedule, excludeID string) error {
	if !sc.Active {
		return nil
	}
	dup, err := s.Schedules.ExistsActiveDuplicate(ctx, sc.MedicineID, sc.TimeOfDay, sc.Frequency, excludeID)
	if err != nil {
		return err
	}
	if dup {
		return ErrDuplicateSchedule
	}
	return nil
}

func (s *ScheduleService) Get(ctx context.Context, userID, id string) (*entity.Schedule, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	sc, err := s.Schedules.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sc.UserID != userID {
		incr(metricOwnershipDeny)
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "schedule_id": id}).Warn("schedule ownership check failed")
		return nil, ErrNotFound
	}
	return sc, nil
}

func (s *ScheduleService) List(ctx context.Context, userID string, q ScheduleQuery) ([]entity.Schedule, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	return s.Schedules.List(ctx, repo.ScheduleFilter{
		UserID:     userID,
		ProfileID:  q.ProfileID,
		MedicineID: q.MedicineID,
		ActiveOnly: !q.IncludeInactive,
	})
}

func (s *ScheduleService) Update(ctx context.Context, userID, id string, p SchedulePatch) (*entity.Schedule, error) {
	sc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.TimeOfDay != nil {
		sc.TimeOfDay = *p.TimeOfDay
	}
	if p.Frequency != nil {
		sc.Frequency = *p.Frequency
	}
	if p.Active != nil {
		sc.Active = *p.Active
	}
	if err := s.checkSlot(ctx, sc, sc.ID); err != nil {
		return nil, err
	}
	if err := s.Schedules.Update(ctx, sc); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrDuplicateSchedule
		}
		return nil, err
	}
	return sc, nil
}

func (s *ScheduleService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Schedules.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
