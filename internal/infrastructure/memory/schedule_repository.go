package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type ScheduleRepository struct{ s *Store }

func (r *ScheduleRepository) slotTaken(medicineID string, tod entity.TimeOfDay, freq entity.Frequency, excludeID string) bool {
	for _, sc := range r.s.schedules {
		if sc.Active && sc.ID != excludeID && sc.SameSlot(medicineID, tod, freq) {
			return true
		}
	}
	return false
}

func (r *ScheduleRepository) Create(_ context.Context, sc *entity.Schedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[sc.MedicineID]
	if !ok || m.UserID != sc.UserID || m.Status != entity.MedicineActive {
		return repository.ErrNotFound
	}
	sc.ProfileID = m.ProfileID
	if sc.Active && r.slotTaken(sc.MedicineID, sc.TimeOfDay, sc.Frequency, "") {
		return repository.ErrConflict
	}
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	sc.CreatedAt = r.s.now()
	r.s.schedules[sc.ID] = *sc
	return nil
}

func (r *ScheduleRepository) GetByID(_ context.Context, id string) (*entity.Schedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sc, ok := r.s.schedules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sc, nil
}

func (r *ScheduleRepository) Update(_ context.Context, sc *entity.Schedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.schedules[sc.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if sc.Active && r.slotTaken(cur.MedicineID, sc.TimeOfDay, sc.Frequency, sc.ID) {
		return repository.ErrConflict
	}
	cur.TimeOfDay, cur.Frequency, cur.Active = sc.TimeOfDay, sc.Frequency, sc.Active
	r.s.schedules[sc.ID] = cur
	*sc = cur
	return nil
}

func (r *ScheduleRepository) List(_ context.Context, f repository.ScheduleFilter) ([]entity.Schedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Schedule{}
	for _, sc := range r.s.schedules {
		if f.UserID != "" && sc.UserID != f.UserID {
			continue
		}
		if f.ProfileID != "" && sc.ProfileID != f.ProfileID {
			continue
		}
		if f.MedicineID != "" && sc.MedicineID != f.MedicineID {
			continue
		}
		if f.ActiveOnly && !sc.Active {
			continue
		}
		out = append(out, sc)
	}
	sortSchedules(out)
	return out, nil
}

func (r *ScheduleRepository) ExistsActiveDuplicate(_ context.Context, medicineID string, tod entity.TimeOfDay, freq entity.Frequency, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.slotTaken(medicineID, tod, freq, excludeID), nil
}

func (r *ScheduleRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schedules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.schedules, id)
	return nil
}

func (r *ScheduleRepository) deleteWhere(match func(entity.Schedule) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sc := range r.s.schedules {
		if match(sc) {
			delete(r.s.schedules, id)
			n++
		}
	}
	return n
}

func (r *ScheduleRepository) DeleteByProfile(_ context.Context, profileID string) (int64, error) {
	return r.deleteWhere(func(sc entity.Schedule) bool { return sc.ProfileID == profileID }), nil
}

func (r *ScheduleRepository) DeleteByMedicine(_ context.Context, medicineID string) (int64, error) {
	return r.deleteWhere(func(sc entity.Schedule) bool { return sc.MedicineID == medicineID }), nil
}

func (r *ScheduleRepository) ListActiveAt(_ context.Context, tod entity.TimeOfDay) ([]entity.Schedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Schedule{}
	for _, sc := range r.s.schedules {
		if sc.Active && sc.TimeOfDay == tod {
			out = append(out, sc)
		}
	}
	sortSchedules(out)
	return out, nil
}

func sortSchedules(out []entity.Schedule) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].TimeOfDay, out[j].TimeOfDay
		if a != b {
			return a.Hour*60+a.Minute < b.Hour*60+b.Minute
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
}

var _ repository.ScheduleRepository = (*ScheduleRepository)(nil)
