package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type MedicineRepository struct{ s *Store }

func cloneMedicine(m entity.Medicine) entity.Medicine {
	m.Composition = slices.Clone(m.Composition)
	return m
}

func (r *MedicineRepository) Create(_ context.Context, m *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.profiles[m.ProfileID]; !ok || p.UserID != m.UserID {
		return repository.ErrNotFound
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = entity.MedicineActive
	}
	now := r.s.now()
	m.CreatedAt, m.UpdatedAt = now, now
	r.s.medicines[m.ID] = cloneMedicine(*m)
	return nil
}

func (r *MedicineRepository) GetByID(_ context.Context, id string) (*entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m = cloneMedicine(m)
	return &m, nil
}

func (r *MedicineRepository) Update(_ context.Context, m *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.medicines[m.ID]
	if !ok || cur.Status != entity.MedicineActive {
		return repository.ErrNotFound
	}
	m.UserID, m.ProfileID, m.CreatedAt, m.Status = cur.UserID, cur.ProfileID, cur.CreatedAt, cur.Status
	m.UpdatedAt = r.s.now()
	r.s.medicines[m.ID] = cloneMedicine(*m)
	return nil
}

func (r *MedicineRepository) List(_ context.Context, f repository.MedicineFilter) ([]entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Medicine{}
	for _, m := range r.s.medicines {
		if f.UserID != "" && m.UserID != f.UserID {
			continue
		}
		if f.ProfileID != "" && m.ProfileID != f.ProfileID {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		out = append(out, cloneMedicine(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MedicineRepository) SetStatus(_ context.Context, id string, status entity.MedicineStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = r.s.now()
	r.s.medicines[id] = m
	return nil
}

func (r *MedicineRepository) SetStatusByProfile(_ context.Context, profileID string, status entity.MedicineStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.medicines {
		if m.ProfileID != profileID || m.Status == status {
			continue
		}
		m.Status = status
		m.UpdatedAt = r.s.now()
		r.s.medicines[id] = m
		n++
	}
	return n, nil
}

func (r *MedicineRepository) DecrementQuantity(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[id]
	if !ok || m.Quantity <= 0 {
		return 0, repository.ErrConflict
	}
	m.Quantity--
	m.UpdatedAt = r.s.now()
	r.s.medicines[id] = m
	return m.Quantity, nil
}

func (r *MedicineRepository) ListExpiring(_ context.Context, from, before time.Time) ([]entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Medicine{}
	for _, m := range r.s.medicines {
		if m.Status != entity.MedicineActive {
			continue
		}
		if m.ExpiryDate.Before(from) || !m.ExpiryDate.Before(before) {
			continue
		}
		out = append(out, cloneMedicine(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

var _ repository.MedicineRepository = (*MedicineRepository)(nil)
