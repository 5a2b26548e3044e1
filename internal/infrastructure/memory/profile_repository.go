package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type ProfileRepository struct{ s *Store }

func (r *ProfileRepository) nameTaken(userID, name, excludeID string) bool {
	for _, p := range r.s.profiles {
		if p.UserID == userID && strings.EqualFold(p.Name, name) && p.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *ProfileRepository) Create(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(p.UserID, p.Name, "") {
		return repository.ErrConflict
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = r.s.now()
	r.s.profiles[p.ID] = *p
	return nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) ListByUser(_ context.Context, userID string) ([]entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Profile{}
	for _, p := range r.s.profiles {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ProfileRepository) ExistsByUserAndID(_ context.Context, userID, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	return ok && p.UserID == userID, nil
}

func (r *ProfileRepository) ExistsByUserAndName(_ context.Context, userID, name, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.nameTaken(userID, name, excludeID), nil
}

func (r *ProfileRepository) UpdateName(_ context.Context, id, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(p.UserID, name, id) {
		return repository.ErrConflict
	}
	p.Name = name
	r.s.profiles[id] = p
	return nil
}

func (r *ProfileRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.profiles, id)
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
