package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type GlobalMedicineRepository struct{ s *Store }

func cloneGlobal(g entity.GlobalMedicine) entity.GlobalMedicine {
	g.Indications = slices.Clone(g.Indications)
	g.SideEffects = slices.Clone(g.SideEffects)
	g.Warnings = slices.Clone(g.Warnings)
	return g
}

func (r *GlobalMedicineRepository) Create(_ context.Context, g *entity.GlobalMedicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := r.s.now()
	g.CreatedAt, g.UpdatedAt = now, now
	r.s.catalog[g.ID] = cloneGlobal(*g)
	return nil
}

func (r *GlobalMedicineRepository) GetByID(_ context.Context, id string) (*entity.GlobalMedicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.catalog[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	g = cloneGlobal(g)
	return &g, nil
}

func (r *GlobalMedicineRepository) Update(_ context.Context, g *entity.GlobalMedicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.catalog[g.ID]
	if !ok {
		return repository.ErrNotFound
	}
	g.CreatedAt = cur.CreatedAt
	g.UpdatedAt = r.s.now()
	r.s.catalog[g.ID] = cloneGlobal(*g)
	return nil
}

func (r *GlobalMedicineRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.catalog[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.catalog, id)
	return nil
}

func (r *GlobalMedicineRepository) sorted(match func(entity.GlobalMedicine) bool) []entity.GlobalMedicine {
	out := []entity.GlobalMedicine{}
	for _, g := range r.s.catalog {
		if match(g) {
			out = append(out, cloneGlobal(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *GlobalMedicineRepository) List(_ context.Context, limit, offset int) ([]entity.GlobalMedicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.sorted(func(entity.GlobalMedicine) bool { return true })
	if offset >= len(out) {
		return []entity.GlobalMedicine{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *GlobalMedicineRepository) SearchByName(_ context.Context, q string, limit int) ([]entity.GlobalMedicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q = strings.ToLower(q)
	out := r.sorted(func(g entity.GlobalMedicine) bool {
		return strings.Contains(strings.ToLower(g.Name), q) ||
			strings.Contains(strings.ToLower(g.BrandName), q) ||
			strings.Contains(strings.ToLower(g.GenericName), q)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *GlobalMedicineRepository) ListByCategory(_ context.Context, category string) ([]entity.GlobalMedicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.sorted(func(g entity.GlobalMedicine) bool { return strings.EqualFold(g.Category, category) }), nil
}

var _ repository.GlobalMedicineRepository = (*GlobalMedicineRepository)(nil)
