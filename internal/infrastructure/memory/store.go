// Package memory keeps every repository in process. It backs
// STORAGE_DRIVER=memory and the service tests, and enforces the same
// uniqueness rules as the Postgres schema.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users     map[string]entity.User
	profiles  map[string]entity.Profile
	medicines map[string]entity.Medicine
	schedules map[string]entity.Schedule
	revoked   map[string]entity.RevokedToken
	catalog   map[string]entity.GlobalMedicine

	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:     map[string]entity.User{},
		profiles:  map[string]entity.Profile{},
		medicines: map[string]entity.Medicine{},
		schedules: map[string]entity.Schedule{},
		revoked:   map[string]entity.RevokedToken{},
		catalog:   map[string]entity.GlobalMedicine{},
		Now:       time.Now,
	}
}

func (s *Store) now() time.Time { return s.Now().UTC() }

func (s *Store) Users() *UserRepository                     { return &UserRepository{s: s} }
func (s *Store) Profiles() *ProfileRepository               { return &ProfileRepository{s: s} }
func (s *Store) Medicines() *MedicineRepository             { return &MedicineRepository{s: s} }
func (s *Store) Schedules() *ScheduleRepository             { return &ScheduleRepository{s: s} }
func (s *Store) RevokedTokens() *RevokedTokenRepository     { return &RevokedTokenRepository{s: s} }
func (s *Store) GlobalMedicines() *GlobalMedicineRepository { return &GlobalMedicineRepository{s: s} }

type snapshot struct {
	users     map[string]entity.User
	profiles  map[string]entity.Profile
	medicines map[string]entity.Medicine
	schedules map[string]entity.Schedule
	revoked   map[string]entity.RevokedToken
	catalog   map[string]entity.GlobalMedicine
}

// WithinTx serializes transactions and rolls every map back when fn fails.
// Writes made outside a transaction while fn runs are lost on rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := snapshot{
		users:     maps.Clone(s.users),
		profiles:  maps.Clone(s.profiles),
		medicines: maps.Clone(s.medicines),
		schedules: maps.Clone(s.schedules),
		revoked:   maps.Clone(s.revoked),
		catalog:   maps.Clone(s.catalog),
	}
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users, s.profiles, s.medicines = snap.users, snap.profiles, snap.medicines
		s.schedules, s.revoked, s.catalog = snap.schedules, snap.revoked, snap.catalog
		s.mu.Unlock()
		return err
	}
	return nil
}

var _ repository.Transactor = (*Store)(nil)
