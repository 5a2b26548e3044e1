package memory

import (
	"context"
	"time"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type RevokedTokenRepository struct{ s *Store }

func (r *RevokedTokenRepository) Insert(_ context.Context, t *entity.RevokedToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.revoked[t.TokenHash]; ok {
		return nil
	}
	if t.RevokedAt.IsZero() {
		t.RevokedAt = r.s.now()
	}
	r.s.revoked[t.TokenHash] = *t
	return nil
}

func (r *RevokedTokenRepository) Exists(_ context.Context, tokenHash string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.revoked[tokenHash]
	return ok, nil
}

func (r *RevokedTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for h, t := range r.s.revoked {
		if t.ExpiresAt.Before(now) {
			delete(r.s.revoked, h)
			n++
		}
	}
	return n, nil
}

var _ repository.RevokedTokenRepository = (*RevokedTokenRepository)(nil)
