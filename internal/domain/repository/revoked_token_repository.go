package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

type RevokedTokenRepository interface {
	// Insert is a no-op when the hash is already stored.
	Insert(ctx context.Context, t *entity.RevokedToken) error
	Exists(ctx context.Context, tokenHash string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
