package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error
	UpdateDeviceToken(ctx context.Context, id, token string) error
}
