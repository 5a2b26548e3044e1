package repository

import (
	"context"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Profile, error)
	ExistsByUserAndID(ctx context.Context, userID, id string) (bool, error)
	// ExistsByUserAndName ignores the profile with excludeID (empty matches none).
	ExistsByUserAndName(ctx context.Context, userID, name, excludeID string) (bool, error)
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}
