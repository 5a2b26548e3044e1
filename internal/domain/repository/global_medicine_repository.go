package repository

import (
	"context"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

type GlobalMedicineRepository interface {
	Create(ctx context.Context, g *entity.GlobalMedicine) error
	GetByID(ctx context.Context, id string) (*entity.GlobalMedicine, error)
	Update(ctx context.Context, g *entity.GlobalMedicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]entity.GlobalMedicine, error)
	// SearchByName matches name, brand name or generic name case-insensitively.
	SearchByName(ctx context.Context, q string, limit int) ([]entity.GlobalMedicine, error)
	ListByCategory(ctx context.Context, category string) ([]entity.GlobalMedicine, error)
}
