package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type GlobalMedicineRepository struct {
	pool *pgxpool.Pool
}

func NewGlobalMedicineRepository(pool *pgxpool.Pool) *GlobalMedicineRepository {
	return &GlobalMedicineRepository{pool: pool}
}

const globalMedicineColumns = `id, name, COALESCE(brand_name, ''), COALESCE(generic_name, ''),
	COALESCE(dosage_form, ''), COALESCE(strength, ''), COALESCE(manufacturer, ''), COALESCE(description, ''),
	indications, side_effects, warnings, COALESCE(storage_instructions, ''), COALESCE(category, ''),
	COALESCE(atc_code, ''), created_at, updated_at`

func scanGlobalMedicine(row interface{ Scan(...any) error }) (*entity.GlobalMedicine, error) {
	g := &entity.GlobalMedicine{}
	if err := row.Scan(&g.ID, &g.Name, &g.BrandName, &g.GenericName, &g.DosageForm, &g.Strength,
		&g.Manufacturer, &g.Description, &g.Indications, &g.SideEffects, &g.Warnings,
		&g.StorageInstructions, &g.Category, &g.ATCCode, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return g, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *GlobalMedicineRepository) Create(ctx context.Context, g *entity.GlobalMedicine) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO global_medicines (name, brand_name, generic_name, dosage_form, strength, manufacturer,
			description, indications, side_effects, warnings, storage_instructions, category, atc_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, g.Name, g.BrandName, g.GenericName, g.DosageForm, g.Strength, g.Manufacturer, g.Description,
		nonNil(g.Indications), nonNil(g.SideEffects), nonNil(g.Warnings), g.StorageInstructions, g.Category, g.ATCCode)
	return mapErr(row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt))
}

func (r *GlobalMedicineRepository) GetByID(ctx context.Context, id string) (*entity.GlobalMedicine, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanGlobalMedicine(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+globalMedicineColumns+` FROM global_medicines WHERE id = $1`, id))
}

func (r *GlobalMedicineRepository) Update(ctx context.Context, g *entity.GlobalMedicine) error {
	if !validID(g.ID) {
		return repository.ErrNotFound
	}
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE global_medicines
		SET name = $1, brand_name = $2, generic_name = $3, dosage_form = $4, strength = $5,
			manufacturer = $6, description = $7, indications = $8, side_effects = $9, warnings = $10,
			storage_instructions = $11, category = $12, atc_code = $13, updated_at = now()
		WHERE id = $14
		RETURNING created_at, updated_at
	`, g.Name, g.BrandName, g.GenericName, g.DosageForm, g.Strength, g.Manufacturer, g.Description,
		nonNil(g.Indications), nonNil(g.SideEffects), nonNil(g.Warnings), g.StorageInstructions, g.Category,
		g.ATCCode, g.ID)
	return mapErr(row.Scan(&g.CreatedAt, &g.UpdatedAt))
}

func (r *GlobalMedicineRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM global_medicines WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *GlobalMedicineRepository) query(ctx context.Context, q string, args ...any) ([]entity.GlobalMedicine, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.GlobalMedicine{}
	for rows.Next() {
		g, err := scanGlobalMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *GlobalMedicineRepository) List(ctx context.Context, limit, offset int) ([]entity.GlobalMedicine, error) {
	return r.query(ctx, `
		SELECT `+globalMedicineColumns+` FROM global_medicines
		ORDER BY name LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (r *GlobalMedicineRepository) SearchByName(ctx context.Context, q string, limit int) ([]entity.GlobalMedicine, error) {
	return r.query(ctx, `
		SELECT `+globalMedicineColumns+` FROM global_medicines
		WHERE name ILIKE '%' || $1 || '%' OR brand_name ILIKE '%' || $1 || '%' OR generic_name ILIKE '%' || $1 || '%'
		ORDER BY name LIMIT $2
	`, q, limit)
}

func (r *GlobalMedicineRepository) ListByCategory(ctx context.Context, category string) ([]entity.GlobalMedicine, error) {
	return r.query(ctx, `
		SELECT `+globalMedicineColumns+` FROM global_medicines
		WHERE lower(category) = lower($1)
		ORDER BY name
	`, category)
}

var _ repository.GlobalMedicineRepository = (*GlobalMedicineRepository)(nil)
