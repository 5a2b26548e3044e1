package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type MedicineRepository struct {
	pool *pgxpool.Pool
}

func NewMedicineRepository(pool *pgxpool.Pool) *MedicineRepository {
	return &MedicineRepository{pool: pool}
}

const medicineColumns = `id, user_id, profile_id, name, COALESCE(image_url, ''), COALESCE(dosage, ''), quantity,
	expiry_date, COALESCE(category, ''), COALESCE(notes, ''), composition, COALESCE(form, ''), status,
	created_at, updated_at`

func scanMedicine(row interface{ Scan(...any) error }) (*entity.Medicine, error) {
	var (
		m      entity.Medicine
		comp   []byte
		status string
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.ProfileID, &m.Name, &m.ImageURL, &m.Dosage, &m.Quantity,
		&m.ExpiryDate, &m.Category, &m.Notes, &comp, &m.Form, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	st, err := entity.ParseMedicineStatus(status)
	if err != nil {
		return nil, err
	}
	m.Status = st
	if len(comp) > 0 {
		if err := json.Unmarshal(comp, &m.Composition); err != nil {
			return nil, fmt.Errorf("decode composition: %w", err)
		}
	}
	return &m, nil
}

func encodeComposition(c []entity.Composition) ([]byte, error) {
	if c == nil {
		c = []entity.Composition{}
	}
	return json.Marshal(c)
}

func (r *MedicineRepository) Create(ctx context.Context, m *entity.Medicine) error {
	comp, err := encodeComposition(m.Composition)
	if err != nil {
		return err
	}
	if m.Status == "" {
		m.Status = entity.MedicineActive
	}
	if !validID(m.UserID) || !validID(m.ProfileID) {
		return repository.ErrNotFound
	}
	// The profile row is share-locked, so a concurrent profile delete either
	// waits for this insert or makes it match nothing.
	row := conn(ctx, r.pool).QueryRow(ctx, `
		WITH owner AS (
			SELECT id FROM profiles WHERE id = $2 AND user_id = $1 FOR SHARE
		)
		INSERT INTO medicines (user_id, profile_id, name, image_url, dosage, quantity, expiry_date,
			category, notes, composition, form, status)
		SELECT $1::uuid, owner.id, $3::text, NULLIF($4::text, ''), $5::text, $6::int, $7::date,
			$8::text, $9::text, $10::jsonb, $11::text, $12::text
		FROM owner
		RETURNING id, created_at, updated_at
	`, m.UserID, m.ProfileID, m.Name, m.ImageURL, m.Dosage, m.Quantity, m.ExpiryDate,
		m.Category, m.Notes, comp, m.Form, string(m.Status))
	return mapErr(row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt))
}

func (r *MedicineRepository) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanMedicine(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id))
}

func (r *MedicineRepository) Update(ctx context.Context, m *entity.Medicine) error {
	comp, err := encodeComposition(m.Composition)
	if err != nil {
		return err
	}
	if !validID(m.ID) {
		return repository.ErrNotFound
	}
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE medicines
		SET name = $1, image_url = NULLIF($2, ''), dosage = $3, quantity = $4, expiry_date = $5,
			category = $6, notes = $7, composition = $8, form = $9, updated_at = now()
		WHERE id = $10 AND status = 'ACTIVE'
		RETURNING status, updated_at
	`, m.Name, m.ImageURL, m.Dosage, m.Quantity, m.ExpiryDate, m.Category, m.Notes, comp, m.Form, m.ID)
	var status string
	if err := row.Scan(&status, &m.UpdatedAt); err != nil {
		return mapErr(err)
	}
	m.Status = entity.MedicineStatus(status)
	return nil
}

func (r *MedicineRepository) List(ctx context.Context, f repository.MedicineFilter) ([]entity.Medicine, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if (f.UserID != "" && !validID(f.UserID)) || (f.ProfileID != "" && !validID(f.ProfileID)) {
		return []entity.Medicine{}, nil
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.ProfileID != "" {
		add("profile_id = $%d", f.ProfileID)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	q := `SELECT ` + medicineColumns + ` FROM medicines`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at"
	return r.query(ctx, q, args...)
}

func (r *MedicineRepository) query(ctx context.Context, q string, args ...any) ([]entity.Medicine, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *MedicineRepository) SetStatus(ctx context.Context, id string, status entity.MedicineStatus) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE medicines SET status = $1, updated_at = now() WHERE id = $2
	`, string(status), id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *MedicineRepository) SetStatusByProfile(ctx context.Context, profileID string, status entity.MedicineStatus) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE medicines SET status = $1, updated_at = now()
		WHERE profile_id = $2 AND status <> $1
	`, string(status), profileID)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

func (r *MedicineRepository) DecrementQuantity(ctx context.Context, id string) (int, error) {
	if !validID(id) {
		return 0, repository.ErrNotFound
	}
	var qty int
	err := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE medicines SET quantity = quantity - 1, updated_at = now()
		WHERE id = $1 AND quantity > 0
		RETURNING quantity
	`, id).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrConflict
		}
		return 0, mapErr(err)
	}
	return qty, nil
}

func (r *MedicineRepository) ListExpiring(ctx context.Context, from, before time.Time) ([]entity.Medicine, error) {
	return r.query(ctx, `
		SELECT `+medicineColumns+` FROM medicines
		WHERE status = 'ACTIVE' AND expiry_date >= $1 AND expiry_date < $2
		ORDER BY expiry_date
	`, from, before)
}

var _ repository.MedicineRepository = (*MedicineRepository)(nil)
