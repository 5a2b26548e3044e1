package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO profiles (user_id, name) VALUES ($1, $2)
		RETURNING id, created_at
	`, p.UserID, p.Name)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt))
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	p := &entity.Profile{}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, user_id, name, created_at FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *ProfileRepository) ListByUser(ctx context.Context, userID string) ([]entity.Profile, error) {
	if !validID(userID) {
		return []entity.Profile{}, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, user_id, name, created_at FROM profiles
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.Profile{}
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) ExistsByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	if !validID(userID) || !validID(id) {
		return false, nil
	}
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1 AND user_id = $2)
	`, id, userID).Scan(&ok)
	return ok, mapErr(err)
}

func (r *ProfileRepository) ExistsByUserAndName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	if !validID(userID) {
		return false, nil
	}
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM profiles
			WHERE user_id = $1 AND lower(name) = lower($2) AND ($3 = '' OR id::text <> $3)
		)
	`, userID, name, excludeID).Scan(&ok)
	return ok, mapErr(err)
}

func (r *ProfileRepository) UpdateName(ctx context.Context, id, name string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE profiles SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
