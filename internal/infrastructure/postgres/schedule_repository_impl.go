package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `id, medicine_id, profile_id, user_id, to_char(time_of_day, 'HH24:MI'), frequency, is_active, created_at`

func scanSchedule(row interface{ Scan(...any) error }) (*entity.Schedule, error) {
	var (
		s         entity.Schedule
		tod, freq string
	)
	if err := row.Scan(&s.ID, &s.MedicineID, &s.ProfileID, &s.UserID, &tod, &freq, &s.Active, &s.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	t, err := entity.ParseTimeOfDay(tod)
	if err != nil {
		return nil, err
	}
	s.TimeOfDay = t
	s.Frequency = entity.Frequency(freq)
	return &s, nil
}

func (r *ScheduleRepository) Create(ctx context.Context, s *entity.Schedule) error {
	if !validID(s.MedicineID) || !validID(s.UserID) {
		return repository.ErrNotFound
	}
	// The share lock makes a concurrent medicine delete wait for this insert,
	// or turns it into a no-op once the medicine is inactive.
	row := conn(ctx, r.pool).QueryRow(ctx, `
		WITH parent AS (
			SELECT id, profile_id FROM medicines
			WHERE id = $1 AND user_id = $2 AND status = 'ACTIVE'
			FOR SHARE
		)
		INSERT INTO schedules (medicine_id, profile_id, user_id, time_of_day, frequency, is_active)
		SELECT parent.id, parent.profile_id, $2::uuid, $3::text::time, $4::text, $5::boolean
		FROM parent
		RETURNING id, profile_id, created_at
	`, s.MedicineID, s.UserID, s.TimeOfDay.String(), string(s.Frequency), s.Active)
	return mapErr(row.Scan(&s.ID, &s.ProfileID, &s.CreatedAt))
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*entity.Schedule, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanSchedule(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1`, id))
}

func (r *ScheduleRepository) Update(ctx context.Context, s *entity.Schedule) error {
	if !validID(s.ID) {
		return repository.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE schedules SET time_of_day = $1::text::time, frequency = $2, is_active = $3
		WHERE id = $4
	`, s.TimeOfDay.String(), string(s.Frequency), s.Active, s.ID)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *ScheduleRepository) List(ctx context.Context, f repository.ScheduleFilter) ([]entity.Schedule, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	for _, id := range []string{f.UserID, f.ProfileID, f.MedicineID} {
		if id != "" && !validID(id) {
			return []entity.Schedule{}, nil
		}
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.ProfileID != "" {
		add("profile_id = $%d", f.ProfileID)
	}
	if f.MedicineID != "" {
		add("medicine_id = $%d", f.MedicineID)
	}
	if f.ActiveOnly {
		where = append(where, "is_active")
	}
	q := `SELECT ` + scheduleColumns + ` FROM schedules`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY time_of_day, created_at"
	return r.query(ctx, q, args...)
}

func (r *ScheduleRepository) query(ctx context.Context, q string, args ...any) ([]entity.Schedule, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *ScheduleRepository) ExistsActiveDuplicate(ctx context.Context, medicineID string, tod entity.TimeOfDay, freq entity.Frequency, excludeID string) (bool, error) {
	if !validID(medicineID) {
		return false, nil
	}
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM schedules
			WHERE medicine_id = $1 AND time_of_day = $2::text::time AND frequency = $3 AND is_active
				AND ($4 = '' OR id::text <> $4)
		)
	`, medicineID, tod.String(), string(freq), excludeID).Scan(&ok)
	return ok, mapErr(err)
}

func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *ScheduleRepository) DeleteByProfile(ctx context.Context, profileID string) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM schedules WHERE profile_id = $1`, profileID)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

func (r *ScheduleRepository) DeleteByMedicine(ctx context.Context, medicineID string) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM schedules WHERE medicine_id = $1`, medicineID)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

func (r *ScheduleRepository) ListActiveAt(ctx context.Context, tod entity.TimeOfDay) ([]entity.Schedule, error) {
	return r.query(ctx, `
		SELECT `+scheduleColumns+` FROM schedules
		WHERE is_active AND time_of_day = $1::text::time
		ORDER BY created_at
	`, tod.String())
}

var _ repository.ScheduleRepository = (*ScheduleRepository)(nil)
