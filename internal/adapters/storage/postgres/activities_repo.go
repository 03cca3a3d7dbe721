package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pet-boarding/internal/domain/activities"
)

type ActivitiesRepo struct {
	pool *pgxpool.Pool
}

func NewActivitiesRepo(pool *pgxpool.Pool) *ActivitiesRepo {
	return &ActivitiesRepo{pool: pool}
}

func (r *ActivitiesRepo) Create(ctx context.Context, a activities.Activity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activities (
			id, reservation_id,
			title, description, frequency,
			times_completed,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		a.ID,
		a.ReservationID,
		a.Title,
		a.Description,
		a.Frequency,
		a.TimesCompleted,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *ActivitiesRepo) GetByID(ctx context.Context, id string) (activities.Activity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return activities.Activity{}, ErrNotFound
	}
	return scanActivity(r.pool.QueryRow(ctx, selectActivity+` WHERE id = $1`, id))
}

func (r *ActivitiesRepo) ListByReservation(ctx context.Context, reservationID string) ([]activities.Activity, error) {
	rows, err := r.pool.Query(ctx, selectActivity+` WHERE reservation_id = $1 ORDER BY created_at`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]activities.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ActivitiesRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ActivitiesRepo) DeleteByReservation(ctx context.Context, reservationID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE reservation_id = $1`, reservationID)
	return err
}

// El incremento se resuelve en la base: dos accomplish concurrentes
// serializan en el UPDATE y cada uno ve su propio valor.
func (r *ActivitiesRepo) IncrementTimesCompleted(ctx context.Context, id string) (activities.Activity, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE activities
		SET times_completed = times_completed + 1, updated_at = now()
		WHERE id = $1
		RETURNING
			id, reservation_id,
			title, description, frequency,
			times_completed,
			created_at, updated_at
	`, id)
	return scanActivity(row)
}

const selectActivity = `
	SELECT
		id, reservation_id,
		title, description, frequency,
		times_completed,
		created_at, updated_at
	FROM activities`

func scanActivity(row pgx.Row) (activities.Activity, error) {
	var a activities.Activity
	if err := row.Scan(
		&a.ID,
		&a.ReservationID,
		&a.Title,
		&a.Description,
		&a.Frequency,
		&a.TimesCompleted,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activities.Activity{}, ErrNotFound
		}
		return activities.Activity{}, err
	}
	return a, nil
}
