package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pet-boarding/internal/domain/reservations"
)

type ReservationsRepo struct {
	pool *pgxpool.Pool
}

func NewReservationsRepo(pool *pgxpool.Pool) *ReservationsRepo {
	return &ReservationsRepo{pool: pool}
}

func (r *ReservationsRepo) Create(ctx context.Context, res reservations.Reservation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reservations (
			id, owner_id, pet_id,
			start_date, end_date,
			activities_ids, confirmed,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		res.ID,
		res.OwnerID,
		res.PetID,
		res.StartDate,
		res.EndDate,
		res.ActivitiesIDs,
		res.Confirmed,
		res.CreatedAt,
		res.UpdatedAt,
	)
	return err
}

func (r *ReservationsRepo) GetByID(ctx context.Context, id string) (reservations.Reservation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reservations.Reservation{}, ErrNotFound
	}
	return scanReservation(r.pool.QueryRow(ctx, selectReservation+` WHERE id = $1`, id))
}

func (r *ReservationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]reservations.Reservation, error) {
	rows, err := r.pool.Query(ctx, selectReservation+` WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *ReservationsRepo) ListByIDs(ctx context.Context, ids []string) ([]reservations.Reservation, error) {
	if len(ids) == 0 {
		return []reservations.Reservation{}, nil
	}
	rows, err := r.pool.Query(ctx, selectReservation+` WHERE id = ANY($1) ORDER BY created_at`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *ReservationsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReservationsRepo) SetConfirmed(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reservations
		SET confirmed = TRUE, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReservationsRepo) AddActivity(ctx context.Context, reservationID, activityID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reservations
		SET activities_ids = array_append(activities_ids, $2), updated_at = now()
		WHERE id = $1 AND NOT (activities_ids @> ARRAY[$2])
	`, reservationID, activityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var one int
		err := r.pool.QueryRow(ctx, `SELECT 1 FROM reservations WHERE id = $1`, reservationID).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *ReservationsRepo) RemoveActivity(ctx context.Context, reservationID, activityID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reservations
		SET activities_ids = array_remove(activities_ids, $2), updated_at = now()
		WHERE id = $1
	`, reservationID, activityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectReservation = `
	SELECT
		id, owner_id, pet_id,
		start_date, end_date,
		activities_ids, confirmed,
		created_at, updated_at
	FROM reservations`

func scanReservation(row pgx.Row) (reservations.Reservation, error) {
	var res reservations.Reservation
	if err := row.Scan(
		&res.ID,
		&res.OwnerID,
		&res.PetID,
		&res.StartDate,
		&res.EndDate,
		&res.ActivitiesIDs,
		&res.Confirmed,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reservations.Reservation{}, ErrNotFound
		}
		return reservations.Reservation{}, err
	}
	return res, nil
}

func collectReservations(rows pgx.Rows) ([]reservations.Reservation, error) {
	out := make([]reservations.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
