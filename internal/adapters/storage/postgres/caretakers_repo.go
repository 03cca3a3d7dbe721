package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pet-boarding/internal/domain/caretakers"
	"pet-boarding/internal/ports/auth"
)

type CaretakersRepo struct {
	pool *pgxpool.Pool
}

func NewCaretakersRepo(pool *pgxpool.Pool) *CaretakersRepo {
	return &CaretakersRepo{pool: pool}
}

func (r *CaretakersRepo) Create(ctx context.Context, c caretakers.Caretaker) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO caretakers (
			id, username, email, password_hash, role,
			status,
			assigned_reservations_ids,
			profile_picture,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		c.ID,
		c.Username,
		c.Email,
		c.PasswordHash,
		string(c.Role),
		c.Status,
		c.AssignedReservationsIDs,
		c.ProfilePicture,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CaretakersRepo) GetByID(ctx context.Context, id string) (caretakers.Caretaker, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return caretakers.Caretaker{}, ErrNotFound
	}
	return r.scanOne(r.pool.QueryRow(ctx, selectCaretaker+` WHERE id = $1`, id))
}

func (r *CaretakersRepo) GetByEmail(ctx context.Context, email string) (caretakers.Caretaker, error) {
	return r.scanOne(r.pool.QueryRow(ctx, selectCaretaker+` WHERE email = $1`, email))
}

func (r *CaretakersRepo) Update(ctx context.Context, c caretakers.Caretaker) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE caretakers
		SET
			username = $2,
			email = $3,
			status = $4,
			profile_picture = $5,
			updated_at = $6
		WHERE id = $1
	`,
		c.ID,
		c.Username,
		c.Email,
		c.Status,
		c.ProfilePicture,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CaretakersRepo) AddAssignedReservation(ctx context.Context, caretakerID, reservationID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE caretakers
		SET assigned_reservations_ids = array_append(assigned_reservations_ids, $2)
		WHERE id = $1 AND NOT (assigned_reservations_ids @> ARRAY[$2])
	`, caretakerID, reservationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var one int
		err := r.pool.QueryRow(ctx, `SELECT 1 FROM caretakers WHERE id = $1`, caretakerID).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

const selectCaretaker = `
	SELECT
		id, username, email, password_hash, role,
		status,
		assigned_reservations_ids,
		profile_picture,
		created_at, updated_at
	FROM caretakers`

func (r *CaretakersRepo) scanOne(row pgx.Row) (caretakers.Caretaker, error) {
	var c caretakers.Caretaker
	var role string
	if err := row.Scan(
		&c.ID,
		&c.Username,
		&c.Email,
		&c.PasswordHash,
		&role,
		&c.Status,
		&c.AssignedReservationsIDs,
		&c.ProfilePicture,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return caretakers.Caretaker{}, ErrNotFound
		}
		return caretakers.Caretaker{}, err
	}
	c.Role = auth.Role(role)
	return c, nil
}
