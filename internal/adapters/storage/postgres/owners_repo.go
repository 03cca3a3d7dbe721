package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/ports/auth"
)

type OwnersRepo struct {
	pool *pgxpool.Pool
}

func NewOwnersRepo(pool *pgxpool.Pool) *OwnersRepo {
	return &OwnersRepo{pool: pool}
}

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO owners (
			id, username, email, password_hash, role,
			phone, status,
			pets_ids, reservations_ids,
			profile_picture,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		o.ID,
		o.Username,
		o.Email,
		o.PasswordHash,
		string(o.Role),
		o.Phone,
		o.Status,
		o.PetsIDs,
		o.ReservationsIDs,
		o.ProfilePicture,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return owners.Owner{}, ErrNotFound
	}
	return r.scanOne(r.pool.QueryRow(ctx, selectOwner+` WHERE id = $1`, id))
}

func (r *OwnersRepo) GetByEmail(ctx context.Context, email string) (owners.Owner, error) {
	return r.scanOne(r.pool.QueryRow(ctx, selectOwner+` WHERE email = $1`, email))
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE owners
		SET
			username = $2,
			email = $3,
			phone = $4,
			status = $5,
			profile_picture = $6,
			updated_at = $7
		WHERE id = $1
	`,
		o.ID,
		o.Username,
		o.Email,
		o.Phone,
		o.Status,
		o.ProfilePicture,
		o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OwnersRepo) AddPet(ctx context.Context, ownerID, petID string) error {
	return r.arrayAppend(ctx, "pets_ids", ownerID, petID)
}

func (r *OwnersRepo) RemovePet(ctx context.Context, ownerID, petID string) error {
	return r.arrayRemove(ctx, "pets_ids", ownerID, petID)
}

func (r *OwnersRepo) AddReservation(ctx context.Context, ownerID, reservationID string) error {
	return r.arrayAppend(ctx, "reservations_ids", ownerID, reservationID)
}

func (r *OwnersRepo) RemoveReservation(ctx context.Context, ownerID, reservationID string) error {
	return r.arrayRemove(ctx, "reservations_ids", ownerID, reservationID)
}

// arrayAppend agrega con semántica de set: el guard @> evita duplicados
// aunque el caller repita la operación.
func (r *OwnersRepo) arrayAppend(ctx context.Context, column, ownerID, value string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE owners
		SET `+column+` = array_append(`+column+`, $2)
		WHERE id = $1 AND NOT (`+column+` @> ARRAY[$2])
	`, ownerID, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// o no existe el owner, o el valor ya estaba; distinguimos
		return r.exists(ctx, ownerID)
	}
	return nil
}

func (r *OwnersRepo) arrayRemove(ctx context.Context, column, ownerID, value string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE owners
		SET `+column+` = array_remove(`+column+`, $2)
		WHERE id = $1
	`, ownerID, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OwnersRepo) exists(ctx context.Context, id string) error {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM owners WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

const selectOwner = `
	SELECT
		id, username, email, password_hash, role,
		phone, status,
		pets_ids, reservations_ids,
		profile_picture,
		created_at, updated_at
	FROM owners`

func (r *OwnersRepo) scanOne(row pgx.Row) (owners.Owner, error) {
	var o owners.Owner
	var role string
	if err := row.Scan(
		&o.ID,
		&o.Username,
		&o.Email,
		&o.PasswordHash,
		&role,
		&o.Phone,
		&o.Status,
		&o.PetsIDs,
		&o.ReservationsIDs,
		&o.ProfilePicture,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return owners.Owner{}, ErrNotFound
		}
		return owners.Owner{}, err
	}
	o.Role = auth.Role(role)
	return o, nil
}
