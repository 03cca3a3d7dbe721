package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pet-boarding/internal/domain/pets"
)

type PetsRepo struct {
	pool *pgxpool.Pool
}

func NewPetsRepo(pool *pgxpool.Pool) *PetsRepo {
	return &PetsRepo{pool: pool}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pets (
			id, owner_id,
			name, age, breed, size, weight,
			profile_picture, record,
			current_reservation,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10,''),$11,$12)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.Age,
		p.Breed,
		p.Size,
		p.Weight,
		p.ProfilePicture,
		p.Record,
		p.CurrentReservation,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}
	return scanPet(r.pool.QueryRow(ctx, selectPet+` WHERE id = $1`, id))
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	rows, err := r.pool.Query(ctx, selectPet+` WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pets
		SET
			name = $2,
			age = $3,
			breed = $4,
			size = $5,
			weight = $6,
			profile_picture = $7,
			record = $8,
			updated_at = $9
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Age,
		p.Breed,
		p.Size,
		p.Weight,
		p.ProfilePicture,
		p.Record,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimReservation es un update condicional: solo gana si
// current_reservation está en NULL. El que pierde la carrera ve cero
// filas afectadas y recibe el conflicto.
func (r *PetsRepo) ClaimReservation(ctx context.Context, petID, reservationID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pets
		SET current_reservation = $2
		WHERE id = $1 AND current_reservation IS NULL
	`, petID, reservationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var one int
	err = r.pool.QueryRow(ctx, `SELECT 1 FROM pets WHERE id = $1`, petID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return pets.ErrReservationConflict
}

func (r *PetsRepo) ReleaseReservation(ctx context.Context, petID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pets
		SET current_reservation = NULL
		WHERE id = $1
	`, petID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectPet = `
	SELECT
		id, owner_id,
		name, age, breed, size, weight,
		profile_picture, record,
		COALESCE(current_reservation, ''),
		created_at, updated_at
	FROM pets`

func scanPet(row pgx.Row) (pets.Pet, error) {
	var p pets.Pet
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Age,
		&p.Breed,
		&p.Size,
		&p.Weight,
		&p.ProfilePicture,
		&p.Record,
		&p.CurrentReservation,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}
