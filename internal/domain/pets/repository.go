package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error

	// ClaimReservation setea currentReservation solo si está vacío.
	// Devuelve ErrReservationConflict si la mascota ya tiene una reserva
	// activa; es el check-and-set que cierra la carrera de doble reserva.
	ClaimReservation(ctx context.Context, petID, reservationID string) error

	// ReleaseReservation limpia currentReservation.
	ReleaseReservation(ctx context.Context, petID string) error
}
