package reservations

import "context"

type Repository interface {
	Create(ctx context.Context, res Reservation) error
	GetByID(ctx context.Context, id string) (Reservation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Reservation, error)
	ListByIDs(ctx context.Context, ids []string) ([]Reservation, error)
	Delete(ctx context.Context, id string) error

	// SetConfirmed marca confirmed=true. No hay camino de vuelta.
	SetConfirmed(ctx context.Context, id string) error

	// AddActivity agrega el id con semántica de set (duplicate-safe).
	AddActivity(ctx context.Context, reservationID, activityID string) error

	// RemoveActivity saca el id del array (pull).
	RemoveActivity(ctx context.Context, reservationID, activityID string) error
}
