package owners

import "context"

type Repository interface {
	Create(ctx context.Context, o Owner) error
	GetByID(ctx context.Context, id string) (Owner, error)
	GetByEmail(ctx context.Context, email string) (Owner, error)
	Update(ctx context.Context, o Owner) error

	// Mutaciones set-semantics sobre los arrays espejo.
	AddPet(ctx context.Context, ownerID, petID string) error
	RemovePet(ctx context.Context, ownerID, petID string) error
	AddReservation(ctx context.Context, ownerID, reservationID string) error
	RemoveReservation(ctx context.Context, ownerID, reservationID string) error
}
