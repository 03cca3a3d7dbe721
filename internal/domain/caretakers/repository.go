package caretakers

import "context"

type Repository interface {
	Create(ctx context.Context, c Caretaker) error
	GetByID(ctx context.Context, id string) (Caretaker, error)
	GetByEmail(ctx context.Context, email string) (Caretaker, error)
	Update(ctx context.Context, c Caretaker) error

	// AddAssignedReservation es set-semantics; lo usa el proceso de
	// asignación (externo) y los tests.
	AddAssignedReservation(ctx context.Context, caretakerID, reservationID string) error
}
