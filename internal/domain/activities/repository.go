package activities

import "context"

type Repository interface {
	Create(ctx context.Context, a Activity) error
	GetByID(ctx context.Context, id string) (Activity, error)
	ListByReservation(ctx context.Context, reservationID string) ([]Activity, error)
	Delete(ctx context.Context, id string) error
	DeleteByReservation(ctx context.Context, reservationID string) error

	// IncrementTimesCompleted suma 1 de forma atómica y devuelve la
	// actividad actualizada.
	IncrementTimesCompleted(ctx context.Context, id string) (Activity, error)
}
