package reservations

import "time"

// Reservation es un periodo de hospedaje reservado para una mascota.
// Confirmed es monotónico: false -> true, nunca al revés. Una reserva
// confirmada no se edita; solo se cancela.
type Reservation struct {
	ID      string
	OwnerID string
	PetID   string

	StartDate time.Time
	EndDate   time.Time

	ActivitiesIDs []string
	Confirmed     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
