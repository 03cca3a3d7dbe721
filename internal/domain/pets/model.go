package pets

import "time"

const DefaultProfilePicture = "default.png"

// Pet representa una mascota registrada por un owner.
// CurrentReservation vacío significa sin reserva activa; es el invariante
// que impide dos reservas vivas para la misma mascota.
type Pet struct {
	ID      string
	OwnerID string

	Name  string
	Age   int
	Breed string
	Size  string // S, M, L; default M
	Weight float64

	ProfilePicture string
	Record         string // key del PDF de historia médica

	CurrentReservation string

	CreatedAt time.Time
	UpdatedAt time.Time
}
