package caretakers

import (
	"time"

	"pet-boarding/internal/ports/auth"
)

const DefaultProfilePicture = "default.png"

// Caretaker representa una cuenta que atiende reservas asignadas.
// AssignedReservationsIDs lo mantiene un proceso de asignación externo
// a este servicio; acá solo se lee.
type Caretaker struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         auth.Role
	Status       string

	AssignedReservationsIDs []string

	ProfilePicture string

	CreatedAt time.Time
	UpdatedAt time.Time
}
