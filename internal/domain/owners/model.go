package owners

import (
	"time"

	"pet-boarding/internal/ports/auth"
)

// DefaultProfilePicture es la key sentinel que nunca se borra del store.
const DefaultProfilePicture = "default.png"

// Owner representa una cuenta dueña de mascotas y reservas.
// PetsIDs y ReservationsIDs son espejos de las referencias ownerID
// en Pet y Reservation; ambos lados se mantienen juntos.
type Owner struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         auth.Role
	Phone        string
	Status       string

	PetsIDs         []string
	ReservationsIDs []string

	ProfilePicture string

	CreatedAt time.Time
	UpdatedAt time.Time
}
