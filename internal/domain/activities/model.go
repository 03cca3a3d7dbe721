package activities

import "time"

// Activity es una tarea de cuidado recurrente atada a una reserva.
// TimesCompleted solo sube; no hay reset automático por Frequency.
type Activity struct {
	ID            string
	ReservationID string

	Title       string
	Description string
	Frequency   string // cadencia en texto libre ("daily", "2x per day", ...)

	TimesCompleted int

	CreatedAt time.Time
	UpdatedAt time.Time
}
