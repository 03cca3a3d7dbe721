package notifications

// Notification es un registro write-once que snapshotea el accomplish de
// una actividad. Es la fuente durable de verdad; el push en vivo es solo
// una optimización de latencia.
type Notification struct {
	ID string

	OwnerID       string
	CaretakerID   string
	CaretakerName string
	PetID         string
	PetName       string

	Activity       string
	TimesCompleted int

	Date string // YYYY-MM-DD
	Time string // HH:MM:SS
}
