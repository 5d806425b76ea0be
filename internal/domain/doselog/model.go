package doselog

import (
	"time"

	"medication-reminders/internal/recurrence"
)

// DoseEvent es el registro de una toma puntual: el usuario marcó tomada o
// salteada una ocurrencia (día + hora) de un schedule. El historial es
// append-only, anular no borra.
type DoseEvent struct {
	ID           string
	MedicationID int64

	Day  int64
	Time recurrence.TimeOfDay

	Status DoseStatus
	Source Source
	Notes  string

	RecordedAt time.Time
}
