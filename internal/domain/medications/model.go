package medications

import (
	"time"

	"medication-reminders/internal/recurrence"
)

// ScheduledMedication es un schedule recurrente de tomas. La regla de
// recurrencia se persiste explícita (Rule) además de su expansión diaria
// (TimesCSV), que se deriva una sola vez al guardar.
//
// Invariante: fuera de una transacción de guardado, los timers registrados
// para el schedule equivalen a expandir (días × horas − adelanto) menos las
// ocurrencias ya pasadas al momento de registrar.
type ScheduledMedication struct {
	ID int64

	Name string
	Kind Kind
	Dose string // texto libre ("500 mg"), opaco para el core

	Rule     recurrence.Rule
	TimesCSV string // "HH:MM,HH:MM,..." derivado de Rule al guardar

	// Rango de fechas inclusive, en epoch days. SelectedDaysCSV, si no está
	// vacío, reemplaza la expansión del rango por una lista explícita.
	StartDay        int64
	EndDay          int64
	SelectedDaysCSV string

	RemindBeforeMinutes int
	Active              bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Days devuelve el conjunto de días a expandir: la lista explícita si existe,
// si no cada día de [StartDay, EndDay].
func (m ScheduledMedication) Days() []int64 {
	if m.SelectedDaysCSV != "" {
		if days := recurrence.ParseDaysCSV(m.SelectedDaysCSV); len(days) > 0 {
			return days
		}
	}
	return recurrence.DayRange(m.StartDay, m.EndDay)
}

// Times parsea la expansión diaria persistida. Las entradas malformadas se
// descartan sin invalidar el resto.
func (m ScheduledMedication) Times() []recurrence.TimeOfDay {
	return recurrence.ParseTimesCSV(m.TimesCSV)
}
