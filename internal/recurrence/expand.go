package recurrence

import (
	"errors"
	"sort"
	"time"
)

// maxDailyTimes acota la generación de horas por día. Con intervalos que no
// dividen 24 la secuencia no vuelve a la hora inicial dentro del mismo día y
// el tope es lo único que la corta.
const maxDailyTimes = 24

var ErrInvalidRule = errors.New("invalid recurrence rule")

// Mode indica cómo se declaró la recurrencia diaria.
type Mode string

const (
	// ModeFixedInterval repite cada N horas a partir de la hora inicial.
	ModeFixedInterval Mode = "interval"
	// ModeCountPerDay reparte N tomas equiespaciadas desde la hora inicial.
	ModeCountPerDay Mode = "count"
)

// Rule es la regla de recurrencia declarada por el usuario. Se persiste
// explícitamente junto con su expansión (times_csv) para no tener que
// reconstruir el modo de forma heurística al editar.
type Rule struct {
	Mode          Mode
	IntervalHours int // solo ModeFixedInterval
	TimesPerDay   int // solo ModeCountPerDay
	Start         TimeOfDay
}

func (r Rule) Validate() error {
	switch r.Mode {
	case ModeFixedInterval:
		if r.IntervalHours < 1 || r.IntervalHours > 23 {
			return ErrInvalidRule
		}
	case ModeCountPerDay:
		if r.TimesPerDay < 1 || r.TimesPerDay > 24 {
			return ErrInvalidRule
		}
	default:
		return ErrInvalidRule
	}
	if r.Start < 0 || int(r.Start) >= minutesPerDay {
		return ErrInvalidRule
	}
	return nil
}

// DailyTimes expande la regla a las horas del día de un día calendario.
//
// ModeFixedInterval: start + k·h horas, con wrap a las 24h, hasta volver a la
// hora inicial o alcanzar el tope. Si h no divide 24 las horas no se repiten
// de forma estable entre días; se acepta, no se corrige.
//
// ModeCountPerDay: start + i·(24/n) horas, truncado a minutos enteros.
func (r Rule) DailyTimes() []TimeOfDay {
	switch r.Mode {
	case ModeFixedInterval:
		out := make([]TimeOfDay, 0, 8)
		t := r.Start
		for {
			out = append(out, t)
			t = TimeOfDay((int(t) + r.IntervalHours*60) % minutesPerDay)
			if t == r.Start || len(out) >= maxDailyTimes {
				break
			}
		}
		return out

	case ModeCountPerDay:
		spacing := 24.0 / float64(r.TimesPerDay)
		out := make([]TimeOfDay, 0, r.TimesPerDay)
		for i := 0; i < r.TimesPerDay; i++ {
			minutes := (int(r.Start) + int(spacing*60*float64(i))) % minutesPerDay
			out = append(out, TimeOfDay(minutes))
		}
		return out
	}

	return nil
}

// Occurrence es un disparo concreto: el día y la hora de la toma más el
// instante (ya con el adelanto descontado) en que debe sonar la alarma.
type Occurrence struct {
	Day    int64
	Time   TimeOfDay
	FireAt time.Time
}

// Occurrences materializa (días × horas) como instantes absolutos en loc,
// resta leadMinutes y descarta todo lo que quede en o antes de now: solo las
// ocurrencias futuras reciben alarma. El resultado queda ordenado por FireAt.
//
// La expansión no es idempotente entre llamadas con distinto now; sí lo es
// para un mismo now.
func Occurrences(days []int64, times []TimeOfDay, leadMinutes int, loc *time.Location, now time.Time) []Occurrence {
	lead := time.Duration(leadMinutes) * time.Minute

	out := make([]Occurrence, 0, len(days)*len(times))
	for _, day := range days {
		for _, t := range times {
			fireAt := At(day, t, loc).Add(-lead)
			if !fireAt.After(now) {
				continue
			}
			out = append(out, Occurrence{Day: day, Time: t, FireAt: fireAt})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}
