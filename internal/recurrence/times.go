package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay es una hora del día en minutos desde medianoche [0, 1440).
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay((hour*60 + minute) % minutesPerDay)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String formatea como "HH:MM" (mismo formato que se persiste en times_csv).
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ParseTimeOfDay acepta "HH:MM" (también "H:M").
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day out of range %q", s)
	}
	return NewTimeOfDay(h, m), nil
}

// ParseTimesCSV parsea la lista "HH:MM,HH:MM,...". Las entradas malformadas
// se saltan en silencio: una hora corrupta no invalida el resto del schedule.
func ParseTimesCSV(csv string) []TimeOfDay {
	out := make([]TimeOfDay, 0, 4)
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseTimeOfDay(part)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

func FormatTimesCSV(times []TimeOfDay) string {
	parts := make([]string, 0, len(times))
	for _, t := range times {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ",")
}

// ParseDaysCSV parsea una lista de epoch days ("20310,20311,..."). Igual que
// con las horas, las entradas no numéricas se descartan.
func ParseDaysCSV(csv string) []int64 {
	out := make([]int64, 0, 4)
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

func FormatDaysCSV(days []int64) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.FormatInt(d, 10))
	}
	return strings.Join(parts, ",")
}

// EpochDayOf devuelve los días desde 1970-01-01 de la fecha civil de t.
func EpochDayOf(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DateOf devuelve la fecha civil de un epoch day.
func DateOf(epochDay int64) (year int, month time.Month, day int) {
	return time.Unix(epochDay*86400, 0).UTC().Date()
}

// At materializa (epoch day, hora del día) como instante absoluto en loc.
func At(epochDay int64, t TimeOfDay, loc *time.Location) time.Time {
	y, m, d := DateOf(epochDay)
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
}

// DayRange expande [from, to] inclusive. Devuelve vacío si from > to.
func DayRange(from, to int64) []int64 {
	if from > to {
		return nil
	}
	out := make([]int64, 0, to-from+1)
	for d := from; d <= to; d++ {
		out = append(out, d)
	}
	return out
}
