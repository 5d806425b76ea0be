package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyTimes_FixedInterval_AllIntervals(t *testing.T) {
	start := NewTimeOfDay(8, 0)

	for h := 1; h <= 23; h++ {
		rule := Rule{Mode: ModeFixedInterval, IntervalHours: h, Start: start}
		require.NoError(t, rule.Validate())

		times := rule.DailyTimes()
		require.NotEmpty(t, times, "interval=%d", h)
		assert.LessOrEqual(t, len(times), 24, "interval=%d", h)
		assert.Equal(t, start, times[0], "interval=%d", h)

		for i, tod := range times {
			assert.GreaterOrEqual(t, int(tod), 0, "interval=%d i=%d", h, i)
			assert.Less(t, int(tod), 24*60, "interval=%d i=%d", h, i)
			if i > 0 {
				// estrictamente creciente salvo en el wrap de medianoche
				prev := times[i-1]
				if tod > prev {
					assert.Equal(t, int(prev)+h*60, int(tod), "interval=%d i=%d", h, i)
				} else {
					assert.Equal(t, (int(prev)+h*60)%(24*60), int(tod), "wrap interval=%d i=%d", h, i)
				}
				assert.NotEqual(t, prev, tod, "duplicado consecutivo interval=%d i=%d", h, i)
			}
		}
	}
}

func TestDailyTimes_FixedInterval_StopsOnReturnToStart(t *testing.T) {
	rule := Rule{Mode: ModeFixedInterval, IntervalHours: 8, Start: NewTimeOfDay(8, 0)}

	times := rule.DailyTimes()
	require.Len(t, times, 3)
	assert.Equal(t, "08:00", times[0].String())
	assert.Equal(t, "16:00", times[1].String())
	assert.Equal(t, "00:00", times[2].String())
}

func TestDailyTimes_FixedInterval_GuardCap(t *testing.T) {
	// 5 no divide 24: la secuencia recién volvería al inicio tras 24 pasos,
	// así que corta por el tope.
	rule := Rule{Mode: ModeFixedInterval, IntervalHours: 5, Start: NewTimeOfDay(7, 30)}

	times := rule.DailyTimes()
	assert.Len(t, times, 24)
}

func TestDailyTimes_CountPerDay_AllCounts(t *testing.T) {
	start := NewTimeOfDay(7, 0)

	for n := 1; n <= 24; n++ {
		rule := Rule{Mode: ModeCountPerDay, TimesPerDay: n, Start: start}
		require.NoError(t, rule.Validate())

		times := rule.DailyTimes()
		require.Len(t, times, n, "n=%d", n)

		seen := map[TimeOfDay]bool{}
		spacing := 24.0 / float64(n)
		for i, tod := range times {
			assert.False(t, seen[tod], "n=%d duplicado %s", n, tod)
			seen[tod] = true

			want := (int(start) + int(spacing*60*float64(i))) % (24 * 60)
			assert.Equal(t, want, int(tod), "n=%d i=%d", n, i)
		}
	}
}

func TestDailyTimes_CountPerDayThree(t *testing.T) {
	rule := Rule{Mode: ModeCountPerDay, TimesPerDay: 3, Start: NewTimeOfDay(7, 0)}

	times := rule.DailyTimes()
	require.Len(t, times, 3)
	assert.Equal(t, "07:00", times[0].String())
	assert.Equal(t, "15:00", times[1].String())
	assert.Equal(t, "23:00", times[2].String())
}

func TestRule_Validate(t *testing.T) {
	assert.Error(t, Rule{Mode: ModeFixedInterval, IntervalHours: 0}.Validate())
	assert.Error(t, Rule{Mode: ModeFixedInterval, IntervalHours: 24}.Validate())
	assert.Error(t, Rule{Mode: ModeCountPerDay, TimesPerDay: 0}.Validate())
	assert.Error(t, Rule{Mode: ModeCountPerDay, TimesPerDay: 25}.Validate())
	assert.Error(t, Rule{Mode: Mode("weekly"), IntervalHours: 8}.Validate())
	assert.NoError(t, Rule{Mode: ModeFixedInterval, IntervalHours: 8, Start: NewTimeOfDay(8, 0)}.Validate())
}

func TestOccurrences_SingleDay(t *testing.T) {
	day := EpochDayOf(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	times := []TimeOfDay{NewTimeOfDay(8, 0), NewTimeOfDay(16, 0)}
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	occ := Occurrences([]int64{day}, times, 0, time.UTC, now)
	require.Len(t, occ, 2)
	for _, o := range occ {
		assert.Equal(t, day, o.Day)
	}
}

func TestOccurrences_SkipsPast(t *testing.T) {
	// ayer..mañana con "now" fijo: nada estrictamente anterior a now se registra
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	today := EpochDayOf(now)
	days := DayRange(today-1, today+1)
	times := []TimeOfDay{NewTimeOfDay(8, 0), NewTimeOfDay(16, 0)}

	occ := Occurrences(days, times, 0, time.UTC, now)
	require.Len(t, occ, 3) // hoy 16:00 + mañana 08:00 y 16:00
	for _, o := range occ {
		assert.True(t, o.FireAt.After(now), "ocurrencia pasada registrada: %v", o.FireAt)
	}
}

func TestOccurrences_BoundaryNotIncluded(t *testing.T) {
	// una ocurrencia exactamente en now se descarta
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	day := EpochDayOf(now)

	occ := Occurrences([]int64{day}, []TimeOfDay{NewTimeOfDay(8, 0)}, 0, time.UTC, now)
	assert.Empty(t, occ)
}

func TestOccurrences_LeadTime(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	day := EpochDayOf(now)

	occ := Occurrences([]int64{day}, []TimeOfDay{NewTimeOfDay(8, 0)}, 15, time.UTC, now)
	require.Len(t, occ, 1)
	assert.Equal(t, time.Date(2026, time.March, 10, 7, 45, 0, 0, time.UTC), occ[0].FireAt)
}

func TestOccurrences_Amoxicillin_EndToEnd(t *testing.T) {
	// nombre="Amoxicillin", intervalo 8h desde 08:00, un único día D
	rule := Rule{Mode: ModeFixedInterval, IntervalHours: 8, Start: NewTimeOfDay(8, 0)}
	day := EpochDayOf(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	now := time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC)

	occ := Occurrences([]int64{day}, rule.DailyTimes(), 0, time.UTC, now)
	require.Len(t, occ, 3)

	// ordenado por instante de disparo: 00:00, 08:00, 16:00 del día D
	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), occ[0].FireAt)
	assert.Equal(t, time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC), occ[1].FireAt)
	assert.Equal(t, time.Date(2026, time.June, 1, 16, 0, 0, 0, time.UTC), occ[2].FireAt)
}

func TestOccurrences_CountPerDayThree_TwoDays(t *testing.T) {
	rule := Rule{Mode: ModeCountPerDay, TimesPerDay: 3, Start: NewTimeOfDay(7, 0)}
	from := EpochDayOf(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	now := time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC)

	occ := Occurrences(DayRange(from, from+1), rule.DailyTimes(), 0, time.UTC, now)
	require.Len(t, occ, 6)

	wantTimes := []string{"07:00", "15:00", "23:00", "07:00", "15:00", "23:00"}
	for i, o := range occ {
		assert.Equal(t, wantTimes[i], o.Time.String())
	}
}
