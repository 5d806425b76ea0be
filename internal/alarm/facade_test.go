package alarm

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-reminders/internal/ports/alarms"
	"medication-reminders/internal/recurrence"
)

type fakeTimers struct {
	live        map[int64]alarms.Request
	denyExact   bool
	failAll     bool
	scheduled   int
	cancelCalls int
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{live: map[int64]alarms.Request{}}
}

func (f *fakeTimers) Schedule(r alarms.Request) error {
	if f.failAll {
		return errors.New("boom")
	}
	if f.denyExact && r.Exact {
		return alarms.ErrExactUnavailable
	}
	f.scheduled++
	f.live[r.ID] = r
	return nil
}

func (f *fakeTimers) Cancel(id int64) error {
	f.cancelCalls++
	delete(f.live, id)
	return nil
}

func TestRequestCode_Deterministic(t *testing.T) {
	a := RequestCode(7, 20310, recurrence.NewTimeOfDay(8, 0))
	b := RequestCode(7, 20310, recurrence.NewTimeOfDay(8, 0))
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, int64(0))
}

func TestRequestCode_CollisionFreedom(t *testing.T) {
	// 10k tuplas (scheduleID, epochDay, hora) distintas => 10k códigos distintos
	rng := rand.New(rand.NewSource(42))

	type tuple struct {
		id   int64
		day  int64
		tod  recurrence.TimeOfDay
	}
	seenTuples := map[tuple]bool{}
	codes := map[int64]tuple{}

	for len(seenTuples) < 10000 {
		tu := tuple{
			id:  rng.Int63n(1 << 20),
			day: 19000 + rng.Int63n(4000),
			tod: recurrence.TimeOfDay(rng.Intn(24 * 60)),
		}
		if seenTuples[tu] {
			continue
		}
		seenTuples[tu] = true

		code := RequestCode(tu.id, tu.day, tu.tod)
		if prev, dup := codes[code]; dup {
			t.Fatalf("collision: %+v and %+v -> %d", prev, tu, code)
		}
		codes[code] = tu
	}
}

func TestFacade_Register_IdempotentByIdentifier(t *testing.T) {
	timers := newFakeTimers()
	f := New(timers, nil)

	day := int64(20310)
	tod := recurrence.NewTimeOfDay(8, 0)
	at := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)

	f.Register(7, day, tod, Payload{Title: "Tomar Amoxicilina"}, at)
	f.Register(7, day, tod, Payload{Title: "Tomar Amoxicilina"}, at)

	// dos registraciones idénticas => exactamente un timer vivo
	require.Len(t, timers.live, 1)
}

func TestFacade_Register_FallsBackToInexact(t *testing.T) {
	timers := newFakeTimers()
	timers.denyExact = true
	f := New(timers, nil)

	at := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)
	f.Register(7, 20310, recurrence.NewTimeOfDay(8, 0), Payload{}, at)

	require.Len(t, timers.live, 1)
	for _, r := range timers.live {
		assert.False(t, r.Exact, "la registración degradada debe ser inexacta")
	}
}

func TestFacade_Register_SwallowsFailures(t *testing.T) {
	timers := newFakeTimers()
	timers.failAll = true
	f := New(timers, nil)

	// no entra en pánico ni propaga nada
	f.Register(7, 20310, recurrence.NewTimeOfDay(8, 0), Payload{}, time.Now())
	assert.Empty(t, timers.live)
}

func TestFacade_Cancel_NoopWhenAbsent(t *testing.T) {
	timers := newFakeTimers()
	f := New(timers, nil)

	f.Cancel(7, 20310, recurrence.NewTimeOfDay(8, 0))
	assert.Equal(t, 1, timers.cancelCalls)
}

func TestFacade_CancelRemovesWhatRegisterAdded(t *testing.T) {
	timers := newFakeTimers()
	f := New(timers, nil)

	day := int64(20310)
	tod := recurrence.NewTimeOfDay(16, 0)
	f.Register(9, day, tod, Payload{}, time.Date(2026, time.June, 1, 16, 0, 0, 0, time.UTC))
	require.Len(t, timers.live, 1)

	f.Cancel(9, day, tod)
	assert.Empty(t, timers.live)
}
