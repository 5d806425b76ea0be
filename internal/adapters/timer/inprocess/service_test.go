package inprocess

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-reminders/internal/ports/alarms"
)

type captureNotifier struct {
	mu    sync.Mutex
	calls []int64
}

func (c *captureNotifier) Notify(_ context.Context, id int64, _, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, id)
	return nil
}

func (c *captureNotifier) ids() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.calls...)
}

func newTestService(n *captureNotifier) (*Service, clock.FakeClock) {
	clk := clock.NewFake()
	return New(n, nil, Options{Clock: clk}), clk
}

func TestDeliverDue_FiresInOrder(t *testing.T) {
	n := &captureNotifier{}
	s, clk := newTestService(n)
	base := clk.Now()

	require.NoError(t, s.Schedule(alarms.Request{ID: 2, FireAt: base.Add(2 * time.Hour)}))
	require.NoError(t, s.Schedule(alarms.Request{ID: 1, FireAt: base.Add(1 * time.Hour)}))
	require.NoError(t, s.Schedule(alarms.Request{ID: 3, FireAt: base.Add(3 * time.Hour)}))

	fired := s.deliverDue(base.Add(2 * time.Hour))
	assert.Equal(t, 2, fired)
	assert.Equal(t, []int64{1, 2}, n.ids())
	assert.Equal(t, 1, s.Pending())
}

func TestDeliverDue_NothingDue(t *testing.T) {
	n := &captureNotifier{}
	s, clk := newTestService(n)

	require.NoError(t, s.Schedule(alarms.Request{ID: 1, FireAt: clk.Now().Add(time.Hour)}))
	assert.Zero(t, s.deliverDue(clk.Now()))
	assert.Empty(t, n.ids())
}

func TestSchedule_SameIDReplaces(t *testing.T) {
	n := &captureNotifier{}
	s, clk := newTestService(n)
	base := clk.Now()

	require.NoError(t, s.Schedule(alarms.Request{ID: 7, FireAt: base.Add(time.Hour), Title: "old"}))
	require.NoError(t, s.Schedule(alarms.Request{ID: 7, FireAt: base.Add(2 * time.Hour), Title: "new"}))

	assert.Equal(t, 1, s.Pending())

	// al vencer el horario viejo no dispara: quedó la registración nueva
	assert.Zero(t, s.deliverDue(base.Add(time.Hour)))
	assert.Equal(t, 1, s.deliverDue(base.Add(2*time.Hour)))
	assert.Equal(t, []int64{7}, n.ids())
}

func TestCancel_RemovesPending(t *testing.T) {
	n := &captureNotifier{}
	s, clk := newTestService(n)

	require.NoError(t, s.Schedule(alarms.Request{ID: 7, FireAt: clk.Now().Add(time.Hour)}))
	require.NoError(t, s.Cancel(7))

	assert.Zero(t, s.Pending())
	assert.Zero(t, s.deliverDue(clk.Now().Add(2*time.Hour)))
}

func TestCancel_UnknownIDIsNoop(t *testing.T) {
	n := &captureNotifier{}
	s, _ := newTestService(n)
	assert.NoError(t, s.Cancel(999))
}

func TestRun_DeliversOnTick(t *testing.T) {
	n := &captureNotifier{}
	clk := clock.NewFake()
	s := New(n, nil, Options{Clock: clk, Tick: time.Millisecond})
	defer s.Close()

	require.NoError(t, s.Schedule(alarms.Request{ID: 1, FireAt: clk.Now().Add(time.Minute)}))

	go s.Run()
	clk.Add(2 * time.Minute)

	deadline := time.After(2 * time.Second)
	for len(n.ids()) == 0 {
		select {
		case <-deadline:
			t.Fatal("timer nunca disparó")
		case <-time.After(5 * time.Millisecond):
		}
	}
	assert.Equal(t, []int64{1}, n.ids())
}
