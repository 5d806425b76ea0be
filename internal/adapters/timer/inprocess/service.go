// Package inprocess implementa el puerto de timers con un heap en memoria y
// un loop de ticks. Igual que los alarms de una plataforma móvil, nada de lo
// registrado acá sobrevive un reinicio del proceso: el boot reconciler vuelve
// a derivar todo desde el store al arrancar.
package inprocess

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmhodges/clock"

	"medication-reminders/internal/platform/logger"
	"medication-reminders/internal/ports/alarms"
	"medication-reminders/internal/ports/notify"
)

const defaultTick = time.Second

type Options struct {
	Clock clock.Clock   // nil => reloj real
	Tick  time.Duration // <= 0 => defaultTick
}

type Service struct {
	mu sync.Mutex
	q  *timerQueue

	clk      clock.Clock
	tick     time.Duration
	notifier notify.Notifier
	log      logger.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func New(notifier notify.Notifier, log logger.Logger, opts Options) *Service {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Service{
		q:        newTimerQueue(),
		clk:      clk,
		tick:     tick,
		notifier: notifier,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Schedule registra (o reemplaza, mismo ID) un timer one-shot. El flag Exact
// no cambia nada acá: el dispatcher en memoria siempre entrega al tick
// siguiente al vencimiento.
func (s *Service) Schedule(r alarms.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.schedule(r)
	return nil
}

func (s *Service) Cancel(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.cancel(id)
	return nil
}

// Pending devuelve la cantidad de timers vivos.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.pending()
}

// Run dispara el loop de entrega hasta Close. Pensado para `go svc.Run()`.
func (s *Service) Run() {
	t := time.NewTicker(s.tick)
	defer t.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.deliverDue(s.clk.Now())
		}
	}
}

func (s *Service) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// deliverDue entrega todo lo vencido a now. La notificación sale fuera del
// lock; un fallo de entrega se loguea y no reintenta (fire-and-forget).
func (s *Service) deliverDue(now time.Time) int {
	n := 0
	for {
		s.mu.Lock()
		e := s.q.popDue(now)
		s.mu.Unlock()

		if e == nil {
			return n
		}
		n++

		if err := s.notifier.Notify(context.Background(), e.req.ID, e.req.Title, e.req.Body); err != nil {
			s.log.Warn("failed to deliver notification", map[string]any{
				"id":  e.req.ID,
				"err": fmt.Sprint(err),
			})
		}
	}
}
