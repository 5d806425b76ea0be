package medications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medication-reminders/internal/alarm"
	"medication-reminders/internal/platform/logger"
	"medication-reminders/internal/recurrence"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

type Service struct {
	repo   Repository
	alarms *alarm.Facade
	log    logger.Logger

	loc *time.Location
	now func() time.Time
}

func NewService(repo Repository, alarms *alarm.Facade, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		alarms: alarms,
		log:    log,
		loc:    time.Local,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name string
	Kind Kind
	Dose string

	Rule recurrence.Rule

	StartDay     int64
	EndDay       int64
	SelectedDays []int64

	RemindBeforeMinutes int
}

// Create valida, deriva la expansión diaria de la regla, persiste y recién
// entonces registra las alarmas. La fila en la base es el hecho durable: si
// la registración de timers falla se loguea y el guardado igual es exitoso.
func (s *Service) Create(ctx context.Context, in CreateInput) (ScheduledMedication, error) {
	if strings.TrimSpace(in.Name) == "" {
		return ScheduledMedication{}, ErrInvalidInput
	}
	if in.Kind != "" && !ValidKind(in.Kind) {
		return ScheduledMedication{}, ErrInvalidInput
	}
	if err := in.Rule.Validate(); err != nil {
		return ScheduledMedication{}, ErrInvalidInput
	}
	if len(in.SelectedDays) == 0 && in.StartDay > in.EndDay {
		return ScheduledMedication{}, ErrInvalidInput
	}
	if in.RemindBeforeMinutes < 0 {
		return ScheduledMedication{}, ErrInvalidInput
	}

	kind := in.Kind
	if kind == "" {
		kind = KindOther
	}

	// Con lista explícita de días, [StartDay, EndDay] se normaliza al span de
	// la lista para que los filtros por rango sigan funcionando.
	startDay, endDay := in.StartDay, in.EndDay
	if len(in.SelectedDays) > 0 {
		startDay, endDay = daySpan(in.SelectedDays)
	}

	now := s.now()
	m := ScheduledMedication{
		Name:                strings.TrimSpace(in.Name),
		Kind:                kind,
		Dose:                strings.TrimSpace(in.Dose),
		Rule:                in.Rule,
		TimesCSV:            recurrence.FormatTimesCSV(in.Rule.DailyTimes()),
		StartDay:            startDay,
		EndDay:              endDay,
		SelectedDaysCSV:     recurrence.FormatDaysCSV(in.SelectedDays),
		RemindBeforeMinutes: in.RemindBeforeMinutes,
		Active:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	id, err := s.repo.Create(ctx, m)
	if err != nil {
		return ScheduledMedication{}, err
	}
	m.ID = id

	s.registerAlarms(m)
	return m, nil
}

// UpdateInput usa punteros para PATCH real: nil = no tocar.
type UpdateInput struct {
	Name *string
	Kind *Kind
	Dose *string

	Rule *recurrence.Rule

	StartDay     *int64
	EndDay       *int64
	SelectedDays *[]int64

	RemindBeforeMinutes *int
	Active              *bool
}

// Update edita un schedule. Las alarmas viejas se cancelan con los valores
// pre-edición antes de registrar las nuevas con los valores post-edición:
// cancel happens-before register, nunca conviven las dos generaciones.
// Ediciones concurrentes del mismo schedule no están serializadas.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (ScheduledMedication, error) {
	prev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ScheduledMedication{}, err
	}

	next := prev
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return ScheduledMedication{}, ErrInvalidInput
		}
		next.Name = strings.TrimSpace(*in.Name)
	}
	if in.Kind != nil {
		if !ValidKind(*in.Kind) {
			return ScheduledMedication{}, ErrInvalidInput
		}
		next.Kind = *in.Kind
	}
	if in.Dose != nil {
		next.Dose = strings.TrimSpace(*in.Dose)
	}
	if in.Rule != nil {
		if err := in.Rule.Validate(); err != nil {
			return ScheduledMedication{}, ErrInvalidInput
		}
		next.Rule = *in.Rule
		next.TimesCSV = recurrence.FormatTimesCSV(in.Rule.DailyTimes())
	}
	if in.StartDay != nil {
		next.StartDay = *in.StartDay
	}
	if in.EndDay != nil {
		next.EndDay = *in.EndDay
	}
	if in.SelectedDays != nil {
		next.SelectedDaysCSV = recurrence.FormatDaysCSV(*in.SelectedDays)
		if len(*in.SelectedDays) > 0 {
			next.StartDay, next.EndDay = daySpan(*in.SelectedDays)
		}
	}
	if in.RemindBeforeMinutes != nil {
		if *in.RemindBeforeMinutes < 0 {
			return ScheduledMedication{}, ErrInvalidInput
		}
		next.RemindBeforeMinutes = *in.RemindBeforeMinutes
	}
	if in.Active != nil {
		next.Active = *in.Active
	}
	if next.SelectedDaysCSV == "" && next.StartDay > next.EndDay {
		return ScheduledMedication{}, ErrInvalidInput
	}
	next.UpdatedAt = s.now()

	s.cancelAlarms(prev)

	if err := s.repo.Update(ctx, next); err != nil {
		// las alarmas viejas ya no existen; el boot reconciler las repone
		// en el próximo arranque a partir de la fila intacta
		s.log.Warn("update failed after cancelling alarms", map[string]any{
			"id":  id,
			"err": fmt.Sprint(err),
		})
		return ScheduledMedication{}, err
	}

	if next.Active {
		s.registerAlarms(next)
	}
	return next, nil
}

// Delete borra la fila y cancela las alarmas con los valores del propio
// registro (por eso se carga la entidad antes de borrar).
func (s *Service) Delete(ctx context.Context, id int64) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cancelAlarms(m)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (ScheduledMedication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]ScheduledMedication, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListBetween(ctx context.Context, fromDay, toDay int64) ([]ScheduledMedication, error) {
	if fromDay > toDay {
		return nil, ErrInvalidInput
	}
	return s.repo.ListBetween(ctx, fromDay, toDay)
}

// RestoreAlarms es el boot reconciler: los timers en memoria no sobreviven
// un reinicio, así que al arrancar se re-deriva y re-registra todo schedule
// activo como si se acabara de guardar. El fallo de un schedule se aísla y
// loguea; el resto sigue. Corre fuera del camino interactivo.
func (s *Service) RestoreAlarms(ctx context.Context) error {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	s.log.Info("restoring alarms", map[string]any{"schedules": len(active)})

	for _, m := range active {
		n := s.registerAlarms(m)
		s.log.Debug("schedule restored", map[string]any{"id": m.ID, "alarms": n})
	}
	return nil
}

// registerAlarms expande el schedule y registra un timer por ocurrencia
// futura. Devuelve cuántos registró. Nunca falla hacia el caller.
func (s *Service) registerAlarms(m ScheduledMedication) int {
	occ := recurrence.Occurrences(m.Days(), m.Times(), m.RemindBeforeMinutes, s.loc, s.now())
	for _, o := range occ {
		s.alarms.Register(m.ID, o.Day, o.Time, payloadFor(m, o.Time), o.FireAt)
	}
	return len(occ)
}

// cancelAlarms recorre el conjunto completo días × horas: cancelar un código
// sin registración pendiente es un no-op, así que no hace falta filtrar por
// "futuro" como al registrar.
func (s *Service) cancelAlarms(m ScheduledMedication) {
	times := m.Times()
	for _, day := range m.Days() {
		for _, t := range times {
			s.alarms.Cancel(m.ID, day, t)
		}
	}
}

func daySpan(days []int64) (min, max int64) {
	min, max = days[0], days[0]
	for _, d := range days[1:] {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

func payloadFor(m ScheduledMedication, t recurrence.TimeOfDay) alarm.Payload {
	return alarm.Payload{
		Title: "Tomar " + m.Name,
		Body:  fmt.Sprintf("%s - %s (%s)", m.Kind, m.Dose, t),
	}
}
