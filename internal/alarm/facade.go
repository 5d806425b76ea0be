package alarm

import (
	"errors"
	"fmt"
	"time"

	"medication-reminders/internal/platform/logger"
	"medication-reminders/internal/ports/alarms"
	"medication-reminders/internal/recurrence"
)

// Payload es el texto que viaja con cada timer.
type Payload struct {
	Title string
	Body  string
}

// Facade traduce (schedule, día, hora) a registraciones de timer con
// identificador determinístico. Las fallas de registración se loguean y no
// se propagan: la mutación de base de datos es el hecho durable, no el timer.
type Facade struct {
	timers alarms.Service
	log    logger.Logger
}

func New(timers alarms.Service, log logger.Logger) *Facade {
	if log == nil {
		log = logger.Nop()
	}
	return &Facade{timers: timers, log: log}
}

// RequestCode deriva el identificador entero de un timer como función pura de
// (scheduleID, epochDay, minuto del día): multiplicación por constantes impares
// grandes + XOR + avalancha final. Sin tabla de lookup; cancelar recalcula el
// mismo código. La ausencia de colisiones se verifica empíricamente en tests.
func RequestCode(scheduleID, epochDay int64, t recurrence.TimeOfDay) int64 {
	h := uint64(scheduleID) * 0x9E3779B97F4A7C15
	h ^= uint64(epochDay) * 0xC2B2AE3D27D4EB4F
	h ^= uint64(int64(t)) * 0x165667B19E3779F9
	h ^= h >> 33
	h *= 0xD6E8FEB86659FD93
	h ^= h >> 29
	return int64(h >> 1) // siempre >= 0
}

// Register registra un timer exacto para la ocurrencia; si la plataforma
// rechaza la entrega exacta degrada a inexacta. Re-registrar la misma tupla
// reemplaza la registración previa (idempotente por identificador).
func (f *Facade) Register(scheduleID, epochDay int64, t recurrence.TimeOfDay, p Payload, fireAt time.Time) {
	code := RequestCode(scheduleID, epochDay, t)
	req := alarms.Request{
		ID:     code,
		FireAt: fireAt,
		Exact:  true,
		Title:  p.Title,
		Body:   p.Body,
	}

	err := f.timers.Schedule(req)
	if errors.Is(err, alarms.ErrExactUnavailable) {
		f.log.Warn("exact alarm unavailable, falling back to inexact", map[string]any{
			"schedule_id": scheduleID,
			"code":        code,
		})
		req.Exact = false
		err = f.timers.Schedule(req)
	}
	if err != nil {
		f.log.Error("failed to register alarm", map[string]any{
			"schedule_id": scheduleID,
			"code":        code,
			"fire_at":     fireAt,
			"err":         fmt.Sprint(err),
		})
		return
	}

	f.log.Debug("alarm registered", map[string]any{
		"schedule_id": scheduleID,
		"epoch_day":   epochDay,
		"time":        t.String(),
		"code":        code,
		"fire_at":     fireAt,
	})
}

// Cancel recalcula el código y descarta la registración pendiente si existe.
// Best-effort: cancelar algo que no está registrado no es error.
func (f *Facade) Cancel(scheduleID, epochDay int64, t recurrence.TimeOfDay) {
	code := RequestCode(scheduleID, epochDay, t)
	if err := f.timers.Cancel(code); err != nil {
		f.log.Warn("failed to cancel alarm", map[string]any{
			"schedule_id": scheduleID,
			"code":        code,
			"err":         fmt.Sprint(err),
		})
	}
}
