package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"medication-reminders/internal/domain/doselog"
)

type doseLogRepo struct {
	mu   sync.RWMutex
	byID map[string]doselog.DoseEvent
}

func NewDoseLogRepo() doselog.Repository {
	return &doseLogRepo{
		byID: make(map[string]doselog.DoseEvent),
	}
}

func (r *doseLogRepo) Create(ctx context.Context, e doselog.DoseEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("dose event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("dose event already exists")
	}

	r.byID[e.ID] = e
	return nil
}

func (r *doseLogRepo) GetByID(ctx context.Context, id string) (doselog.DoseEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return doselog.DoseEvent{}, doselog.ErrNotFound
	}
	return e, nil
}

func (r *doseLogRepo) ListByMedication(ctx context.Context, medicationID int64, filter doselog.ListFilter) ([]doselog.DoseEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]doselog.DoseEvent, 0)
	for _, e := range r.byID {
		if e.MedicationID != medicationID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.FromDay != nil && e.Day < *filter.FromDay {
			continue
		}
		if filter.ToDay != nil && e.Day > *filter.ToDay {
			continue
		}
		out = append(out, e)
	}

	// Orden por (día, hora) desc, lo más reciente primero
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day > out[j].Day
		}
		return out[i].Time > out[j].Time
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *doseLogRepo) Void(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return doselog.ErrNotFound
	}
	e.Status = doselog.StatusVoided
	r.byID[id] = e
	return nil
}
