package memory

import (
	"context"
	"sort"
	"sync"

	"medication-reminders/internal/domain/medications"
)

type medicationRepo struct {
	mu     sync.RWMutex
	byID   map[int64]medications.ScheduledMedication
	nextID int64
}

func NewMedicationRepo() medications.Repository {
	return &medicationRepo{
		byID: make(map[int64]medications.ScheduledMedication),
	}
}

func (r *medicationRepo) Create(ctx context.Context, m medications.ScheduledMedication) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	m.ID = r.nextID
	r.byID[m.ID] = m
	return m.ID, nil
}

func (r *medicationRepo) Update(ctx context.Context, m medications.ScheduledMedication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; !ok {
		return medications.ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicationRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return medications.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *medicationRepo) GetByID(ctx context.Context, id int64) (medications.ScheduledMedication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.ScheduledMedication{}, medications.ErrNotFound
	}
	return m, nil
}

func (r *medicationRepo) ListAll(ctx context.Context) ([]medications.ScheduledMedication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.ScheduledMedication, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sortByID(out)
	return out, nil
}

func (r *medicationRepo) ListActive(ctx context.Context) ([]medications.ScheduledMedication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.ScheduledMedication, 0)
	for _, m := range r.byID {
		if m.Active {
			out = append(out, m)
		}
	}
	sortByID(out)
	return out, nil
}

func (r *medicationRepo) ListBetween(ctx context.Context, fromDay, toDay int64) ([]medications.ScheduledMedication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.ScheduledMedication, 0)
	for _, m := range r.byID {
		if !overlapsRange(m, fromDay, toDay) {
			continue
		}
		out = append(out, m)
	}
	sortByID(out)
	return out, nil
}

// overlapsRange decide si el schedule cae dentro de [fromDay, toDay]: por
// solapamiento del rango propio, o por algún día explícito dentro del rango.
func overlapsRange(m medications.ScheduledMedication, fromDay, toDay int64) bool {
	if m.SelectedDaysCSV != "" {
		for _, d := range m.Days() {
			if d >= fromDay && d <= toDay {
				return true
			}
		}
		return false
	}
	return !(m.EndDay < fromDay || m.StartDay > toDay)
}

func sortByID(items []medications.ScheduledMedication) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
