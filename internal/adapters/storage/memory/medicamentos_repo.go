package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"medication-reminders/internal/domain/medicamentos"
)

type medicamentoRepo struct {
	mu   sync.RWMutex
	byID map[string]medicamentos.Medicamento
}

func NewMedicamentoRepo() medicamentos.Repository {
	return &medicamentoRepo{
		byID: make(map[string]medicamentos.Medicamento),
	}
}

func (r *medicamentoRepo) Create(ctx context.Context, m medicamentos.Medicamento) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("medicamento id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medicamento already exists")
	}

	r.byID[m.ID] = m
	return nil
}

func (r *medicamentoRepo) GetByID(ctx context.Context, id string) (medicamentos.Medicamento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medicamentos.Medicamento{}, medicamentos.ErrNotFound
	}
	return m, nil
}

func (r *medicamentoRepo) ListAll(ctx context.Context) ([]medicamentos.Medicamento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medicamentos.Medicamento, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *medicamentoRepo) SetTomado(ctx context.Context, id string, tomado bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return medicamentos.ErrNotFound
	}
	m.Tomado = tomado
	r.byID[id] = m
	return nil
}

func (r *medicamentoRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return medicamentos.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
