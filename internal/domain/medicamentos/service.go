package medicamentos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medicamento not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Nombre     string
	Cantidad   string
	Frecuencia string
	Hora       string
	Tipo       string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Medicamento, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return Medicamento{}, ErrInvalidInput
	}

	m := Medicamento{
		ID:         uuid.NewString(),
		Nombre:     strings.TrimSpace(in.Nombre),
		Cantidad:   strings.TrimSpace(in.Cantidad),
		Frecuencia: strings.TrimSpace(in.Frecuencia),
		Hora:       strings.TrimSpace(in.Hora),
		Tipo:       strings.TrimSpace(in.Tipo),
		CreatedAt:  s.now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicamento{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medicamento, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicamento{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]Medicamento, error) {
	return s.repo.ListAll(ctx)
}

// MarkTomado marca o desmarca la entrada como tomada hoy.
func (s *Service) MarkTomado(ctx context.Context, id string, tomado bool) (Medicamento, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicamento{}, ErrInvalidInput
	}
	if err := s.repo.SetTomado(ctx, id, tomado); err != nil {
		return Medicamento{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
