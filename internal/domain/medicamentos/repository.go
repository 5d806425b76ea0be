package medicamentos

import "context"

type Repository interface {
	Create(ctx context.Context, m Medicamento) error
	GetByID(ctx context.Context, id string) (Medicamento, error)
	ListAll(ctx context.Context) ([]Medicamento, error)
	SetTomado(ctx context.Context, id string, tomado bool) error
	Delete(ctx context.Context, id string) error
}
