package doselog

import "context"

type Repository interface {
	Create(ctx context.Context, e DoseEvent) error
	GetByID(ctx context.Context, id string) (DoseEvent, error)
	ListByMedication(ctx context.Context, medicationID int64, filter ListFilter) ([]DoseEvent, error)
	Void(ctx context.Context, id string) error
}

type ListFilter struct {
	Status  DoseStatus
	FromDay *int64
	ToDay   *int64
	Limit   int
}
