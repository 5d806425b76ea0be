package medications

import "context"

type Repository interface {
	// Create persiste el schedule y devuelve el id asignado.
	Create(ctx context.Context, m ScheduledMedication) (int64, error)
	Update(ctx context.Context, m ScheduledMedication) error
	Delete(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (ScheduledMedication, error)
	ListAll(ctx context.Context) ([]ScheduledMedication, error)
	ListActive(ctx context.Context) ([]ScheduledMedication, error)

	// ListBetween devuelve los schedules cuyo rango [StartDay, EndDay] se
	// solapa con [fromDay, toDay].
	ListBetween(ctx context.Context, fromDay, toDay int64) ([]ScheduledMedication, error)
}
