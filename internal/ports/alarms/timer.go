package alarms

import (
	"errors"
	"time"
)

// ErrExactUnavailable indica que el servicio de timers no puede garantizar
// entrega exacta (permiso denegado, política del host). El caller debe
// degradar a una registración inexacta en vez de fallar la operación.
var ErrExactUnavailable = errors.New("exact scheduling unavailable")

// Request es una registración de timer one-shot. ID la identifica: volver a
// registrar con el mismo ID reemplaza la registración anterior.
type Request struct {
	ID     int64
	FireAt time.Time
	Exact  bool

	// Payload suficiente para re-renderizar la notificación al disparar.
	Title string
	Body  string
}

// Service es el servicio de timers de la plataforma. Cancel de un ID
// inexistente no es error.
type Service interface {
	Schedule(r Request) error
	Cancel(id int64) error
}
