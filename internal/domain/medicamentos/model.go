package medicamentos

import "time"

// Medicamento es la entrada plana de la libreta de medicamentos: nombre,
// cantidad y hora como texto libre, sin expansión de recurrencia. Convive con
// los schedules recurrentes como vista simple de "qué estoy tomando".
type Medicamento struct {
	ID string

	Nombre     string
	Cantidad   string
	Frecuencia string
	Hora       string
	Tipo       string

	Tomado bool

	CreatedAt time.Time
}
