package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"medication-reminders/internal/domain/medicamentos"
)

type MedicamentosRepo struct {
	db *sql.DB
}

func NewMedicamentosRepo(db *sql.DB) *MedicamentosRepo {
	return &MedicamentosRepo{db: db}
}

func (r *MedicamentosRepo) Create(ctx context.Context, m medicamentos.Medicamento) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medicamentos (
			id, nombre, cantidad, frecuencia, hora, tipo, tomado, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		m.ID,
		m.Nombre,
		m.Cantidad,
		m.Frecuencia,
		m.Hora,
		m.Tipo,
		m.Tomado,
		m.CreatedAt,
	)
	return errors.Wrap(err, "insert medicamento")
}

func (r *MedicamentosRepo) GetByID(ctx context.Context, id string) (medicamentos.Medicamento, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, cantidad, frecuencia, hora, tipo, tomado, created_at
		FROM medicamentos
		WHERE id = $1
	`, id)

	var m medicamentos.Medicamento
	if err := row.Scan(
		&m.ID,
		&m.Nombre,
		&m.Cantidad,
		&m.Frecuencia,
		&m.Hora,
		&m.Tipo,
		&m.Tomado,
		&m.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medicamentos.Medicamento{}, medicamentos.ErrNotFound
		}
		return medicamentos.Medicamento{}, errors.Wrap(err, "get medicamento")
	}
	return m, nil
}

func (r *MedicamentosRepo) ListAll(ctx context.Context) ([]medicamentos.Medicamento, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, cantidad, frecuencia, hora, tipo, tomado, created_at
		FROM medicamentos
		ORDER BY created_at
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list medicamentos")
	}
	defer rows.Close()

	out := make([]medicamentos.Medicamento, 0)
	for rows.Next() {
		var m medicamentos.Medicamento
		if err := rows.Scan(
			&m.ID,
			&m.Nombre,
			&m.Cantidad,
			&m.Frecuencia,
			&m.Hora,
			&m.Tipo,
			&m.Tomado,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan medicamento")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicamentosRepo) SetTomado(ctx context.Context, id string, tomado bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medicamentos
		SET tomado = $2
		WHERE id = $1
	`, id, tomado)
	if err != nil {
		return errors.Wrap(err, "update medicamento tomado")
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return medicamentos.ErrNotFound
	}
	return nil
}

func (r *MedicamentosRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM medicamentos WHERE id = $1
	`, id)
	if err != nil {
		return errors.Wrap(err, "delete medicamento")
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return medicamentos.ErrNotFound
	}
	return nil
}
