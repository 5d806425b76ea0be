package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"medication-reminders/internal/domain/medications"
	"medication-reminders/internal/recurrence"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

const medicationColumns = `
	id, name, kind, dose,
	rule_mode, rule_interval_hours, rule_times_per_day, rule_start_minutes,
	times_csv,
	start_day, end_day, selected_days_csv,
	remind_before_minutes, active,
	created_at, updated_at
`

func (r *MedicationsRepo) Create(ctx context.Context, m medications.ScheduledMedication) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO scheduled_medications (
			name, kind, dose,
			rule_mode, rule_interval_hours, rule_times_per_day, rule_start_minutes,
			times_csv,
			start_day, end_day, selected_days_csv,
			remind_before_minutes, active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id
	`,
		m.Name,
		string(m.Kind),
		m.Dose,
		string(m.Rule.Mode),
		m.Rule.IntervalHours,
		m.Rule.TimesPerDay,
		int(m.Rule.Start),
		m.TimesCSV,
		m.StartDay,
		m.EndDay,
		m.SelectedDaysCSV,
		m.RemindBeforeMinutes,
		m.Active,
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert scheduled medication")
	}
	return id, nil
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.ScheduledMedication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_medications SET
			name = $2, kind = $3, dose = $4,
			rule_mode = $5, rule_interval_hours = $6, rule_times_per_day = $7, rule_start_minutes = $8,
			times_csv = $9,
			start_day = $10, end_day = $11, selected_days_csv = $12,
			remind_before_minutes = $13, active = $14,
			updated_at = $15
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		string(m.Kind),
		m.Dose,
		string(m.Rule.Mode),
		m.Rule.IntervalHours,
		m.Rule.TimesPerDay,
		int(m.Rule.Start),
		m.TimesCSV,
		m.StartDay,
		m.EndDay,
		m.SelectedDaysCSV,
		m.RemindBeforeMinutes,
		m.Active,
		m.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "update scheduled medication")
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM scheduled_medications WHERE id = $1
	`, id)
	if err != nil {
		return errors.Wrap(err, "delete scheduled medication")
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id int64) (medications.ScheduledMedication, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicationColumns+`
		FROM scheduled_medications
		WHERE id = $1
	`, id)

	m, err := scanMedication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return medications.ScheduledMedication{}, medications.ErrNotFound
		}
		return medications.ScheduledMedication{}, errors.Wrap(err, "get scheduled medication")
	}
	return m, nil
}

func (r *MedicationsRepo) ListAll(ctx context.Context) ([]medications.ScheduledMedication, error) {
	return r.list(ctx, `
		SELECT `+medicationColumns+`
		FROM scheduled_medications
		ORDER BY id
	`)
}

func (r *MedicationsRepo) ListActive(ctx context.Context) ([]medications.ScheduledMedication, error) {
	return r.list(ctx, `
		SELECT `+medicationColumns+`
		FROM scheduled_medications
		WHERE active
		ORDER BY id
	`)
}

// ListBetween filtra por solapamiento del rango propio; los schedules con
// lista explícita de días guardan igual su [start_day, end_day] abarcando la
// lista, así que el filtro por rango los cubre.
func (r *MedicationsRepo) ListBetween(ctx context.Context, fromDay, toDay int64) ([]medications.ScheduledMedication, error) {
	return r.list(ctx, `
		SELECT `+medicationColumns+`
		FROM scheduled_medications
		WHERE NOT (end_day < $1 OR start_day > $2)
		ORDER BY id
	`, fromDay, toDay)
}

func (r *MedicationsRepo) list(ctx context.Context, query string, args ...any) ([]medications.ScheduledMedication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list scheduled medications")
	}
	defer rows.Close()

	out := make([]medications.ScheduledMedication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan scheduled medication")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.ScheduledMedication, error) {
	var m medications.ScheduledMedication
	var kind, mode string
	var startMinutes int

	if err := row.Scan(
		&m.ID,
		&m.Name,
		&kind,
		&m.Dose,
		&mode,
		&m.Rule.IntervalHours,
		&m.Rule.TimesPerDay,
		&startMinutes,
		&m.TimesCSV,
		&m.StartDay,
		&m.EndDay,
		&m.SelectedDaysCSV,
		&m.RemindBeforeMinutes,
		&m.Active,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.ScheduledMedication{}, err
	}

	m.Kind = medications.Kind(kind)
	m.Rule.Mode = recurrence.Mode(mode)
	m.Rule.Start = recurrence.TimeOfDay(startMinutes)

	return m, nil
}
