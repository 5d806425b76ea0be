package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"medication-reminders/internal/domain/doselog"
	"medication-reminders/internal/recurrence"
)

type DoseLogRepo struct {
	db *sql.DB
}

func NewDoseLogRepo(db *sql.DB) *DoseLogRepo {
	return &DoseLogRepo{db: db}
}

func (r *DoseLogRepo) Create(ctx context.Context, e doselog.DoseEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_events (
			id, medication_id, day, time_minutes,
			status, source, notes, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.MedicationID,
		e.Day,
		int(e.Time),
		string(e.Status),
		string(e.Source),
		e.Notes,
		e.RecordedAt,
	)
	return errors.Wrap(err, "insert dose event")
}

func (r *DoseLogRepo) GetByID(ctx context.Context, id string) (doselog.DoseEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, medication_id, day, time_minutes,
		       status, source, notes, recorded_at
		FROM dose_events
		WHERE id = $1
	`, id)

	var e doselog.DoseEvent
	var timeMinutes int
	var status, source string
	if err := row.Scan(
		&e.ID,
		&e.MedicationID,
		&e.Day,
		&timeMinutes,
		&status,
		&source,
		&e.Notes,
		&e.RecordedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return doselog.DoseEvent{}, doselog.ErrNotFound
		}
		return doselog.DoseEvent{}, errors.Wrap(err, "get dose event")
	}

	e.Time = recurrence.TimeOfDay(timeMinutes)
	e.Status = doselog.DoseStatus(status)
	e.Source = doselog.Source(source)
	return e, nil
}

func (r *DoseLogRepo) ListByMedication(ctx context.Context, medicationID int64, filter doselog.ListFilter) ([]doselog.DoseEvent, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, medication_id, day, time_minutes,
		       status, source, notes, recorded_at
		FROM dose_events
		WHERE medication_id = $1
	`)

	args := []any{medicationID}
	argN := 2

	if filter.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(filter.Status))
		argN++
	}
	if filter.FromDay != nil {
		sb.WriteString(fmt.Sprintf(" AND day >= $%d", argN))
		args = append(args, *filter.FromDay)
		argN++
	}
	if filter.ToDay != nil {
		sb.WriteString(fmt.Sprintf(" AND day <= $%d", argN))
		args = append(args, *filter.ToDay)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY day DESC, time_minutes DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, errors.Wrap(err, "list dose events")
	}
	defer rows.Close()

	out := make([]doselog.DoseEvent, 0)
	for rows.Next() {
		var e doselog.DoseEvent
		var timeMinutes int
		var status, source string
		if err := rows.Scan(
			&e.ID,
			&e.MedicationID,
			&e.Day,
			&timeMinutes,
			&status,
			&source,
			&e.Notes,
			&e.RecordedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan dose event")
		}
		e.Time = recurrence.TimeOfDay(timeMinutes)
		e.Status = doselog.DoseStatus(status)
		e.Source = doselog.Source(source)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *DoseLogRepo) Void(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dose_events
		SET status = 'voided'
		WHERE id = $1
	`, id)
	if err != nil {
		return errors.Wrap(err, "void dose event")
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return doselog.ErrNotFound
	}
	return nil
}
