package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS scheduled_medications (
	id                    BIGSERIAL PRIMARY KEY,
	name                  TEXT        NOT NULL,
	kind                  TEXT        NOT NULL,
	dose                  TEXT        NOT NULL DEFAULT '',

	rule_mode             TEXT        NOT NULL,
	rule_interval_hours   INT         NOT NULL DEFAULT 0,
	rule_times_per_day    INT         NOT NULL DEFAULT 0,
	rule_start_minutes    INT         NOT NULL,
	times_csv             TEXT        NOT NULL,

	start_day             BIGINT      NOT NULL,
	end_day               BIGINT      NOT NULL,
	selected_days_csv     TEXT        NOT NULL DEFAULT '',

	remind_before_minutes INT         NOT NULL DEFAULT 0,
	active                BOOLEAN     NOT NULL DEFAULT TRUE,

	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scheduled_medications_active
	ON scheduled_medications (active);
CREATE INDEX IF NOT EXISTS idx_scheduled_medications_range
	ON scheduled_medications (start_day, end_day);

CREATE TABLE IF NOT EXISTS dose_events (
	id            TEXT        PRIMARY KEY,
	medication_id BIGINT      NOT NULL REFERENCES scheduled_medications(id) ON DELETE CASCADE,
	day           BIGINT      NOT NULL,
	time_minutes  INT         NOT NULL,
	status        TEXT        NOT NULL,
	source        TEXT        NOT NULL,
	notes         TEXT        NOT NULL DEFAULT '',
	recorded_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dose_events_medication
	ON dose_events (medication_id, day);

CREATE TABLE IF NOT EXISTS medicamentos (
	id         TEXT        PRIMARY KEY,
	nombre     TEXT        NOT NULL,
	cantidad   TEXT        NOT NULL DEFAULT '',
	frecuencia TEXT        NOT NULL DEFAULT '',
	hora       TEXT        NOT NULL DEFAULT '',
	tipo       TEXT        NOT NULL DEFAULT '',
	tomado     BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema crea las tablas si no existen. Idempotente, corre en cada
// arranque.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "ensure schema")
	}
	return nil
}
