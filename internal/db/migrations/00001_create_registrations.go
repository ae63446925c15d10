package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateRegistrations, downCreateRegistrations)
}

func upCreateRegistrations(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS registrations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		spots INTEGER NOT NULL CHECK (spots > 0),
		payment_status TEXT NOT NULL,
		amount_cents BIGINT NOT NULL DEFAULT 0,
		stripe_session_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_registrations_user_status ON registrations(user_id, payment_status);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_session ON registrations(stripe_session_id);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS spots (
		spot_id TEXT PRIMARY KEY,
		registration_id TEXT NOT NULL REFERENCES registrations(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL
	);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_spots_email ON spots(lower(email));
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_spots_registration ON spots(registration_id);
	`)
	return err
}

func downCreateRegistrations(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE IF EXISTS spots;
		DROP TABLE IF EXISTS registrations;
	`)
	return err
}
