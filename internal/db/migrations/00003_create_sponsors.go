package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSponsors, downCreateSponsors)
}

func upCreateSponsors(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS sponsors (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL CHECK (price >= 200),
		logo TEXT NOT NULL,
		website_link TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS sponsorships (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		business_name TEXT NOT NULL,
		amount_cents BIGINT NOT NULL DEFAULT 0,
		sign_option TEXT NOT NULL DEFAULT '',
		sign_text TEXT NOT NULL DEFAULT '',
		logo_url TEXT NOT NULL DEFAULT '',
		stripe_session_id TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`)
	return err
}

func downCreateSponsors(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE IF EXISTS sponsorships;
		DROP TABLE IF EXISTS sponsors;
	`)
	return err
}
