package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTeams, downCreateTeams)
}

func upCreateTeams(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_private BOOLEAN NOT NULL DEFAULT false,
		creator_id TEXT NOT NULL,
		whitelist TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	);
	`)
	if err != nil {
		return err
	}

	// spot_id is the primary key: a spot sits on at most one team.
	_, err = tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS team_members (
		spot_id TEXT PRIMARY KEY REFERENCES spots(spot_id) ON DELETE CASCADE,
		team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		registration_id TEXT NOT NULL REFERENCES registrations(id) ON DELETE CASCADE,
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_team_members_team ON team_members(team_id);
	`)
	return err
}

func downCreateTeams(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE IF EXISTS team_members;
		DROP TABLE IF EXISTS teams;
	`)
	return err
}
