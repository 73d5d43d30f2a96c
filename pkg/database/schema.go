package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema statements are idempotent so the service can apply them on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tokens (
		token TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		issued_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		playback_id TEXT NOT NULL,
		stream_key TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS device_access (
		id UUID PRIMARY KEY,
		token TEXT NOT NULL REFERENCES tokens(token),
		device_hash TEXT NOT NULL,
		ip TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		screen_size TEXT NOT NULL DEFAULT '',
		timezone TEXT NOT NULL DEFAULT '',
		admitted_at TIMESTAMPTZ NOT NULL,
		UNIQUE (token, device_hash)
	)`,
	`CREATE TABLE IF NOT EXISTS email_tokens (
		email TEXT PRIMARY KEY,
		token TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_device_access_token ON device_access(token)`,
	`CREATE INDEX IF NOT EXISTS idx_tokens_email ON tokens(email)`,
}

// ApplySchema creates the tokens, device_access and email_tokens tables if they
// do not exist yet. The (token, device_hash) unique constraint backs the
// idempotent admission insert.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
