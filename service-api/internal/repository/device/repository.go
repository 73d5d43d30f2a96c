package device

import (
	"context"
	"database/sql"
	"fmt"
	"ppv-gate/pkg/model"
)

// Repository defines the device ledger interface.
type Repository interface {
	CountDevices(ctx context.Context, token string) (int, error)
	IsAdmitted(ctx context.Context, token, deviceHash string) (bool, error)
	Admit(ctx context.Context, entry *model.DeviceEntry, limit int) (bool, error)
	ForceAdmit(ctx context.Context, entry *model.DeviceEntry) error
	ListByToken(ctx context.Context, token string) ([]model.DeviceEntry, error)
	ListAll(ctx context.Context) ([]model.DeviceEntry, error)
	Remove(ctx context.Context, token, deviceHash string) (bool, error)
}

// repository implements the device ledger on Postgres
type repository struct {
	db *sql.DB
}

// NewRepository creates a new device repository
func NewRepository(db *sql.DB) Repository {
	return &repository{
		db: db,
	}
}

// CountDevices returns the number of distinct fingerprints admitted for a token
func (r *repository) CountDevices(ctx context.Context, token string) (int, error) {
	var count int
	query := `SELECT COUNT(DISTINCT device_hash) FROM device_access WHERE token = $1`

	row := r.db.QueryRowContext(ctx, query, token)
	err := row.Scan(&count)
	return count, err
}

// IsAdmitted checks if a fingerprint is already admitted for a token
func (r *repository) IsAdmitted(ctx context.Context, token, deviceHash string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM device_access WHERE token = $1 AND device_hash = $2`

	row := r.db.QueryRowContext(ctx, query, token, deviceHash)
	err := row.Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Admit inserts the device entry if and only if the token still has a free
// slot. The existence check, the count check and the insert run inside one
// transaction that first locks the parent token row, so concurrent admissions
// for the same token serialize and can never jointly exceed the limit.
// Re-admitting an existing fingerprint is a no-op that still returns true.
func (r *repository) Admit(ctx context.Context, entry *model.DeviceEntry, limit int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// serialize admissions per token
	var locked string
	err = tx.QueryRowContext(ctx, `SELECT token FROM tokens WHERE token = $1 FOR UPDATE`, entry.Token).Scan(&locked)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, fmt.Errorf("token %s does not exist", entry.Token)
		}
		return false, fmt.Errorf("failed to lock token row: %w", err)
	}

	// same device already recorded: no extra slot consumed
	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM device_access WHERE token = $1 AND device_hash = $2`,
		entry.Token, entry.DeviceHash).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("failed to check existing device: %w", err)
	}
	if existing > 0 {
		return true, tx.Commit()
	}

	var used int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT device_hash) FROM device_access WHERE token = $1`,
		entry.Token).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("failed to count devices: %w", err)
	}
	if used >= limit {
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO device_access (id, token, device_hash, ip, user_agent, screen_size, timezone, admitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (token, device_hash) DO NOTHING`,
		entry.ID, entry.Token, entry.DeviceHash, entry.IP, entry.UserAgent,
		entry.ScreenSize, entry.Timezone, entry.AdmittedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert device: %w", err)
	}

	return true, tx.Commit()
}

// ForceAdmit inserts a device entry without checking the device limit.
// Reserved for the admin bypass path.
func (r *repository) ForceAdmit(ctx context.Context, entry *model.DeviceEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO device_access (id, token, device_hash, ip, user_agent, screen_size, timezone, admitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (token, device_hash) DO NOTHING`,
		entry.ID, entry.Token, entry.DeviceHash, entry.IP, entry.UserAgent,
		entry.ScreenSize, entry.Timezone, entry.AdmittedAt)
	return err
}

// ListByToken returns all device entries for a token, most recent first
func (r *repository) ListByToken(ctx context.Context, token string) ([]model.DeviceEntry, error) {
	query := `
		SELECT id, token, device_hash, ip, user_agent, screen_size, timezone, admitted_at
		FROM device_access
		WHERE token = $1
		ORDER BY admitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAll returns every device entry across all tokens, most recent first
func (r *repository) ListAll(ctx context.Context) ([]model.DeviceEntry, error) {
	query := `
		SELECT id, token, device_hash, ip, user_agent, screen_size, timezone, admitted_at
		FROM device_access
		ORDER BY admitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Remove deletes one device entry, freeing a slot. Returns whether a row was
// actually removed.
func (r *repository) Remove(ctx context.Context, token, deviceHash string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM device_access WHERE token = $1 AND device_hash = $2`,
		token, deviceHash)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func scanEntries(rows *sql.Rows) ([]model.DeviceEntry, error) {
	var entries []model.DeviceEntry
	for rows.Next() {
		var e model.DeviceEntry
		err := rows.Scan(&e.ID, &e.Token, &e.DeviceHash, &e.IP, &e.UserAgent,
			&e.ScreenSize, &e.Timezone, &e.AdmittedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
