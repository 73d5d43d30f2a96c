package token

import (
	"context"
	"database/sql"
	"fmt"
	"ppv-gate/pkg/model"
)

// Repository defines the token store interface. Tokens are immutable once
// created, so there is deliberately no update or delete operation.
type Repository interface {
	Create(ctx context.Context, token *model.Token) error
	GetByID(ctx context.Context, id string) (*model.Token, error)
	LookupByEmail(ctx context.Context, email string) (string, error)
}

// repository implements the token store on Postgres
type repository struct {
	db *sql.DB
}

// NewRepository creates a new token repository
func NewRepository(db *sql.DB) Repository {
	return &repository{
		db: db,
	}
}

// Create persists a new token and points the email index at it within a
// single transaction. A failure leaves neither row behind, so the caller
// never treats a half-issued token as issued.
func (r *repository) Create(ctx context.Context, token *model.Token) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tokens (token, email, issued_at, expires_at, playback_id, stream_key)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.ExecContext(ctx, query,
		token.ID, token.Email, token.IssuedAt, token.ExpiresAt, token.PlaybackID, token.StreamKey)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}

	// the email index recalls the most recent purchase only; older tokens
	// stay valid in the tokens table until their own expiry
	indexQuery := `
		INSERT INTO email_tokens (email, token)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET token = $2`

	_, err = tx.ExecContext(ctx, indexQuery, token.Email, token.ID)
	if err != nil {
		return fmt.Errorf("failed to update email index: %w", err)
	}

	return tx.Commit()
}

// GetByID retrieves a token by id, returning nil when it does not exist
func (r *repository) GetByID(ctx context.Context, id string) (*model.Token, error) {
	t := &model.Token{}
	query := `
		SELECT token, email, issued_at, expires_at, playback_id, COALESCE(stream_key, '')
		FROM tokens
		WHERE token = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	err := row.Scan(&t.ID, &t.Email, &t.IssuedAt, &t.ExpiresAt, &t.PlaybackID, &t.StreamKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // token not found
		}
		return nil, err
	}

	return t, nil
}

// LookupByEmail returns the most recent token id for an email, or empty when
// no purchase is on record
func (r *repository) LookupByEmail(ctx context.Context, email string) (string, error) {
	var tokenID string
	query := `SELECT token FROM email_tokens WHERE email = $1`

	row := r.db.QueryRowContext(ctx, query, email)
	err := row.Scan(&tokenID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}

	return tokenID, nil
}
