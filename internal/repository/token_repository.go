package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/studio-site/internal/database"
)

// TokenRepo persists/validates admin refresh tokens (single 'token_hash' column).
type TokenRepo struct{ DB *database.DB }

func NewTokenRepo(db *database.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, adminID, tokenHash string, exp time.Time) error {
	q := fmt.Sprintf("INSERT INTO refresh_tokens (id, admin_id, token_hash, expires_at, created_at) VALUES (%s)",
		r.DB.Dialect.Placeholders(1, 5))
	_, err := r.DB.ExecContext(ctx, q, uuid.NewString(), adminID, tokenHash, exp.UTC(), time.Now().UTC())
	return err
}

// ValidateRefresh returns the admin id if a non-revoked, non-expired token exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	var (
		adminID   string
		expiresAt timeValue
		revokedAt timeValue
	)
	q := fmt.Sprintf("SELECT admin_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=%s LIMIT 1",
		r.DB.Dialect.Placeholder(1))
	if err := r.DB.QueryRowContext(ctx, q, tokenHash).Scan(&adminID, &expiresAt, &revokedAt); err != nil {
		return "", err
	}
	if revokedAt.valid {
		return "", sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt.t) {
		return "", sql.ErrNoRows
	}
	return adminID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	q := fmt.Sprintf("UPDATE refresh_tokens SET revoked_at=%s WHERE token_hash=%s AND revoked_at IS NULL",
		r.DB.Dialect.Placeholder(1), r.DB.Dialect.Placeholder(2))
	_, err := r.DB.ExecContext(ctx, q, time.Now().UTC(), tokenHash)
	return err
}

// RevokeAllForAdmin revokes all of an admin's active tokens.
func (r *TokenRepo) RevokeAllForAdmin(ctx context.Context, adminID string) error {
	q := fmt.Sprintf("UPDATE refresh_tokens SET revoked_at=%s WHERE admin_id=%s AND revoked_at IS NULL",
		r.DB.Dialect.Placeholder(1), r.DB.Dialect.Placeholder(2))
	_, err := r.DB.ExecContext(ctx, q, time.Now().UTC(), adminID)
	return err
}
