package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/studio-site/internal/database"
	"github.com/iliyamo/studio-site/internal/utils"
)

// Admin mirrors the 'admin_users' table.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AdminRepo struct{ DB *database.DB }

func NewAdminRepo(db *database.DB) *AdminRepo { return &AdminRepo{DB: db} }

// Create inserts an admin account and returns its ID.
func (r *AdminRepo) Create(ctx context.Context, email, password string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := r.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	q := fmt.Sprintf("INSERT INTO admin_users (id, email, password_hash, created_at, updated_at) VALUES (%s)",
		r.DB.Dialect.Placeholders(1, 5))
	if _, err := r.DB.ExecContext(ctx, q, id, email, hash, now, now); err != nil {
		return "", err
	}
	return id, nil
}

// SetPassword replaces the password hash of an existing account.
func (r *AdminRepo) SetPassword(ctx context.Context, id, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("UPDATE admin_users SET password_hash=%s, updated_at=%s WHERE id=%s",
		r.DB.Dialect.Placeholder(1), r.DB.Dialect.Placeholder(2), r.DB.Dialect.Placeholder(3))
	_, err = r.DB.ExecContext(ctx, q, hash, time.Now().UTC(), id)
	return err
}

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "email", email)
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id string) (Admin, error) {
	return r.getOne(ctx, "id", id)
}

func (r *AdminRepo) getOne(ctx context.Context, column, value string) (Admin, error) {
	var (
		a                  Admin
		created, updated timeValue
	)
	q := fmt.Sprintf("SELECT id,email,password_hash,created_at,updated_at FROM admin_users WHERE %s=%s LIMIT 1",
		column, r.DB.Dialect.Placeholder(1))
	err := r.DB.QueryRowContext(ctx, q, value).Scan(&a.ID, &a.Email, &a.PasswordHash, &created, &updated)
	a.CreatedAt, a.UpdatedAt = created.t, updated.t
	return a, err
}
