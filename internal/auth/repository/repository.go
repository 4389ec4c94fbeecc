// Package repository provides persistence for operator accounts.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

// User is an operator account. There is no self-service sign-up; operators
// are seeded at startup.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByEmail looks up a user by lowercased email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, roles, created_at
		FROM users
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Roles, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Upsert creates the user if the email is not taken. Existing rows are left
// untouched so the startup seed is idempotent.
func (r *Repository) Upsert(ctx context.Context, email, passwordHash string, roles []string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (email, password_hash, roles)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
	`, strings.ToLower(strings.TrimSpace(email)), passwordHash, roles)
	return err
}
