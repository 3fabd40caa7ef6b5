package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/models"
)

// StaffStore reads and writes staff_users.
type StaffStore struct {
	DB *sql.DB
}

// GetByEmail returns the staff account with the given email.
func (s *StaffStore) GetByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var u models.StaffUser
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, full_name, created_at FROM staff_users WHERE email = ?", email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff user: %w", err)
	}
	return &u, nil
}

// Create inserts a staff account and sets its ID.
func (s *StaffStore) Create(ctx context.Context, u *models.StaffUser) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO staff_users (email, password_hash, full_name, created_at) VALUES (?, ?, ?, ?)",
		u.Email, u.PasswordHash, u.FullName, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read staff id: %w", err)
	}
	u.ID = id
	return nil
}

// EnsureAdmin creates the bootstrap staff account when no account with that email exists.
func (s *StaffStore) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	var p models.Password
	if err := p.Set(password); err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := s.Create(ctx, &models.StaffUser{Email: email, PasswordHash: p.Hash, FullName: "Administrator"}); err != nil {
		return false, err
	}
	return true, nil
}
