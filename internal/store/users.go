package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// User is an account that can authenticate and own tasks.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// UserStore persists user accounts.
type UserStore struct {
	db *sql.DB
}

// Create registers a new user with an already-hashed password.
func (s *UserStore) Create(ctx context.Context, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, hashed_password, is_active, created_at)
		VALUES (?, ?, 1, ?)`,
		strings.ToLower(email), hashedPassword, fmtTime(now))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	return &User{
		ID:             id,
		Email:          strings.ToLower(email),
		HashedPassword: hashedPassword,
		IsActive:       true,
		CreatedAt:      now,
	}, nil
}

// GetByEmail looks up a user by email, case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, hashed_password, is_active, created_at, last_login
		FROM users WHERE email = ?`, strings.ToLower(email))
	return scanUser(row)
}

// GetByID looks up a user by id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, hashed_password, is_active, created_at, last_login
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// TouchLogin records a successful login.
func (s *UserStore) TouchLogin(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, fmtTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var created string
	var lastLogin sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive, &created, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = parseTime(created)
	if lastLogin.Valid {
		t := parseTime(lastLogin.String)
		u.LastLogin = &t
	}
	return &u, nil
}
