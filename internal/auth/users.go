// Package auth provides password accounts, bearer access tokens backed by
// revocable sessions, and the HTTP middleware that enforces them.
package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown emails, wrong passwords and inactive accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidInput wraps registration validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotFound is returned by lookups by id.
	ErrUserNotFound = errors.New("user not found")
)

// User is an account holder.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStore manages accounts in SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Register creates an account. Emails are stored lower-cased.
func (s *UserStore) Register(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, email)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.db.Exec(
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)",
		id, email, string(hash),
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("adding user: %w", err)
	}

	return s.GetByID(id)
}

// Authenticate checks the password and returns the active account.
func (s *UserStore) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	var hash string
	err := s.db.QueryRow(
		"SELECT id, email, password_hash, is_active, created_at FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Email, &hash, &u.IsActive, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	if _, err := s.db.Exec("UPDATE users SET last_login_at = ? WHERE id = ?", time.Now(), u.ID); err != nil {
		slog.Warn("recording login time", "user_id", u.ID, "error", err)
	}

	return &u, nil
}

// GetByID returns an account by id.
func (s *UserStore) GetByID(id string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT id, email, is_active, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.IsActive, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// SetActive enables or disables an account.
func (s *UserStore) SetActive(id string, active bool) error {
	result, err := s.db.Exec("UPDATE users SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
