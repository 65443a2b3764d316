package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSessionInvalid is returned for unknown, revoked or expired sessions.
var ErrSessionInvalid = errors.New("invalid session")

// SessionStore manages sessions in SQLite. A session row is what makes an
// access token usable; deleting it revokes the token.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a session store.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create stores a new session for userID and returns its id.
func (s *SessionStore) Create(userID string, expiresAt time.Time) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		id, userID, expiresAt,
	); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return id, nil
}

// Validate returns the user id of a live session.
func (s *SessionStore) Validate(id string) (string, error) {
	var userID string
	var expiresAt time.Time

	err := s.db.QueryRow(
		"SELECT user_id, expires_at FROM sessions WHERE id = ?", id,
	).Scan(&userID, &expiresAt)
	if err == sql.ErrNoRows {
		return "", ErrSessionInvalid
	}
	if err != nil {
		return "", fmt.Errorf("querying session: %w", err)
	}

	if time.Now().After(expiresAt) {
		if err := s.Destroy(id); err != nil {
			return "", fmt.Errorf("deleting expired session: %w", err)
		}
		return "", ErrSessionInvalid
	}

	return userID, nil
}

// Destroy removes a session. Destroying an unknown session is not an error.
func (s *SessionStore) Destroy(id string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Cleanup removes expired sessions and returns how many were deleted.
func (s *SessionStore) Cleanup() (int64, error) {
	result, err := s.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("cleaning up sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking affected rows: %w", err)
	}
	return n, nil
}
