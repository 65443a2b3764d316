package auth

import (
	"fmt"
	"time"
)

// Service ties accounts, sessions and tokens together for the HTTP layer.
type Service struct {
	Users    *UserStore
	Sessions *SessionStore
	Tokens   *TokenIssuer
}

// NewService creates a service.
func NewService(users *UserStore, sessions *SessionStore, tokens *TokenIssuer) *Service {
	return &Service{Users: users, Sessions: sessions, Tokens: tokens}
}

// Login verifies credentials and returns a fresh access token.
func (s *Service) Login(email, password string) (string, *User, error) {
	u, err := s.Users.Authenticate(email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Register creates an account and logs it in.
func (s *Service) Register(email, password string) (string, *User, error) {
	u, err := s.Users.Register(email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Verify returns the claims of a token whose session is still live.
func (s *Service) Verify(token string) (*Claims, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	userID, err := s.Sessions.Validate(claims.ID)
	if err != nil {
		return nil, err
	}
	if userID != claims.Subject {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Logout revokes the session behind a token.
func (s *Service) Logout(sessionID string) error {
	return s.Sessions.Destroy(sessionID)
}

func (s *Service) issue(userID string) (string, error) {
	expiresAt := time.Now().Add(s.Tokens.TTL())
	sessionID, err := s.Sessions.Create(userID, expiresAt)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return s.Tokens.Issue(userID, sessionID, expiresAt)
}
