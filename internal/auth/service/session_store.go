package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/legacykeep/legacykeep-client/internal/auth/domain"
	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
)

var (
	ErrMalformedToken = errors.New("access token is malformed")
	ErrNoSession      = errors.New("no active session")
)

// SessionStore keeps the current session in memory.
type SessionStore struct {
	now    func() time.Time
	parser *jwt.Parser

	mu      sync.RWMutex
	session *domain.Session
}

func NewSessionStore(now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{now: now, parser: jwt.NewParser()}
}

// StartSession reads the user and expiry claims out of accessToken and makes
// it the current session.
func (s *SessionStore) StartSession(accessToken, refreshToken string) error {
	claims := jwt.MapClaims{}
	if _, _, err := s.parser.ParseUnverified(accessToken, claims); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	session := domain.Session{AccessToken: accessToken, RefreshToken: refreshToken}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		session.UserID = id
	} else if sub, err := claims.GetSubject(); err == nil {
		session.UserID = sub
	}
	if email, ok := claims["email"].(string); ok {
		session.Email = email
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		session.ExpiresAt = exp.Time
	}
	if session.UserID == "" {
		return fmt.Errorf("%w: no user_id or sub claim", ErrMalformedToken)
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()
	logger.Info("Session started for user %s", session.UserID)
	return nil
}

// Current returns the session unless there is none or it has expired.
func (s *SessionStore) Current() (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || s.session.Expired(s.now()) {
		return domain.Session{}, ErrNoSession
	}
	return *s.session, nil
}

func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}
