// Package auth implements the single-operator password gate: a bcrypt hash
// from config, opaque uuid session tokens in an http-only cookie, and an
// in-memory session store with TTL.
package auth

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CookieName carries the session token.
const CookieName = "rigd_session"

// ErrInvalidPassword is returned by Login on a failed password check.
var ErrInvalidPassword = errors.New("invalid password")

// ErrDisabled is returned by Login when no password hash is configured.
var ErrDisabled = errors.New("authentication disabled")

// Store holds active operator sessions in memory. Sessions do not survive a
// daemon restart; the operator just logs in again.
type Store struct {
	hash []byte
	ttl  time.Duration

	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

// NewStore builds a store from the configured bcrypt hash. An empty hash
// disables authentication entirely (development mode).
func NewStore(passwordHash string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{
		hash:     []byte(passwordHash),
		ttl:      ttl,
		sessions: make(map[string]time.Time),
	}
}

// Enabled reports whether a password hash is configured.
func (s *Store) Enabled() bool { return len(s.hash) > 0 }

// Login verifies the password and mints a session token.
func (s *Store) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return token, nil
}

// Logout discards the session token. Unknown tokens are a no-op.
func (s *Store) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Valid reports whether token names a live session, pruning it when expired.
func (s *Store) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Middleware rejects requests without a valid session cookie. A store with
// auth disabled passes everything through.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		c, err := r.Cookie(CookieName)
		if err != nil || !s.Valid(c.Value) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"authentication required","code":401}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HashPassword produces a bcrypt hash suitable for the config file.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
