package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	return NewStore(hash, ttl)
}

func TestLoginLifecycle(t *testing.T) {
	s := testStore(t, time.Hour)

	if _, err := s.Login("wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong password: %v", err)
	}
	token, err := s.Login("hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.Valid(token) {
		t.Fatal("fresh token invalid")
	}
	s.Logout(token)
	if s.Valid(token) {
		t.Fatal("token survives logout")
	}
	if s.Valid("") {
		t.Fatal("empty token accepted")
	}
}

func TestSessionExpiry(t *testing.T) {
	s := testStore(t, time.Millisecond)
	token, err := s.Login("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if s.Valid(token) {
		t.Fatal("expired token accepted")
	}
}

func TestDisabledStore(t *testing.T) {
	s := NewStore("", time.Hour)
	if s.Enabled() {
		t.Fatal("empty hash must disable auth")
	}
	if _, err := s.Login("anything"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("login on disabled store: %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	s := testStore(t, time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := s.Middleware(next)

	// No cookie.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: status %d", rec.Code)
	}

	// Garbage cookie.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "nope"})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad cookie: status %d", rec.Code)
	}

	// Valid session.
	token, err := s.Login("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Fatalf("valid cookie: status %d", rec.Code)
	}
}

func TestMiddlewareDisabledPassthrough(t *testing.T) {
	s := NewStore("", 0)
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("disabled store gated a request: %d", rec.Code)
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("empty password accepted")
	}
	h1, err := HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Fatal("bcrypt hashes must be salted")
	}
}
