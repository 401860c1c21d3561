package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/howmon/taskplanner/internal/auth"
)

func TestPasswordGateProtectsAPIAndDashboard(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	srv, _ := newTestServer(t, Options{PasswordHash: hash})
	handler := srv.routes()

	rec := doJSON(t, handler, http.MethodGet, "/v1/tasks", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("API without session: status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("dashboard without session: status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = doJSON(t, handler, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health behind gate: status = %d", rec.Code)
	}
}

func postLogin(t *testing.T, handler http.Handler, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	srv, _ := newTestServer(t, Options{PasswordHash: hash})
	handler := srv.routes()

	rec := postLogin(t, handler, "wrong")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login?err=1" {
		t.Fatalf("failed login: status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = postLogin(t, handler, "correct horse")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("login: status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}

	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			session = cookie
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("no session cookie issued")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
	req.AddCookie(session)
	authed := httptest.NewRecorder()
	handler.ServeHTTP(authed, req)
	if authed.Code != http.StatusOK {
		t.Fatalf("API with session: status = %d", authed.Code)
	}
}

func TestLoginRateLimiterBlocksAfterRepeatedFailures(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	srv, _ := newTestServer(t, Options{PasswordHash: hash})
	handler := srv.routes()

	for i := 0; i < loginMaxFailures; i++ {
		postLogin(t, handler, "wrong")
	}
	rec := postLogin(t, handler, "correct horse")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status after %d failures = %d, want 429", loginMaxFailures, rec.Code)
	}
}

func TestLoginRateLimiterWindowExpiry(t *testing.T) {
	limiter := newLoginRateLimiter(3, time.Minute, 5*time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		limiter.RegisterFailure("1.2.3.4", now)
	}
	if limiter.Allow("1.2.3.4", now) {
		t.Fatal("expected block after reaching the failure limit")
	}
	if !limiter.Allow("1.2.3.4", now.Add(6*time.Minute)) {
		t.Fatal("expected unblock after the block duration")
	}
	if !limiter.Allow("5.6.7.8", now) {
		t.Fatal("unrelated key must not be blocked")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	store := newSessionStore(time.Minute)
	now := time.Now()

	token := store.Create(now)
	if !store.Valid(token, now) {
		t.Fatal("fresh session should be valid")
	}
	if store.Valid(token, now.Add(2*time.Minute)) {
		t.Fatal("expired session should be invalid")
	}
	if store.Valid("", now) {
		t.Fatal("empty token should be invalid")
	}

	token = store.Create(now)
	store.Delete(token)
	if store.Valid(token, now) {
		t.Fatal("deleted session should be invalid")
	}
}
