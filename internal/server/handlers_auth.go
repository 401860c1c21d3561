package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/howmon/taskplanner/internal/auth"
)

// withPasswordGate enforces the optional dashboard password. With no hash
// configured everything is open. With one configured, every route except the
// login pair and the health check requires a live session: API callers get a
// 401, browser routes redirect to the login form.
func (s *Server) withPasswordGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.passwordHash == "" || gateExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if s.sessions.Valid(sessionToken(r), time.Now()) {
			next.ServeHTTP(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("login required")))
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}

func gateExempt(path string) bool {
	return path == "/health" || path == "/login"
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if s.passwordHash == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderLogin(w, r.URL.Query().Get("err") != "")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.passwordHash == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	key := clientKey(r)
	now := time.Now()
	if !s.loginLimiter.Allow(key, now) {
		s.log().Warn("login blocked", "remote_addr", r.RemoteAddr)
		s.writeErrorReq(w, r, http.StatusTooManyRequests,
			makeAPIError(http.StatusTooManyRequests, "resource_exhausted", ErrCodeResourceExhausted,
				fmt.Errorf("too many failed logins, try again later")))
		return
	}

	if err := r.ParseForm(); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
		return
	}
	if !auth.VerifyPassword(s.passwordHash, r.PostFormValue("password")) {
		s.loginLimiter.RegisterFailure(key, now)
		s.log().Warn("login failed", "remote_addr", r.RemoteAddr)
		http.Redirect(w, r, "/login?err=1", http.StatusSeeOther)
		return
	}

	s.loginLimiter.Reset(key)
	token := s.sessions.Create(now)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(defaultSessionTTL / time.Second),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		s.sessions.Delete(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// clientKey buckets login attempts by client address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
