// Package server exposes the backlog over HTTP: a JSON API under /v1 and a
// server-rendered dashboard at the root. Every request is served by one or
// more round trips to the remote tracker; the server keeps no task state of
// its own. The only in-memory state is the dashboard session table and the
// login rate limiter, both of which reset on restart.
package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/howmon/taskplanner/internal/planner"
	"github.com/howmon/taskplanner/internal/tasks"
)

const (
	allowRemoteEnvKey = "TASKPLANNER_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second

	defaultMaxPicks  = 5
	loginMaxFailures = 5
	loginWindow      = time.Minute
	loginBlockFor    = 5 * time.Minute
)

// Options carries the optional server surfaces.
type Options struct {
	Assistant    planner.Assistant // nil disables POST /v1/plan
	MaxPicks     int
	PasswordHash string // empty leaves the dashboard open
}

// Server wraps the HTTP handlers over a task repository.
type Server struct {
	addr         string
	backlog      *tasks.Repository
	assistant    planner.Assistant
	maxPicks     int
	passwordHash string
	sessions     *sessionStore
	loginLimiter *loginRateLimiter
	logger       *slog.Logger
}

// New creates a new server instance.
func New(addr string, backlog *tasks.Repository, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	maxPicks := opts.MaxPicks
	if maxPicks <= 0 {
		maxPicks = defaultMaxPicks
	}

	return &Server{
		addr:         addr,
		backlog:      backlog,
		assistant:    opts.Assistant,
		maxPicks:     maxPicks,
		passwordHash: opts.PasswordHash,
		sessions:     newSessionStore(defaultSessionTTL),
		loginLimiter: newLoginRateLimiter(loginMaxFailures, loginWindow, loginBlockFor),
		logger:       logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr, "password_gate", s.passwordHash != "")
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr validates a configured bind address. Non-loopback hosts are
// refused unless TASKPLANNER_ALLOW_REMOTE=true, since the dashboard may be
// running without a password.
func ListenAddr(addr string) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("listen address is required")
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %v", addr, err)
	}
	if !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}
	return addr, nil
}

func isAllowedListenHost(host string) bool {
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	// An empty host binds every interface, which counts as a remote listen.
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
