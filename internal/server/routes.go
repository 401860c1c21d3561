package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Tasks.
	mux.HandleFunc("POST /v1/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /v1/tasks", s.handleListTasks)
	mux.HandleFunc("GET /v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /v1/tasks/{id}", s.handleDeleteTask)

	// Derived views.
	mux.HandleFunc("GET /v1/views/myday", s.handleMyDayView)
	mux.HandleFunc("GET /v1/views/board", s.handleBoardView)
	mux.HandleFunc("GET /v1/views/stats", s.handleStatsView)

	// Sprints.
	mux.HandleFunc("POST /v1/sprints", s.handleCreateSprint)
	mux.HandleFunc("GET /v1/sprints", s.handleListSprints)
	mux.HandleFunc("POST /v1/sprints/{id}/close", s.handleCloseSprint)

	// Planning assistant.
	mux.HandleFunc("POST /v1/plan", s.handlePlan)

	// Dashboard.
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	return s.withRequestLogging(s.withPasswordGate(mux))
}
