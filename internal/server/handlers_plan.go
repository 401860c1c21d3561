package server

import (
	"fmt"
	"net/http"

	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/planner"
	"github.com/howmon/taskplanner/internal/tasks"
)

// handlePlan asks the planning assistant for today's ranked focus list. The
// assistant sees recently completed and still-pending tasks; its picks are
// filtered to ids that actually exist before they reach the caller.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.writeErrorReq(w, r, http.StatusNotImplemented,
			makeAPIError(http.StatusNotImplemented, "not_implemented", ErrCodeNotImplemented,
				fmt.Errorf("planning assistant is not configured")))
		return
	}

	var req planRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > s.maxPicks {
		limit = s.maxPicks
	}

	pending, err := s.backlog.List(r.Context(), tasks.ListFilter{})
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	done, err := s.backlog.List(r.Context(), tasks.ListFilter{Status: models.StatusDone})
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}

	plan, err := planner.BuildPlan(r.Context(), s.assistant, done, pending, limit)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadGateway,
			makeAPIError(http.StatusBadGateway, "planner", ErrCodePlannerFailure, err))
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}
