package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/howmon/taskplanner/internal/models"
)

type sprintListResponse struct {
	Sprints []models.Sprint `json:"sprints"`
	Total   int             `json:"total"`
}

func (s *Server) handleCreateSprint(w http.ResponseWriter, r *http.Request) {
	var req sprintCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("title is required"), ErrCodeMissingRequired))
		return
	}

	var dueOn *time.Time
	if strings.TrimSpace(req.DueOn) != "" {
		due, err := models.ParseDate(req.DueOn)
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidDate))
			return
		}
		dueOn = &due
	}

	sprint, err := s.backlog.CreateSprint(r.Context(), req.Title, req.Description, dueOn)
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sprint)
}

func (s *Server) handleListSprints(w http.ResponseWriter, r *http.Request) {
	includeClosed, err := queryBool(r, "include_closed")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	sprints, err := s.backlog.ListSprints(r.Context(), includeClosed)
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sprintListResponse{Sprints: sprints, Total: len(sprints)})
}

func (s *Server) handleCloseSprint(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	sprint, err := s.backlog.CloseSprint(r.Context(), id)
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sprint)
}
