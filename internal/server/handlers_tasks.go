package server

import (
	"net/http"

	"github.com/howmon/taskplanner/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type taskListResponse struct {
	Tasks []models.Task `json:"tasks"`
	Total int           `json:"total"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	title, opts, err := req.options()
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	task, err := s.backlog.Create(r.Context(), title, opts)
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	tasks, err := s.backlog.List(r.Context(), filter)
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, taskListResponse{Tasks: tasks, Total: len(tasks)})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	task, err := s.backlog.Get(r.Context(), id)
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	var req taskUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	opts, err := req.options()
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	task, err := s.backlog.Update(r.Context(), id, opts)
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

// handleDeleteTask soft-deletes: the record is closed as not planned and
// drops out of listings but stays readable by id.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if err := s.backlog.SoftDelete(r.Context(), id); err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
