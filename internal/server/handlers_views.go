package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
	"github.com/howmon/taskplanner/internal/views"
)

// viewToday resolves the calendar date the view computations use. An explicit
// today query parameter pins it, mainly for reproducible output.
func viewToday(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("today"))
	if raw == "" {
		return time.Now(), nil
	}
	day, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, badRequestCode(err, ErrCodeInvalidDate)
	}
	return day, nil
}

func (s *Server) handleMyDayView(w http.ResponseWriter, r *http.Request) {
	today, err := viewToday(r)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	list, err := s.backlog.List(r.Context(), tasks.ListFilter{})
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, views.MyDay(list, today))
}

func (s *Server) handleBoardView(w http.ResponseWriter, r *http.Request) {
	list, err := s.backlog.List(r.Context(), tasks.ListFilter{IncludeDone: true})
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, views.GroupBoard(list))
}

func (s *Server) handleStatsView(w http.ResponseWriter, r *http.Request) {
	today, err := viewToday(r)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	list, err := s.backlog.List(r.Context(), tasks.ListFilter{IncludeDone: true})
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, views.Aggregate(list, today))
}
