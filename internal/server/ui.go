package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
	"github.com/howmon/taskplanner/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return models.FormatDate(*t)
	},
}).ParseFS(templateFS, "templates/*.html"))

type dashboardData struct {
	Today     string
	MyDay     views.MyDayView
	Board     views.Board
	Stats     views.Stats
	LoggedIn  bool
	Statuses  []models.Status
	SprintSet []models.Sprint
}

type loginData struct {
	Failed bool
}

// handleDashboard renders the combined My Day / board / stats page. One page
// load is several round trips to the remote tracker; the dashboard is a
// convenience view, not a cache.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	today, err := viewToday(r)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	open, err := s.backlog.List(r.Context(), tasks.ListFilter{})
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	all, err := s.backlog.List(r.Context(), tasks.ListFilter{IncludeDone: true})
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}
	sprints, err := s.backlog.ListSprints(r.Context(), false)
	if err != nil {
		s.writeRepositoryError(w, r, err)
		return
	}

	data := dashboardData{
		Today:     models.FormatDate(today),
		MyDay:     views.MyDay(open, today),
		Board:     views.GroupBoard(all),
		Stats:     views.Aggregate(all, today),
		LoggedIn:  s.passwordHash != "",
		Statuses:  models.Statuses(),
		SprintSet: sprints,
	}
	s.renderPage(w, "dashboard.html", data)
}

func (s *Server) renderLogin(w http.ResponseWriter, failed bool) {
	s.renderPage(w, "login.html", loginData{Failed: failed})
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		s.log().Error("render template", "template", name, "error", err)
	}
}
