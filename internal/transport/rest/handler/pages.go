package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/presenter"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "terraguard_session"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Sessions hands out the presenter program of a browser session.
type Sessions interface {
	Get(id string) (string, *presenter.Program)
	Lookup(id string) (*presenter.Program, bool)
	Preview() presenter.View
}

type pageData struct {
	presenter.View
	ShowForm        bool
	ShowDashboard   bool
	ShowMethodology bool
	RedrawDelayMs   int64
}

func newPageData(v presenter.View) pageData {
	d := pageData{
		View:          v,
		RedrawDelayMs: v.RedrawDelay.Milliseconds(),
	}

	switch {
	case v.Layout == presenter.LayoutTabs && v.Tab == presenter.TabMethodology:
		d.ShowMethodology = true
	case v.Dashboard() && v.Panel != nil:
		d.ShowDashboard = true
	default:
		d.ShowForm = true
	}

	return d
}

// IndexHandler handles GET /. Without a live session it renders the
// initial view and starts nothing.
func (s *RiskServer) IndexHandler(w http.ResponseWriter, r *http.Request) {
	view := s.sessions.Preview()

	if c, err := r.Cookie(SessionCookie); err == nil {
		if prog, ok := s.sessions.Lookup(c.Value); ok {
			if view, err = prog.View(r.Context()); err != nil {
				s.sessionErr(w, err)
				return
			}
		}
	}

	var buf strings.Builder
	if err := pageTemplate.Execute(&buf, newPageData(view)); err != nil {
		logger.Error(fmt.Errorf("failed to render page: %w", err))
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write([]byte(buf.String())); err != nil {
		logger.Error(fmt.Errorf("can't write page: %w", err))
	}
}

// SubmitHandler handles POST /analyze. It waits for the analysis to finish
// and redirects back to the page.
func (s *RiskServer) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgInvalidBody, http.StatusBadRequest)
		return
	}

	msg := presenter.SubmitMsg{
		Latitude:  r.PostForm.Get("latitude"),
		Longitude: r.PostForm.Get("longitude"),
		Year:      r.PostForm.Get("year"),
	}
	s.sendAndRedirect(w, r, msg)
}

// BackHandler handles POST /back.
func (s *RiskServer) BackHandler(w http.ResponseWriter, r *http.Request) {
	s.sendAndRedirect(w, r, presenter.BackMsg{})
}

// TabHandler handles POST /tab/{tab}.
func (s *RiskServer) TabHandler(w http.ResponseWriter, r *http.Request) {
	tab, ok := presenter.ParseTab(mux.Vars(r)["tab"])
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.sendAndRedirect(w, r, presenter.SelectTabMsg{Tab: tab})
}

// PickHandler handles POST /pick, a click on the map.
func (s *RiskServer) PickHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgInvalidBody, http.StatusBadRequest)
		return
	}

	lat, errLat := strconv.ParseFloat(r.PostForm.Get("latitude"), 64)
	lon, errLon := strconv.ParseFloat(r.PostForm.Get("longitude"), 64)
	if errLat != nil || errLon != nil {
		http.Error(w, "invalid map position", http.StatusBadRequest)
		return
	}

	s.sendAndRedirect(w, r, presenter.PickLocationMsg{Latitude: lat, Longitude: lon})
}

func (s *RiskServer) sendAndRedirect(w http.ResponseWriter, r *http.Request, msg presenter.Msg) {
	prog := s.program(w, r)

	if err := prog.Send(r.Context(), msg); err != nil {
		s.sessionErr(w, err)
		return
	}

	if _, err := prog.AwaitIdle(r.Context()); err != nil {
		s.sessionErr(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// program returns the session program of r, setting the cookie when a new
// session was started.
func (s *RiskServer) program(w http.ResponseWriter, r *http.Request) *presenter.Program {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	newID, prog := s.sessions.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return prog
}

func (s *RiskServer) sessionErr(w http.ResponseWriter, err error) {
	if errors.Is(err, presenter.ErrProgramStopped) {
		http.Error(w, "session expired, reload the page", http.StatusServiceUnavailable)
		return
	}

	logger.Error(fmt.Errorf("session request failed: %w", err))
	http.Error(w, msgInternal, http.StatusInternalServerError)
}
