package insightlens

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"insightlens/shared/monitoring"
	"insightlens/shared/storage"
)

const sessionCookieName = "insightlens_session"

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Server serves the single page and runs summary requests in the background
// so the page can show the loading state while they are in flight.
type Server struct {
	sessions       *storage.SessionStore[*Controller]
	monitor        *monitoring.Monitor
	refreshSeconds int
	requestTimeout time.Duration

	// baseCtx bounds background requests to the server's lifetime.
	baseCtx  context.Context
	inflight sync.WaitGroup
}

type ServerOptions struct {
	RefreshSeconds int
	RequestTimeout time.Duration
}

func NewServer(ctx context.Context, sessions *storage.SessionStore[*Controller], monitor *monitoring.Monitor, opts ServerOptions) *Server {
	return &Server{
		sessions:       sessions,
		monitor:        monitor,
		refreshSeconds: opts.RefreshSeconds,
		requestTimeout: opts.RequestTimeout,
		baseCtx:        ctx,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	monitoring.NewHealthServer(s.monitor).Register(mux)
	return mux
}

// Wait blocks until all background summary requests have finished.
func (s *Server) Wait() {
	s.inflight.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Visitors without a session see the idle page; one is created on submit.
	var state ViewState
	if ctrl, ok := s.existingSession(r); ok {
		state = ctrl.State()
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, NewPageView(state, s.refreshSeconds)); err != nil {
		log.Printf("Error rendering page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if run := ctrl.StartURL(r.PostFormValue("url")); run != nil {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			ctx, cancel := s.requestContext()
			defer cancel()
			run(ctx)
		}()
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) requestContext() (context.Context, context.CancelFunc) {
	if s.requestTimeout > 0 {
		return context.WithTimeout(s.baseCtx, s.requestTimeout)
	}
	return context.WithCancel(s.baseCtx)
}

func sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (s *Server) existingSession(r *http.Request) (*Controller, bool) {
	id := sessionID(r)
	if id == "" {
		return nil, false
	}
	return s.sessions.Lookup(id)
}

// session returns the caller's controller, issuing a new cookie when the
// session is new or has expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Controller, bool) {
	id := sessionID(r)

	current, ctrl, err := s.sessions.Get(id)
	if errors.Is(err, storage.ErrStoreFull) {
		log.Printf("Warning: rejecting new session, %d sessions active", s.sessions.Count())
		http.Error(w, "too many active sessions, try again later", http.StatusServiceUnavailable)
		return nil, false
	}
	if err != nil {
		log.Printf("Error creating session: %v", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return nil, false
	}

	if current != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    current,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctrl, true
}
