// internal/httpserver/server.go
//
// HTTP server wiring for the GOLLMF backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts, JSON,
//     CORS, per-client rate limiting, access log).
//   - Public endpoints: "/", "/health", "/metrics", "/courses", "/courses/{name}".
//   - Game endpoints (optional auth), mounted under /games.
//   - Leaderboard endpoints (public), mounted under /leaderboard.
//   - Auth + profile endpoints: /auth/*, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with the player when a valid token is present;
//     guests still play and are tracked by an anonymous cookie.
//   - Domain errors are mapped to status codes in one place (statusFor).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jarodreyes/gollmf/internal/auth"
	"github.com/jarodreyes/gollmf/internal/config"
	"github.com/jarodreyes/gollmf/internal/course"
	"github.com/jarodreyes/gollmf/internal/game"
	"github.com/jarodreyes/gollmf/internal/leaderboard"
	"github.com/jarodreyes/gollmf/internal/metrics"
	"github.com/jarodreyes/gollmf/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config  *config.Config
	Games   store.Store
	Courses *course.Library
	Board   *leaderboard.Store
	Auth    *auth.Service
	Metrics *metrics.Metrics
}

// Server bundles the router and its collaborators.
type Server struct {
	r       *chi.Mux
	cfg     *config.Config
	games   store.Store
	courses *course.Library
	board   *leaderboard.Store
	auth    *auth.Service
	metrics *metrics.Metrics

	limMu    sync.Mutex
	limiters map[string]*rate.Limiter
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		games:    d.Games,
		courses:  d.Courses,
		board:    d.Board,
		auth:     d.Auth,
		metrics:  d.Metrics,
		limiters: make(map[string]*rate.Limiter),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(s.accessLog)                     // zerolog line + request counter
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS
	s.r.Use(s.rateLimit)                     // per-client token bucket

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "gollmf",
			"endpoints": []string{"/health", "/courses", "POST /games", "/leaderboard", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	s.r.Get("/courses", s.handleCourses)
	s.r.Get("/courses/{name}", s.handleCourse)

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.mountGames(s.r.With(s.withOptionalAuth))

	// Leaderboard: public
	s.mountLeaderboard(s.r)

	// Auth + profile (require auth where noted)
	s.mountAuth(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ courses -------------------------------------

type courseView struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Holes       int           `json:"holes"`
	TotalPar    int           `json:"totalPar"`
	HoleList    []course.Hole `json:"holeList,omitempty"`
}

// handleCourses lists the available courses.
func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	out := []courseView{}
	for _, name := range s.courses.Names() {
		c, err := s.courses.Get(name)
		if err != nil {
			continue
		}
		out = append(out, courseView{
			Name:        c.Name(),
			Description: c.Description(),
			Holes:       c.HoleCount(),
			TotalPar:    c.TotalPar(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCourse returns one course with its holes.
func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	c, err := s.courses.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courseView{
		Name:        c.Name(),
		Description: c.Description(),
		Holes:       c.HoleCount(),
		TotalPar:    c.TotalPar(),
		HoleList:    c.Holes(),
	})
}

// ------------------------------ helpers -------------------------------------

// writeJSON encodes v with status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps a domain error to a status and writes it.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("requestId", chimw.GetReqID(r.Context())).Msg("request failed")
		writeError(w, status, "server_error")
		return
	}
	writeError(w, status, err.Error())
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, game.ErrHoleIndex):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrEndOfCourse):
		return http.StatusGone
	case errors.Is(err, store.ErrNotFound), errors.Is(err, course.ErrUnknownCourse),
		errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadJSON = errors.New("bad_json")

// decodeJSON reads a JSON body into v. An empty body is allowed when optional is set.
func decodeJSON(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return nil
	}
	return errBadJSON
}
