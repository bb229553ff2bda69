// internal/httpserver/middleware.go
//
// Cross-cutting middleware and cookie helpers:
//   - jsonContentType / cors:       response headers.
//   - rateLimit:                    per-client token bucket (RATE_LIMIT_RPS / RATE_LIMIT_BURST).
//   - accessLog:                    one zerolog line and one counter tick per request.
//   - withOptionalAuth/requireAuth: JWT from Bearer header or auth cookie.
//   - ensureAnonID:                 stable guest identifier cookie.

package httpserver

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jarodreyes/gollmf/internal/auth"
)

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limiter returns the token bucket for a client key (usually its IP).
func (s *Server) limiter(key string) *rate.Limiter {
	s.limMu.Lock()
	defer s.limMu.Unlock()
	if lim, ok := s.limiters[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Limit(s.cfg.RateLimitRPS), max(s.cfg.RateLimitBurst, 1))
	s.limiters[key] = lim
	return lim
}

// rateLimit rejects clients that exceed their bucket. RateLimitRPS <= 0 disables it.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimitRPS <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !s.limiter(clientKey(r)).Allow() {
			s.metrics.RateLimited.Inc()
			writeError(w, http.StatusTooManyRequests, "Too many requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey strips the port from RemoteAddr (RealIP may already have done so).
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// accessLog writes a debug line per request and counts it by status.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordRequest(r.Method, status)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// ----------------------------- auth context ---------------------------------

// ctxUserKey is the context key type for storing auth.Claims.
type ctxUserKey struct{}

// currentUser returns the signed-in player, if any.
func currentUser(r *http.Request) (auth.Claims, bool) {
	c, ok := r.Context().Value(ctxUserKey{}).(auth.Claims)
	return c, ok
}

// authenticate resolves the request's token to a still-existing user.
func (s *Server) authenticate(r *http.Request) (auth.Claims, bool) {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return auth.Claims{}, false
	}
	c, err := s.auth.Parse(tok)
	if err != nil {
		return auth.Claims{}, false
	}
	if _, err := s.auth.FindByID(r.Context(), c.ID); err != nil {
		return auth.Claims{}, false
	}
	return c, true
}

// withOptionalAuth decorates requests with the player if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := s.authenticate(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, c))
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth enforces a valid JWT and injects the player into request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := s.authenticate(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, c)))
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------- cookies ------------------------------------

func (s *Server) sameSite() http.SameSite {
	if s.cfg.Production {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// setAuthCookie writes the auth token cookie.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

// anonID returns the guest cookie value, or "" if none was set.
func (s *Server) anonID(r *http.Request) string {
	if c, err := r.Cookie(s.cfg.AnonCookie); err == nil {
		return c.Value
	}
	return ""
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if id := s.anonID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.AnonCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}
