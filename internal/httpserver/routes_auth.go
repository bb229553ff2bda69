// internal/httpserver/routes_auth.go
//
// Account endpoints:
//   - POST /auth/signup → create account, set auth cookie, claim guest games
//   - POST /auth/login  → verify password, set auth cookie, claim guest games
//   - POST /auth/logout → clear auth cookie
//   - GET  /auth/me     → current player with stats (require auth)

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/jarodreyes/gollmf/internal/auth"
)

// credentials is the request payload for signup/login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuth registers /auth routes.
func (s *Server) mountAuth(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})
}

// handleSignup creates a new user, signs a JWT, sets the cookie, and claims guest games.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	u, err := s.auth.Signup(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case errors.Is(err, auth.ErrInvalidSignup):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeErr(w, r, err)
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// handleLogin authenticates a user, sets the cookie, and claims guest games.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	u, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// signIn issues the token cookie and moves any guest games onto the account.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *auth.User) bool {
	tok, exp, err := s.auth.Sign(u)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setAuthCookie(w, tok, exp)

	if anon := s.anonID(r); anon != "" {
		n, err := s.board.Claim(r.Context(), anon, u.ID)
		if err != nil {
			log.Warn().Err(err).Str("user", u.ID).Msg("claim guest games")
		} else if n > 0 {
			log.Info().Str("user", u.ID).Int64("games", n).Msg("claimed guest games")
		}
	}
	return true
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMe returns the signed-in player with their stats.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r)
	u, err := s.auth.FindByID(r.Context(), me.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
