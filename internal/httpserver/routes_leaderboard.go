// internal/httpserver/routes_leaderboard.go
//
// HTTP routes for recorded games:
//   - GET /leaderboard                → top games (?course=&limit=; all courses when course is empty)
//   - GET /leaderboard/{gameId}/holes → per-hole breakdown of one recorded game
//   - GET /games/mine                 → the signed-in player's recent games (require auth)

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jarodreyes/gollmf/internal/leaderboard"
)

// mountLeaderboard registers /leaderboard routes.
func (s *Server) mountLeaderboard(r chi.Router) {
	r.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", s.handleLeaderboard)
		r.Get("/{gameId}/holes", s.handleLeaderboardHoles)
	})
	r.With(s.requireAuth).Get("/games/mine", s.handleMyGames)
}

// lbRes is returned by GET /leaderboard.
type lbRes struct {
	Course string            `json:"course,omitempty"`
	Top    []leaderboard.Row `json:"top"`
}

// handleLeaderboard returns the best recorded games.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	courseName := r.URL.Query().Get("course")
	if courseName != "" {
		// Resolve case-insensitively to the stored spelling.
		c, err := s.courses.Get(courseName)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		courseName = c.Name()
	}
	rows, err := s.board.Top(r.Context(), courseName, queryInt(r, "limit"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Course: courseName, Top: rows})
}

// handleLeaderboardHoles returns the holes of one recorded game.
func (s *Server) handleLeaderboardHoles(w http.ResponseWriter, r *http.Request) {
	holes, err := s.board.Holes(r.Context(), chi.URLParam(r, "gameId"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if len(holes) == 0 {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, holes)
}

// handleMyGames lists the caller's recorded games, newest first.
func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r)
	rows, err := s.board.ForUser(r.Context(), me.ID, queryInt(r, "limit"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// queryInt reads an integer query parameter; missing or invalid yields 0.
func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
