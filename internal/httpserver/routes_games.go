// internal/httpserver/routes_games.go
//
// HTTP routes for playing a course. Everything lives under /games:
//   - POST   /games                         → begin a game on a course
//   - POST   /games/{id}/holes/next         → open the next hole in course order
//   - POST   /games/{id}/holes/{index}/open → open a specific hole by 0-based index
//   - POST   /games/{id}/prompts            → submit a prompt to the open hole
//   - POST   /games/{id}/close              → close the open hole with the final response
//   - GET    /games/{id}/score              → running totals and the hole in play
//   - GET    /games/{id}/summary            → leaderboard report
//   - DELETE /games/{id}                    → drop the game from memory
//
// Sessions are held in memory while being played. When the last hole closes the
// game is written to the leaderboard once (best effort: failures are logged, the
// player still gets their result).

package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/jarodreyes/gollmf/internal/course"
	"github.com/jarodreyes/gollmf/internal/game"
	"github.com/jarodreyes/gollmf/internal/leaderboard"
	"github.com/jarodreyes/gollmf/internal/store"
)

// mountGames registers all /games routes.
func (s *Server) mountGames(r chi.Router) {
	r.Post("/games", s.handleNewGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Post("/holes/next", s.withGame(s.handleOpenNext))
		r.Post("/holes/{index}/open", s.withGame(s.handleOpenHole))
		r.Post("/prompts", s.withGame(s.handlePrompt))
		r.Post("/close", s.withGame(s.handleClose))
		r.Get("/score", s.withGame(s.handleScore))
		r.Get("/summary", s.withGame(s.handleSummary))
		r.Delete("/", s.handleDeleteGame)
	})
}

// gameHandler runs with the game locked.
type gameHandler func(w http.ResponseWriter, r *http.Request, g *store.Game)

// withGame loads {id}, checks ownership, and serializes access to the session.
func (s *Server) withGame(h gameHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.loadGame(w, r)
		if !ok {
			return
		}
		g.Lock()
		defer g.Unlock()
		h(w, r, g)
	}
}

// loadGame fetches a game visible to the caller. A game belongs to the player
// who started it: the signed-in user, or for guests the holder of the anon
// cookie. Everyone else gets a 404.
func (s *Server) loadGame(w http.ResponseWriter, r *http.Request) (*store.Game, bool) {
	g, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return nil, false
	}
	if !s.ownsGame(r, g) {
		writeErr(w, r, store.ErrNotFound)
		return nil, false
	}
	return g, true
}

func (s *Server) ownsGame(r *http.Request, g *store.Game) bool {
	if g.UserID != "" {
		me, ok := currentUser(r)
		return ok && me.ID == g.UserID
	}
	return g.AnonymousID != "" && s.anonID(r) == g.AnonymousID
}

// ------------------------------------------------------------------------------
// POST /games

type newGameReq struct {
	Course     string `json:"course"`     // empty → default course
	PlayerName string `json:"playerName"` // shown on the leaderboard for guests
}

type newGameRes struct {
	GameID   string     `json:"gameId"`
	Course   string     `json:"course"`
	Holes    int        `json:"holes"`
	TotalPar int        `json:"totalPar"`
	Rules    game.Rules `json:"rules"`
}

// handleNewGame begins a session on the requested course.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeJSON(r, &req, true); err != nil {
		writeErr(w, r, err)
		return
	}
	c, err := s.courses.Get(req.Course)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	g := &store.Game{
		PlayerName: strings.TrimSpace(req.PlayerName),
		Session:    game.NewSession(c, game.Rules{TrapPenalty: s.cfg.TrapPenalty}),
	}
	if me, ok := currentUser(r); ok {
		g.UserID = me.ID
		g.PlayerName = me.Username
	} else {
		g.AnonymousID = s.ensureAnonID(w, r)
	}
	if g, err = s.games.Create(r.Context(), g); err != nil {
		writeErr(w, r, err)
		return
	}

	s.metrics.GamesStarted.WithLabelValues(c.Name()).Inc()
	s.metrics.LiveGames.Set(float64(s.games.Len()))
	log.Info().Str("gameId", g.ID).Str("course", c.Name()).Bool("guest", g.UserID == "").Msg("game started")

	writeJSON(w, http.StatusCreated, newGameRes{
		GameID:   g.ID,
		Course:   c.Name(),
		Holes:    c.HoleCount(),
		TotalPar: c.TotalPar(),
		Rules:    g.Session.Rules(),
	})
}

// ------------------------------------------------------------------------------
// holes

type holeRes struct {
	Hole      course.Hole `json:"hole"`
	Remaining int         `json:"remaining"`
}

// handleOpenNext opens the next hole in course order.
func (s *Server) handleOpenNext(w http.ResponseWriter, r *http.Request, g *store.Game) {
	h, err := g.Session.OpenNext()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, holeRes{Hole: h, Remaining: g.Session.Remaining()})
}

// handleOpenHole opens a hole by index without moving the course cursor.
func (s *Server) handleOpenHole(w http.ResponseWriter, r *http.Request, g *store.Game) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "hole index must be an integer")
		return
	}
	h, err := g.Session.OpenHole(idx)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, holeRes{Hole: h, Remaining: g.Session.Remaining()})
}

// ------------------------------------------------------------------------------
// POST /games/{id}/prompts

type promptReq struct {
	Text string `json:"text"`
}

type promptRes struct {
	WordsAdded int `json:"wordsAdded"`
	HoleWords  int `json:"holeWords"`
	TrapHits   int `json:"trapHits"`
	TotalScore int `json:"totalScore"`
}

// handlePrompt scores a prompt against the open hole.
func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request, g *store.Game) {
	var req promptReq
	if err := decodeJSON(r, &req, false); err != nil {
		writeErr(w, r, err)
		return
	}
	n, err := g.Session.SubmitPrompt(req.Text)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	s.metrics.RecordPrompt(g.Session.Catalog().Name(), n)

	cur, _ := g.Session.Current()
	writeJSON(w, http.StatusOK, promptRes{
		WordsAdded: n,
		HoleWords:  cur.WordCount,
		TrapHits:   cur.TrapHits,
		TotalScore: g.Session.TotalScore(),
	})
}

// ------------------------------------------------------------------------------
// POST /games/{id}/close

type closeReq struct {
	Response string `json:"response"`
}

type closeRes struct {
	Result     game.HoleResult `json:"result"`
	ScoreToPar int             `json:"scoreToPar"`
	ParLabel   string          `json:"parLabel"`
	TotalScore int             `json:"totalScore"`
	Finished   bool            `json:"finished"`
	Recorded   bool            `json:"recorded"`
}

// handleClose seals the open hole and, if it was the last one, records the game.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request, g *store.Game) {
	var req closeReq
	if err := decodeJSON(r, &req, true); err != nil {
		writeErr(w, r, err)
		return
	}
	res, err := g.Session.CloseHole(req.Response)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	courseName := g.Session.Catalog().Name()
	s.metrics.RecordHole(courseName, res.Won, res.TrapHits)

	finished := g.Session.Finished()
	if finished && !g.Persisted {
		s.recordFinished(r, g)
	}

	writeJSON(w, http.StatusOK, closeRes{
		Result:     res,
		ScoreToPar: res.ScoreToPar(),
		ParLabel:   game.ParLabel(res.ScoreToPar()),
		TotalScore: g.Session.TotalScore(),
		Finished:   finished,
		Recorded:   g.Persisted,
	})
}

// recordFinished writes a completed game to the leaderboard. Caller holds g.
func (s *Server) recordFinished(r *http.Request, g *store.Game) {
	courseName := g.Session.Catalog().Name()
	e := leaderboard.NewEntry(g.ID, g.Session, time.Now())
	e.UserID = g.UserID
	e.AnonymousID = g.AnonymousID
	e.PlayerName = g.PlayerName
	if err := s.board.Record(r.Context(), e); err != nil {
		log.Warn().Err(err).
			Str("gameId", g.ID).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("record finished game")
		return
	}
	g.Persisted = true
	s.metrics.GamesCompleted.WithLabelValues(courseName).Inc()
	log.Info().Str("gameId", g.ID).Str("course", courseName).
		Int("scoreToPar", e.Report.TotalScoreToPar).Msg("game recorded")
}

// ------------------------------------------------------------------------------
// reads

type scoreRes struct {
	TotalWords      int            `json:"totalWords"`
	TotalScore      int            `json:"totalScore"`
	TotalPar        int            `json:"totalPar"`
	TotalScoreToPar int            `json:"totalScoreToPar"`
	HolesPlayed     int            `json:"holesPlayed"`
	Remaining       int            `json:"remaining"`
	Current         *game.Progress `json:"current,omitempty"`
	Finished        bool           `json:"finished"`
}

// handleScore returns running totals, including the hole in play.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request, g *store.Game) {
	sess := g.Session
	total := sess.TotalScore()
	out := scoreRes{
		TotalWords:      sess.TotalWords(),
		TotalScore:      total,
		TotalPar:        sess.Catalog().TotalPar(),
		TotalScoreToPar: total - sess.Catalog().TotalPar(),
		HolesPlayed:     len(sess.History()),
		Remaining:       sess.Remaining(),
		Finished:        sess.Finished(),
	}
	if cur, ok := sess.Current(); ok {
		out.Current = &cur
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSummary returns the leaderboard report for the game so far.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, g *store.Game) {
	writeJSON(w, http.StatusOK, g.Session.Summary())
}

// handleDeleteGame drops a game from memory. Recorded results stay on the leaderboard.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	if err := s.games.Delete(r.Context(), g.ID); err != nil {
		writeErr(w, r, err)
		return
	}
	s.metrics.LiveGames.Set(float64(s.games.Len()))
	w.WriteHeader(http.StatusNoContent)
}
