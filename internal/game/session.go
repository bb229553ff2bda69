// internal/game/session.go
//
// Session sequences the holes of one course for one player.
//
// State owned by a Session:
//   - the catalog (shared, read-only),
//   - a forward-only cursor used by NextHole,
//   - at most one open hole,
//   - the append-only history of sealed results.
//
// Each hole is played at most once: a hole with a result in history cannot be
// opened again, and OpenNext steps over holes already played by index.
//
// A Session is not safe for concurrent use. Independent games each get their
// own Session; nothing is shared between instances except read-only catalogs.

package game

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/jarodreyes/gollmf/internal/course"
)

// Session is one game over one course.
type Session struct {
	catalog *course.Catalog
	rules   Rules
	cursor  int
	open    *HoleRecord
	history []HoleResult
}

// Progress is a read-only view of the hole currently in play.
type Progress struct {
	Hole      course.Hole `json:"hole"`
	Prompts   []string    `json:"prompts"`
	WordCount int         `json:"wordCount"`
	TrapHits  int         `json:"trapHits"`
}

// NewSession begins a game on c.
func NewSession(c *course.Catalog, rules Rules) *Session {
	s := &Session{rules: rules}
	s.Begin(c)
	return s
}

// Begin binds c and resets the cursor, totals and history.
func (s *Session) Begin(c *course.Catalog) {
	s.catalog = c
	s.cursor = 0
	s.open = nil
	s.history = []HoleResult{}
}

// Catalog returns the course being played.
func (s *Session) Catalog() *course.Catalog { return s.catalog }

// Rules returns the scoring rules of the session.
func (s *Session) Rules() Rules { return s.rules }

// NextHole returns the hole under the cursor and advances it.
// After the last hole it returns ErrEndOfCourse and keeps doing so.
func (s *Session) NextHole() (course.Hole, error) {
	if s.cursor >= s.catalog.HoleCount() {
		return course.Hole{}, ErrEndOfCourse
	}
	h, err := s.catalog.HoleAt(s.cursor)
	if err != nil {
		return course.Hole{}, err
	}
	s.cursor++
	return h, nil
}

// OpenHole starts play on the hole at index.
// A hole that already has a result cannot be opened again.
func (s *Session) OpenHole(index int) (course.Hole, error) {
	if s.open != nil {
		return course.Hole{}, fmt.Errorf("open hole %d: %w (hole %d still open)", index, ErrInvalidState, s.open.hole.Number)
	}
	h, err := s.catalog.HoleAt(index)
	if err != nil {
		return course.Hole{}, fmt.Errorf("open hole: %w", err)
	}
	if s.played(index) {
		return course.Hole{}, fmt.Errorf("open hole %d: %w (hole %d already closed)", index, ErrInvalidState, h.Number)
	}
	s.open = Open(h)
	return h, nil
}

// OpenNext opens the first hole at or after the cursor that has not been played,
// and moves the cursor past it. Nothing moves when the call fails.
func (s *Session) OpenNext() (course.Hole, error) {
	if s.open != nil {
		return course.Hole{}, fmt.Errorf("open next hole: %w (hole %d still open)", ErrInvalidState, s.open.hole.Number)
	}
	next := s.cursor
	for next < s.catalog.HoleCount() && s.played(next) {
		next++
	}
	if next >= s.catalog.HoleCount() {
		return course.Hole{}, ErrEndOfCourse
	}
	h, err := s.OpenHole(next)
	if err != nil {
		return course.Hole{}, err
	}
	s.cursor = next + 1
	return h, nil
}

// played reports whether the hole at index already has a result.
func (s *Session) played(index int) bool {
	return lo.ContainsBy(s.history, func(r HoleResult) bool { return r.Index == index })
}

// SubmitPrompt adds a prompt to the open hole and returns the words it added.
func (s *Session) SubmitPrompt(text string) (int, error) {
	if s.open == nil {
		return 0, fmt.Errorf("submit prompt: %w (no hole is open)", ErrInvalidState)
	}
	return s.open.Submit(text)
}

// CloseHole closes the open hole with response and records it in history.
func (s *Session) CloseHole(response string) (HoleResult, error) {
	if s.open == nil {
		return HoleResult{}, fmt.Errorf("close hole: %w (no hole is open)", ErrInvalidState)
	}
	res, err := s.open.Close(response, s.rules)
	if err != nil {
		return HoleResult{}, err
	}
	s.open = nil
	s.RecordCompletedHole(res)
	return res, nil
}

// RecordCompletedHole appends a sealed result to history.
// It is the only way history grows.
func (s *Session) RecordCompletedHole(r HoleResult) {
	s.history = append(s.history, r.clone())
}

// Current returns the hole in play, if any.
func (s *Session) Current() (Progress, bool) {
	if s.open == nil {
		return Progress{}, false
	}
	return Progress{
		Hole:      s.open.Hole(),
		Prompts:   s.open.Prompts(),
		WordCount: s.open.WordCount(),
		TrapHits:  s.open.TrapHits(),
	}, true
}

// History returns the sealed results in play order.
func (s *Session) History() []HoleResult {
	return lo.Map(s.history, func(r HoleResult, _ int) HoleResult { return r.clone() })
}

// TotalWords is the word count over history plus the open hole.
func (s *Session) TotalWords() int {
	n := lo.SumBy(s.history, func(r HoleResult) int { return r.WordCount })
	if s.open != nil {
		n += s.open.WordCount()
	}
	return n
}

// TotalScore is TotalWords plus the trap penalties of closed holes.
// With the default rules it equals TotalWords.
func (s *Session) TotalScore() int {
	return s.TotalWords() + lo.SumBy(s.history, func(r HoleResult) int { return r.Penalty })
}

// Remaining reports how many holes NextHole can still hand out.
func (s *Session) Remaining() int { return s.catalog.HoleCount() - s.cursor }

// Finished reports whether every hole of the course has a result and none is open.
func (s *Session) Finished() bool {
	if s.open != nil {
		return false
	}
	for i := 0; i < s.catalog.HoleCount(); i++ {
		if !s.played(i) {
			return false
		}
	}
	return true
}
