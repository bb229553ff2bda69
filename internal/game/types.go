// internal/game/types.go
//
// Core type definitions for the scoring engine.
// Defines:
//   - State:      lifecycle of a hole (open/closed).
//   - Rules:      scoring knobs shared by every hole of a session.
//   - HoleRecord: one hole in play (mutable until closed).
//   - HoleResult: the sealed outcome of a hole, as kept in history.
//   - Sentinel errors for misuse of the state machine.

package game

import (
	"errors"

	"github.com/jarodreyes/gollmf/internal/course"
)

// State is the lifecycle position of a HoleRecord.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

var (
	// ErrInvalidState is returned when an operation does not fit the hole's state,
	// e.g. submitting to a closed hole, closing twice, or opening a second hole.
	ErrInvalidState = errors.New("invalid hole state")

	// ErrEndOfCourse is returned by NextHole once every hole has been handed out.
	ErrEndOfCourse = errors.New("end of course")

	// ErrHoleIndex is course.ErrHoleIndex, re-exported for callers of this package.
	ErrHoleIndex = course.ErrHoleIndex
)

// Rules are the scoring options of a session.
type Rules struct {
	// TrapPenalty is added to a hole's strokes for every trap hit.
	// Zero keeps trap hits informational.
	TrapPenalty int `json:"trapPenalty"`
}

// HoleRecord tracks one hole while it is being played.
// Fields are private so the only way to change a record is Submit and Close.
type HoleRecord struct {
	hole      course.Hole
	prompts   []string
	wordCount int
	state     State
	result    HoleResult // valid once state == StateClosed
}

// HoleResult is the immutable outcome of a closed hole.
type HoleResult struct {
	Index         int      `json:"index"`
	Number        int      `json:"holeNumber"`
	Target        string   `json:"targetPhrase"`
	Par           int      `json:"par"`
	Traps         []string `json:"traps"`
	Prompts       []string `json:"prompts"`
	WordCount     int      `json:"wordCount"`
	TrapHits      int      `json:"trapHits"`
	Penalty       int      `json:"penalty"` // TrapHits * Rules.TrapPenalty
	Strokes       int      `json:"strokes"` // WordCount + Penalty
	Won           bool     `json:"won"`
	FinalResponse string   `json:"finalResponse"`
}

// ScoreToPar is Strokes minus Par. Negative is under par.
// It says nothing about success; Won does.
func (r HoleResult) ScoreToPar() int { return r.Strokes - r.Par }

// WithinParAllowance is the legacy scoreboard tick: ScoreToPar <= Par.
// It is a display heuristic only and can be true for a hole that was not won.
func (r HoleResult) WithinParAllowance() bool { return r.ScoreToPar() <= r.Par }
