// internal/game/summary.go
//
// Leaderboard report for a session.
// Summary is read-only and may be called at any point; it only reports on
// holes that are already in history, while TotalPar always covers the whole course.

package game

import (
	"github.com/samber/lo"
)

// HoleLine is one row of the report.
type HoleLine struct {
	Number     int    `json:"holeNumber"`
	Target     string `json:"targetPhrase"`
	Par        int    `json:"par"`
	WordCount  int    `json:"wordCount"`
	TrapHits   int    `json:"trapHits"`
	Strokes    int    `json:"strokes"`
	ScoreToPar int    `json:"scoreToPar"`
	ParLabel   string `json:"parLabel"`
	Won        bool   `json:"won"`
	// WithinParAllowance is the old scoreboard tick (scoreToPar <= par).
	// Won is the success flag.
	WithinParAllowance bool `json:"withinParAllowance"`
}

// Report summarises a session.
type Report struct {
	Course          string     `json:"course"`
	Holes           []HoleLine `json:"holes"`
	HolesPlayed     int        `json:"holesPlayed"`
	HolesWon        int        `json:"holesWon"`
	TotalWords      int        `json:"totalWords"`
	TotalScore      int        `json:"totalScore"`
	TotalPar        int        `json:"totalPar"`
	TotalScoreToPar int        `json:"totalScoreToPar"`
	TrapPenalty     int        `json:"trapPenalty"`
	Complete        bool       `json:"complete"`
}

// Summary builds the report for the current state of the session.
func (s *Session) Summary() Report {
	lines := lo.Map(s.history, func(r HoleResult, _ int) HoleLine {
		return HoleLine{
			Number:             r.Number,
			Target:             r.Target,
			Par:                r.Par,
			WordCount:          r.WordCount,
			TrapHits:           r.TrapHits,
			Strokes:            r.Strokes,
			ScoreToPar:         r.ScoreToPar(),
			ParLabel:           ParLabel(r.ScoreToPar()),
			Won:                r.Won,
			WithinParAllowance: r.WithinParAllowance(),
		}
	})

	total := s.TotalScore()
	totalPar := s.catalog.TotalPar()
	return Report{
		Course:          s.catalog.Name(),
		Holes:           lines,
		HolesPlayed:     len(lines),
		HolesWon:        lo.CountBy(lines, func(l HoleLine) bool { return l.Won }),
		TotalWords:      s.TotalWords(),
		TotalScore:      total,
		TotalPar:        totalPar,
		TotalScoreToPar: total - totalPar,
		TrapPenalty:     s.rules.TrapPenalty,
		Complete:        s.Finished(),
	}
}
