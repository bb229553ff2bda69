// internal/game/engine.go
//
// Hole state machine: open → closed.
// Responsibilities:
//   - Open a record bound to a hole definition.
//   - Accept prompts while open, keeping a running word count.
//   - Decide the win on close and seal the record into a HoleResult.
//
// Notes:
//   - A closed record never changes again; Submit and Close on it fail
//     with ErrInvalidState and leave it untouched.
//   - Word counting and trap matching come from the words package.

package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jarodreyes/gollmf/internal/course"
	"github.com/jarodreyes/gollmf/internal/words"
)

// Open starts a new hole for h.
func Open(h course.Hole) *HoleRecord {
	h.Traps = slices.Clone(h.Traps)
	return &HoleRecord{
		hole:    h,
		prompts: []string{},
		state:   StateOpen,
	}
}

// Submit records a prompt and returns the number of words it added.
// Blank prompts add 0 words but are still recorded.
func (r *HoleRecord) Submit(prompt string) (int, error) {
	if r.state != StateOpen {
		return 0, fmt.Errorf("hole %d: submit prompt: %w (hole is %s)", r.hole.Number, ErrInvalidState, r.state)
	}
	n := words.Count(prompt)
	r.prompts = append(r.prompts, prompt)
	r.wordCount += n
	return n, nil
}

// Close evaluates response against the target, counts trap hits, and seals the record.
func (r *HoleRecord) Close(response string, rules Rules) (HoleResult, error) {
	if r.state != StateOpen {
		return HoleResult{}, fmt.Errorf("hole %d: close: %w (hole is %s)", r.hole.Number, ErrInvalidState, r.state)
	}

	hits := r.TrapHits()
	penalty := hits * rules.TrapPenalty
	r.result = HoleResult{
		Index:         r.hole.Index,
		Number:        r.hole.Number,
		Target:        r.hole.TargetPhrase,
		Par:           r.hole.Par,
		Traps:         slices.Clone(r.hole.Traps),
		Prompts:       slices.Clone(r.prompts),
		WordCount:     r.wordCount,
		TrapHits:      hits,
		Penalty:       penalty,
		Strokes:       r.wordCount + penalty,
		Won:           CheckWin(response, r.hole.TargetPhrase),
		FinalResponse: response,
	}
	r.state = StateClosed
	return r.result.clone(), nil
}

// Hole returns the definition this record is bound to.
func (r *HoleRecord) Hole() course.Hole {
	h := r.hole
	h.Traps = slices.Clone(h.Traps)
	return h
}

// State reports whether the record is still open.
func (r *HoleRecord) State() State { return r.state }

// Prompts returns the submitted prompts in order.
func (r *HoleRecord) Prompts() []string { return slices.Clone(r.prompts) }

// WordCount is the running word total for this hole.
func (r *HoleRecord) WordCount() int { return r.wordCount }

// TrapHits counts trap words across every prompt submitted so far.
func (r *HoleRecord) TrapHits() int { return words.TrapHits(r.prompts, r.hole.Traps) }

// Result returns the sealed result; ok is false while the hole is open.
func (r *HoleRecord) Result() (HoleResult, bool) {
	if r.state != StateClosed {
		return HoleResult{}, false
	}
	return r.result.clone(), true
}

// CheckWin reports whether target appears in response, ignoring case.
// Surrounding text and punctuation do not matter.
func CheckWin(response, target string) bool {
	if target == "" {
		return false
	}
	return strings.Contains(strings.ToLower(response), strings.ToLower(target))
}

// ParLabel renders a score-to-par value: "3 under par", "par", "2 over par".
func ParLabel(scoreToPar int) string {
	switch {
	case scoreToPar < 0:
		return strconv.Itoa(-scoreToPar) + " under par"
	case scoreToPar > 0:
		return strconv.Itoa(scoreToPar) + " over par"
	default:
		return "par"
	}
}

func (r HoleResult) clone() HoleResult {
	r.Traps = slices.Clone(r.Traps)
	r.Prompts = slices.Clone(r.Prompts)
	return r
}
