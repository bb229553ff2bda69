// internal/play/driver.go
//
// Runs a game session end to end through two injected capabilities:
//   - Prompter:  where the player's prompts come from (a person, a script).
//   - Responder: who answers them (an external agent, a script).
//
// Per hole: open → (prompt → submit → respond)* → close.
// A hole closes on the first winning response, when the prompter stops, or when
// Options.MaxPrompts is reached. It closes with the last response seen (empty if none).
//
// Errors from either capability are returned wrapped with the hole number and
// leave the hole open; nothing is retried here.

package play

import (
	"context"
	"errors"
	"fmt"

	"github.com/jarodreyes/gollmf/internal/course"
	"github.com/jarodreyes/gollmf/internal/game"
)

// Exchange is one prompt and the response it produced.
type Exchange struct {
	Prompt   string `json:"prompt" yaml:"prompt"`
	Response string `json:"response" yaml:"response"`
}

// Prompter supplies prompts for a hole. ok=false ends prompting on that hole.
type Prompter interface {
	Prompt(ctx context.Context, hole course.Hole, exchanges []Exchange) (text string, ok bool, err error)
}

// Responder answers a prompt.
type Responder interface {
	Respond(ctx context.Context, hole course.Hole, exchanges []Exchange, prompt string) (string, error)
}

// Options tune the driver.
type Options struct {
	MaxPrompts int // per hole; 0 means unlimited

	// OnHole, if set, is called after each hole closes.
	OnHole func(game.HoleResult, []Exchange)
}

// Play drives s until the course is exhausted and returns the final report.
func Play(ctx context.Context, s *game.Session, p Prompter, r Responder, opts Options) (game.Report, error) {
	for {
		if err := ctx.Err(); err != nil {
			return s.Summary(), err
		}
		hole, err := s.OpenNext()
		if errors.Is(err, game.ErrEndOfCourse) {
			return s.Summary(), nil
		}
		if err != nil {
			return s.Summary(), err
		}

		res, exchanges, err := playHole(ctx, s, hole, p, r, opts.MaxPrompts)
		if err != nil {
			return s.Summary(), fmt.Errorf("hole %d: %w", hole.Number, err)
		}
		if opts.OnHole != nil {
			opts.OnHole(res, exchanges)
		}
	}
}

func playHole(ctx context.Context, s *game.Session, hole course.Hole, p Prompter, r Responder, maxPrompts int) (game.HoleResult, []Exchange, error) {
	var exchanges []Exchange
	last := ""
	for maxPrompts <= 0 || len(exchanges) < maxPrompts {
		if err := ctx.Err(); err != nil {
			return game.HoleResult{}, exchanges, err
		}
		text, ok, err := p.Prompt(ctx, hole, exchanges)
		if err != nil {
			return game.HoleResult{}, exchanges, fmt.Errorf("prompt: %w", err)
		}
		if !ok {
			break
		}
		if _, err := s.SubmitPrompt(text); err != nil {
			return game.HoleResult{}, exchanges, err
		}
		resp, err := r.Respond(ctx, hole, exchanges, text)
		if err != nil {
			return game.HoleResult{}, exchanges, fmt.Errorf("respond: %w", err)
		}
		exchanges = append(exchanges, Exchange{Prompt: text, Response: resp})
		last = resp
		if game.CheckWin(resp, hole.TargetPhrase) {
			break
		}
	}
	res, err := s.CloseHole(last)
	return res, exchanges, err
}
