// internal/play/script.go
//
// Script replays canned turns, standing in for both the player and the responder.
//
// File shape (YAML or JSON):
//
//	holes:
//	  - hole: 1
//	    turns:
//	      - prompt: What store sells clothes?
//	        response: Many stores sell clothes, like Uniqlo, H&M, Zara...
//	      - prompt: Uniqlo competitor?
//	        response: Barclays Uniclo
//
// Holes are matched by display number. A hole with no entry gets no prompts
// and closes with an empty response.

package play

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jarodreyes/gollmf/internal/course"
)

// Script is a deterministic Prompter and Responder.
type Script struct {
	Holes []ScriptHole `yaml:"holes" json:"holes"`

	byNumber map[int][]Exchange
}

// ScriptHole lists the turns for one hole.
type ScriptHole struct {
	Hole  int        `yaml:"hole" json:"hole"`
	Turns []Exchange `yaml:"turns" json:"turns"`
}

// LoadScript decodes a script. JSON input works too since YAML is a superset.
func LoadScript(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.index(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScriptFile reads a script from path.
func LoadScriptFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadScript(f)
}

// NewScript builds a script in code, mostly for tests.
func NewScript(holes ...ScriptHole) (*Script, error) {
	s := &Script{Holes: holes}
	if err := s.index(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) index() error {
	s.byNumber = make(map[int][]Exchange, len(s.Holes))
	for _, h := range s.Holes {
		if _, dup := s.byNumber[h.Hole]; dup {
			return fmt.Errorf("script: hole %d listed twice", h.Hole)
		}
		s.byNumber[h.Hole] = h.Turns
	}
	return nil
}

// Prompt returns the next scripted prompt for hole.
func (s *Script) Prompt(_ context.Context, hole course.Hole, exchanges []Exchange) (string, bool, error) {
	turns := s.byNumber[hole.Number]
	if len(exchanges) >= len(turns) {
		return "", false, nil
	}
	return turns[len(exchanges)].Prompt, true, nil
}

// Respond returns the scripted response paired with the current prompt.
func (s *Script) Respond(_ context.Context, hole course.Hole, exchanges []Exchange, prompt string) (string, error) {
	turns := s.byNumber[hole.Number]
	i := len(exchanges)
	if i >= len(turns) {
		return "", fmt.Errorf("script: hole %d has no response for turn %d", hole.Number, i+1)
	}
	if turns[i].Prompt != prompt {
		return "", fmt.Errorf("script: hole %d turn %d: prompt %q does not match script", hole.Number, i+1, prompt)
	}
	return turns[i].Response, nil
}
