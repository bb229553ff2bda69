// internal/course/load.go
//
// Course document loading and validation.
//
// Accepted document shape (JSON or YAML):
//
//	courseName:  string (required)
//	description: string
//	holes:       list (required, non-empty)
//	  - holeNumber:   int (required)
//	    description:  string
//	    targetPhrase: string (required, non-blank)
//	    par:          int (required, > 0)
//	    traps:        list of strings (optional, no duplicates)
//
// Every failure is reported as a *LoadError; validation failures also match
// ErrMalformed through errors.Is.

package course

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jarodreyes/gollmf/assets"
)

// ErrMalformed marks a course document that parsed but broke a rule.
var ErrMalformed = errors.New("malformed course")

// Format selects the decoder used by Load.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// LoadError reports why a course could not be loaded.
type LoadError struct {
	Source string // file path or "<reader>"
	Err    error
}

func (e *LoadError) Error() string { return "load course " + e.Source + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// document mirrors the on-disk shape. Pointers distinguish "missing" from zero.
type document struct {
	CourseName  *string        `json:"courseName" yaml:"courseName"`
	Description string         `json:"description" yaml:"description"`
	Holes       []holeDocument `json:"holes" yaml:"holes"`
}

type holeDocument struct {
	HoleNumber   *int     `json:"holeNumber" yaml:"holeNumber"`
	Description  string   `json:"description" yaml:"description"`
	TargetPhrase *string  `json:"targetPhrase" yaml:"targetPhrase"`
	Par          *int     `json:"par" yaml:"par"`
	Traps        []string `json:"traps" yaml:"traps"`
}

// Load decodes and validates a course document from r.
func Load(r io.Reader, format Format) (*Catalog, error) {
	return load("<reader>", r, format)
}

// LoadFile reads a course from path. The format follows the extension:
// .yaml/.yml are YAML, everything else is JSON.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return load(path, f, FormatFor(path))
}

// Default returns the course embedded in the binary.
func Default() (*Catalog, error) {
	b, err := assets.FS.ReadFile(assets.DefaultCourse)
	if err != nil {
		return nil, &LoadError{Source: assets.DefaultCourse, Err: err}
	}
	return load(assets.DefaultCourse, bytes.NewReader(b), FormatJSON)
}

// FormatFor maps a file name to its decoder.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func load(source string, r io.Reader, format Format) (*Catalog, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, &LoadError{Source: source, Err: decodeErr(err)}
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, &LoadError{Source: source, Err: decodeErr(err)}
		}
	default:
		return nil, &LoadError{Source: source, Err: fmt.Errorf("unknown format %q", format)}
	}

	c, err := doc.catalog()
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return c, nil
}

// decodeErr tags syntax and type errors as malformed; an empty input is too.
func decodeErr(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty document", ErrMalformed)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

// catalog validates the decoded document and builds the immutable Catalog.
func (d document) catalog() (*Catalog, error) {
	if d.CourseName == nil || strings.TrimSpace(*d.CourseName) == "" {
		return nil, fmt.Errorf("%w: courseName is required", ErrMalformed)
	}
	if len(d.Holes) == 0 {
		return nil, fmt.Errorf("%w: course has no holes", ErrMalformed)
	}

	c := &Catalog{
		name:        strings.TrimSpace(*d.CourseName),
		description: d.Description,
		holes:       make([]Hole, 0, len(d.Holes)),
	}
	for i, hd := range d.Holes {
		h, err := hd.hole(i)
		if err != nil {
			return nil, fmt.Errorf("%w: hole %d: %v", ErrMalformed, i+1, err)
		}
		c.holes = append(c.holes, h)
	}
	return c, nil
}

func (hd holeDocument) hole(index int) (Hole, error) {
	switch {
	case hd.HoleNumber == nil:
		return Hole{}, errors.New("holeNumber is required")
	case hd.TargetPhrase == nil:
		return Hole{}, errors.New("targetPhrase is required")
	case strings.TrimSpace(*hd.TargetPhrase) == "":
		return Hole{}, errors.New("targetPhrase must not be blank")
	case hd.Par == nil:
		return Hole{}, errors.New("par is required")
	case *hd.Par <= 0:
		return Hole{}, fmt.Errorf("par must be positive, got %d", *hd.Par)
	}

	traps := make([]string, 0, len(hd.Traps))
	seen := make(map[string]struct{}, len(hd.Traps))
	for _, t := range hd.Traps {
		t = strings.TrimSpace(t)
		if t == "" {
			return Hole{}, errors.New("traps must not contain blank entries")
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			return Hole{}, fmt.Errorf("duplicate trap %q", t)
		}
		seen[key] = struct{}{}
		traps = append(traps, t)
	}

	return Hole{
		Index:        index,
		Number:       *hd.HoleNumber,
		Description:  hd.Description,
		TargetPhrase: *hd.TargetPhrase,
		Par:          *hd.Par,
		Traps:        traps,
	}, nil
}
