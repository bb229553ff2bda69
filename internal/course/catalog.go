// internal/course/catalog.go
//
// Read-only course catalog.
// Defines:
//   - Hole:    one immutable hole definition (target phrase, par, traps).
//   - Catalog: ordered holes plus course name/description.
//
// A Catalog never changes after Load; every accessor hands out copies so a
// catalog can be shared by any number of game sessions.

package course

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrHoleIndex is returned when a hole index falls outside the course.
var ErrHoleIndex = errors.New("hole index out of range")

// Hole is a single hole definition.
type Hole struct {
	Index        int      `json:"index"`        // 0-based position in the course
	Number       int      `json:"holeNumber"`   // number shown to players
	Description  string   `json:"description"`
	TargetPhrase string   `json:"targetPhrase"` // never empty
	Par          int      `json:"par"`          // always > 0
	Traps        []string `json:"traps"`        // no duplicates (case-insensitive)
}

// Catalog is an ordered, immutable sequence of holes.
type Catalog struct {
	name        string
	description string
	holes       []Hole
}

// Name returns the course name.
func (c *Catalog) Name() string { return c.name }

// Description returns the course description.
func (c *Catalog) Description() string { return c.description }

// HoleCount returns the number of holes.
func (c *Catalog) HoleCount() int { return len(c.holes) }

// HoleAt returns the hole at index i.
func (c *Catalog) HoleAt(i int) (Hole, error) {
	if i < 0 || i >= len(c.holes) {
		return Hole{}, fmt.Errorf("course %q: hole %d of %d: %w", c.name, i, len(c.holes), ErrHoleIndex)
	}
	return c.holes[i].clone(), nil
}

// Holes returns a copy of every hole in course order.
func (c *Catalog) Holes() []Hole {
	return lo.Map(c.holes, func(h Hole, _ int) Hole { return h.clone() })
}

// TotalPar sums par over every hole in the course.
func (c *Catalog) TotalPar() int {
	return lo.SumBy(c.holes, func(h Hole) int { return h.Par })
}

func (h Hole) clone() Hole {
	h.Traps = slices.Clone(h.Traps)
	if h.Traps == nil {
		h.Traps = []string{}
	}
	return h
}
