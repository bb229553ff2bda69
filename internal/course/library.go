// internal/course/library.go
//
// A named set of courses available to the server.
//
// Loading behavior (NewLibrary):
//  1. The embedded courses are always loaded first (assets/courses/*.json).
//  2. If dir is non-empty, every *.json / *.yaml / *.yml file in it is loaded;
//     a file whose courseName matches an embedded course replaces it.
//  3. Any invalid file fails the whole library with its *LoadError.
//
// Lookups are case-insensitive on the course name.

package course

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jarodreyes/gollmf/assets"
)

// ErrUnknownCourse is returned by Library.Get for names it does not hold.
var ErrUnknownCourse = errors.New("unknown course")

// Library maps course names to loaded catalogs. Read-only after NewLibrary.
type Library struct {
	byKey    map[string]*Catalog
	defaultC *Catalog
}

// NewLibrary loads the embedded courses plus every course file in dir.
func NewLibrary(dir string) (*Library, error) {
	lib := &Library{byKey: make(map[string]*Catalog)}

	files, err := assets.CourseFiles()
	if err != nil {
		return nil, &LoadError{Source: "assets/courses", Err: err}
	}
	for _, f := range files {
		b, err := assets.FS.ReadFile(f)
		if err != nil {
			return nil, &LoadError{Source: f, Err: err}
		}
		c, err := load(f, bytes.NewReader(b), FormatJSON)
		if err != nil {
			return nil, err
		}
		lib.add(c)
		if f == assets.DefaultCourse {
			lib.defaultC = c
		}
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &LoadError{Source: dir, Err: err}
		}
		for _, e := range entries {
			if e.IsDir() || !isCourseFile(e.Name()) {
				continue
			}
			c, err := LoadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			lib.add(c)
		}
	}
	return lib, nil
}

// Get returns the course called name. An empty name selects the default course.
func (l *Library) Get(name string) (*Catalog, error) {
	if strings.TrimSpace(name) == "" {
		if l.defaultC == nil {
			return nil, ErrUnknownCourse
		}
		return l.byKey[key(l.defaultC.Name())], nil
	}
	c, ok := l.byKey[key(name)]
	if !ok {
		return nil, ErrUnknownCourse
	}
	return c, nil
}

// Names lists the course names, sorted.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.byKey))
	for _, c := range l.byKey {
		out = append(out, c.Name())
	}
	sort.Strings(out)
	return out
}

func (l *Library) add(c *Catalog) { l.byKey[key(c.Name())] = c }

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func isCourseFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
