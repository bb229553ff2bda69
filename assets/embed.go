// assets/embed.go
//
// Files shipped inside the binary:
//   - courses/*.json: built-in course documents (the default course lives here).
//   - sql/*.sql:      schema migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed courses/*.json sql/*.sql
var FS embed.FS

// DefaultCourse is the file name of the course used when none is requested.
const DefaultCourse = "courses/gotham-greens.json"

// CourseFiles lists the embedded course documents in lexical order.
func CourseFiles() ([]string, error) {
	return list("courses", ".json")
}

// Migrations lists the embedded migration scripts in lexical order.
func Migrations() ([]string, error) {
	return list("sql", ".sql")
}

func list(dir, ext string) ([]string, error) {
	entries, err := fs.ReadDir(FS, dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			continue
		}
		out = append(out, path.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
