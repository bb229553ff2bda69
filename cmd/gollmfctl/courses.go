// cmd/gollmfctl/courses.go
//
// Course commands.
//   - validate: load each file with the same loader the server uses and report
//     the course or the error. -o json prints one result object per file.
//   - courses: list the built-in courses plus any found in --dir.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jarodreyes/gollmf/internal/course"
)

// validateResult is the outcome for one course file.
type validateResult struct {
	File     string `json:"file"`
	Name     string `json:"name,omitempty"`
	Holes    int    `json:"holes"`
	TotalPar int    `json:"totalPar"`
	Error    string `json:"error,omitempty"`
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check course documents (JSON or YAML)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			results := make([]validateResult, 0, len(args))
			failed := 0
			for _, path := range args {
				c, err := course.LoadFile(path)
				if err != nil {
					failed++
					results = append(results, validateResult{File: path, Error: err.Error()})
					if outputFormat != "json" {
						fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %v\n", err)
					}
					continue
				}
				results = append(results, validateResult{File: path, Name: c.Name(), Holes: c.HoleCount(), TotalPar: c.TotalPar()})
				if outputFormat != "json" {
					fmt.Fprintf(out, "OK   %s: %q, %d holes, par %d\n", path, c.Name(), c.HoleCount(), c.TotalPar())
					printHoles(out, c)
				}
			}
			if outputFormat == "json" {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d course files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newCoursesCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List built-in courses plus any in --dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := course.NewLibrary(dir)
			if err != nil {
				return err
			}
			type row struct {
				Name     string `json:"name"`
				Holes    int    `json:"holes"`
				TotalPar int    `json:"totalPar"`
			}
			var rows []row
			for _, name := range lib.Names() {
				c, err := lib.Get(name)
				if err != nil {
					return err
				}
				rows = append(rows, row{Name: c.Name(), Holes: c.HoleCount(), TotalPar: c.TotalPar()})
			}
			if outputFormat == "json" {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COURSE\tHOLES\tPAR")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", r.Name, r.Holes, r.TotalPar)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory with extra course files")
	return cmd
}

func printHoles(w io.Writer, c *course.Catalog) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  HOLE\tPAR\tTARGET\tTRAPS")
	for _, h := range c.Holes() {
		fmt.Fprintf(tw, "  %d\t%d\t%s\t%s\n", h.Number, h.Par, h.TargetPhrase, strings.Join(h.Traps, ", "))
	}
	_ = tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
