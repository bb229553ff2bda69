// cmd/gollmfctl/play.go
//
// play: replays a scripted round offline.
//   - --course takes a file path or a built-in course name.
//   - --script supplies the prompts and responses per hole.
// The scorecard prints as a table, or as the leaderboard report with -o json.

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jarodreyes/gollmf/internal/course"
	"github.com/jarodreyes/gollmf/internal/game"
	"github.com/jarodreyes/gollmf/internal/play"
)

func newPlayCommand() *cobra.Command {
	var (
		coursePath  string
		scriptPath  string
		trapPenalty int
		maxPrompts  int
		verbose     bool
	)
	cmd := &cobra.Command{
		Use:   "play --script <file> [--course <file|name>]",
		Short: "Replay a scripted round and print the scorecard",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveCourse(coursePath)
			if err != nil {
				return err
			}
			sc, err := play.LoadScriptFile(scriptPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts := play.Options{MaxPrompts: maxPrompts}
			if verbose {
				opts.OnHole = func(res game.HoleResult, ex []play.Exchange) {
					fmt.Fprintf(out, "hole %d (%s)\n", res.Number, res.Target)
					for _, e := range ex {
						fmt.Fprintf(out, "  > %s\n  < %s\n", e.Prompt, e.Response)
					}
				}
			}

			s := game.NewSession(c, game.Rules{TrapPenalty: trapPenalty})
			rep, err := play.Play(cmd.Context(), s, sc, sc, opts)
			if err != nil {
				return err
			}
			if outputFormat == "json" {
				return writeJSON(out, rep)
			}
			printReport(out, rep)
			return nil
		},
	}
	cmd.Flags().StringVar(&coursePath, "course", "", "Course file, or a built-in course name (default course when empty)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Script file with prompts and responses per hole")
	cmd.Flags().IntVar(&trapPenalty, "trap-penalty", 0, "Strokes added per trap word")
	cmd.Flags().IntVar(&maxPrompts, "max-prompts", 0, "Prompts allowed per hole (0 = unlimited)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every exchange")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// resolveCourse loads a course file, or falls back to a built-in course by name.
func resolveCourse(arg string) (*course.Catalog, error) {
	if arg == "" {
		return course.Default()
	}
	if _, err := os.Stat(arg); err == nil {
		return course.LoadFile(arg)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	lib, err := course.NewLibrary("")
	if err != nil {
		return nil, err
	}
	return lib.Get(arg)
}

func printReport(w io.Writer, rep game.Report) {
	fmt.Fprintf(w, "%s\n\n", rep.Course)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HOLE\tTARGET\tPAR\tWORDS\tTRAPS\tSTROKES\tRESULT\tWON")
	for _, h := range rep.Holes {
		won := "no"
		if h.Won {
			won = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			h.Number, h.Target, h.Par, h.WordCount, h.TrapHits, h.Strokes, h.ParLabel, won)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\nTotal: %d strokes (%d words), par %d, %s. Holes won: %d/%d\n",
		rep.TotalScore, rep.TotalWords, rep.TotalPar, game.ParLabel(rep.TotalScoreToPar),
		rep.HolesWon, rep.HolesPlayed)
}
