// cmd/gollmfctl/main.go
//
// gollmfctl: offline tooling for course authors.
//   - validate <file>...  check course documents and print their holes
//   - courses             list the courses the server would load
//   - play                replay a scripted round and print the scorecard

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var outputFormat string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gollmfctl",
		Short: "GOLLMF course and scorecard tools",
		Long: `gollmfctl validates course files and replays scripted rounds offline.
Output is a plain table by default; use -o json for machine-readable output.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newCoursesCommand())
	rootCmd.AddCommand(newPlayCommand())
	return rootCmd
}
