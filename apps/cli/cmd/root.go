package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "specpretty",
	Short: "Pretty test output for JSON-Lines event streams. No magic.",
	Long: `specpretty turns the JSON-Lines lifecycle events emitted by a test
runner (test:start, test:pass, test:fail, ...) into colorized, indented
progress and a readable end-of-run summary.

Pipe a stream straight in, or point it at an event log:

  your-runner --events | specpretty
  specpretty render run.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation with piped stdin reads the stream like `render`.
		if f, ok := cmd.InOrStdin().(*os.File); ok {
			fd := f.Fd()
			if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return renderCommand(cmd, args)
			}
		}
		return cmd.Help()
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(llmsCmd)
}
