package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List the tests in an event stream",
	Long: `List every test named in a JSON-Lines event stream, grouped by file
and indented by suite nesting. Reads from stdin when no file is given.

Examples:
  specpretty list run.jsonl
  your-runner --events | specpretty list`,
	Args: cobra.MaximumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	out := cmd.OutOrStdout()
	var depth int
	var currentFile string
	sc := event.NewScanner(in)
	for sc.Scan() {
		ev := sc.Event()
		d := &ev.Data
		switch ev.Kind {
		case event.KindStart:
			if d.IsFileEvent() {
				continue
			}
			if d.File != "" && d.File != currentFile {
				currentFile = d.File
				fmt.Fprintf(out, "\n%s:\n", currentFile)
			}
			fmt.Fprintf(out, "  %s- %s\n", strings.Repeat("  ", depth), d.Name)
			depth++
		case event.KindPass, event.KindFail:
			if d.IsFileEvent() {
				continue
			}
			if depth > 0 {
				depth--
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading event stream: %w", err)
	}

	return nil
}
