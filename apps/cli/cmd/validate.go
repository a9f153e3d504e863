package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/specpretty/packages/schema"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check an event stream against the event schema",
	Long: `Check every line of a JSON-Lines event stream against the lifecycle
event schema without rendering it. Reads from stdin when no file is given.

Examples:
  specpretty validate run.jsonl
  your-runner --events | specpretty validate`,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	v, err := schema.NewValidator()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if !validateStream(cmd, v, "stdin", cmd.InOrStdin()) {
			os.Exit(ExitParseError)
		}
		return nil
	}

	hasErrors := false
	for _, file := range args {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		if !validateStream(cmd, v, file, f) {
			hasErrors = true
		}
		f.Close()
	}

	if hasErrors {
		os.Exit(ExitParseError)
	}
	return nil
}

// validateStream checks every non-blank line of r and reports each schema
// problem with its line number. It returns true when the stream is valid.
func validateStream(cmd *cobra.Command, v *schema.Validator, name string, r io.Reader) bool {
	// Progress repaints are throttled and go to stderr, never into a pipe.
	progress := rate.NewLimiter(rate.Every(200*time.Millisecond), 1)
	showProgress := isatty.IsTerminal(os.Stderr.Fd())

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	events := 0
	bad := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := v.ValidateLine([]byte(line)); err != nil {
			if showProgress {
				fmt.Fprint(os.Stderr, "\r\033[K")
			}
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s line %d: %v\n", name, lineNo, err)
			bad++
		} else {
			events++
		}
		if showProgress && progress.Allow() {
			fmt.Fprintf(os.Stderr, "\rvalidating %s: %d line(s)", name, lineNo)
		}
	}
	if showProgress {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", name, err)
		return false
	}

	if bad > 0 {
		fmt.Fprintf(cmd.OutOrStderr(), "Invalid: %s (%d problem(s) in %d line(s))\n", name, bad, lineNo)
		return false
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d event(s))\n", name, events)
	return true
}
