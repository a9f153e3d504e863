package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/specpretty/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize specpretty in the current directory",
	Long: `Initialize specpretty in the current directory.

This creates:
  - .specpretty.yaml - Configuration file with the defaults written out
  - example.jsonl    - Example event stream to render

Examples:
  specpretty init
  specpretty init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".specpretty.yaml")
	exampleFile := filepath.Join(cwd, "example.jsonl")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	// One file with a passing test, a failing test and a todo, plus the
	// trailing diagnostics and summary a real runner emits.
	exampleContent := `{"type":"test:enqueue","data":{"name":"example.test.js","nesting":0,"file":"example.test.js"}}
{"type":"test:start","data":{"name":"example.test.js","nesting":0,"file":"example.test.js"}}
{"type":"test:start","data":{"name":"math","nesting":0,"file":"example.test.js","line":3}}
{"type":"test:start","data":{"name":"adds small numbers","nesting":1,"file":"example.test.js","line":4}}
{"type":"test:pass","data":{"name":"adds small numbers","nesting":1,"file":"example.test.js","line":4,"details":{"duration_ms":1.2}}}
{"type":"test:start","data":{"name":"divides by zero","nesting":1,"file":"example.test.js","line":8}}
{"type":"test:stdout","data":{"file":"example.test.js","message":"computing 1/0\n"}}
{"type":"test:fail","data":{"name":"divides by zero","nesting":1,"file":"example.test.js","line":8,"details":{"duration_ms":0.8,"error":{"message":"expected Infinity to be NaN","failureType":"testCodeFailure","stack":"at example.test.js:9:5"}}}}
{"type":"test:start","data":{"name":"handles bigints","nesting":1,"file":"example.test.js","line":12,"todo":"needs BigInt support"}}
{"type":"test:pass","data":{"name":"handles bigints","nesting":1,"file":"example.test.js","line":12,"todo":"needs BigInt support","details":{"duration_ms":0.1}}}
{"type":"test:fail","data":{"name":"math","nesting":0,"file":"example.test.js","line":3,"details":{"duration_ms":5.4,"error":{"message":"1 subtest failed","failureType":"subtestsFailed"}}}}
{"type":"test:fail","data":{"name":"example.test.js","nesting":0,"file":"example.test.js","details":{"duration_ms":6.1,"error":{"message":"1 subtest failed","failureType":"subtestsFailed"}}}}
{"type":"test:diagnostic","data":{"nesting":0,"message":"tests 3"}}
{"type":"test:diagnostic","data":{"nesting":0,"message":"suites 1"}}
{"type":"test:diagnostic","data":{"nesting":0,"message":"pass 1"}}
{"type":"test:diagnostic","data":{"nesting":0,"message":"fail 1"}}
{"type":"test:diagnostic","data":{"nesting":0,"message":"cancelled 0"}}
{"type":"test:diagnostic","data":{"nesting":0,"message":"skipped 0"}}
{"type":"test:diagnostic","data":{"nesting":0,"message":"todo 1"}}
{"type":"test:diagnostic","data":{"nesting":0,"message":"duration_ms 6.5"}}
{"type":"test:summary","data":{"success":false,"counts":{"tests":3,"suites":1,"pass":1,"fail":1,"cancelled":0,"skipped":0,"todo":1},"details":{"duration_ms":6.5}}}
`

	if err := os.WriteFile(exampleFile, []byte(exampleContent), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nspecpretty initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'specpretty render example.jsonl' to see a sample report.\n")

	return nil
}
