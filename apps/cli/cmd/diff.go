package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/specpretty/packages/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	diffOutputFlag    string
	diffThresholdFlag string
)

var diffCmd = &cobra.Command{
	Use:   "diff <report1.json> <report2.json>",
	Short: "Compare two JSON run reports",
	Long: `Compare two JSON reports produced by 'specpretty render --output json'
and show the differences.

This command helps identify regressions or improvements between runs.

Examples:
  specpretty diff before.json after.json
  specpretty diff before.json after.json --threshold 10%`,
	Args: cobra.ExactArgs(2),
	RunE: diffCommand,
}

func init() {
	diffCmd.Flags().StringVarP(&diffOutputFlag, "output", "o", "console", "Output format: console, json")
	diffCmd.Flags().StringVar(&diffThresholdFlag, "threshold", "", "Fail if any test is slower by this percentage (e.g., 10%)")
}

// DiffResult holds the comparison result
type DiffResult struct {
	File1       string
	File2       string
	Comparisons []TestComparison
	Summary     DiffSummary
}

// TestComparison represents a comparison between two test results
type TestComparison struct {
	TestName       string
	File           string
	StatusChange   string  // "improved", "regressed", "unchanged", "new", "removed"
	Duration1      float64 // ms
	Duration2      float64 // ms
	DurationChange float64 // percentage change
	Passed1        bool
	Passed2        bool
	InFile1        bool
	InFile2        bool
}

// DiffSummary provides overall statistics
type DiffSummary struct {
	TotalTests       int
	Improved         int
	Regressed        int
	Unchanged        int
	NewTests         int
	RemovedTests     int
	AvgDuration1     float64
	AvgDuration2     float64
	TotalDuration1   float64
	TotalDuration2   float64
	ThresholdPassed  bool
	ThresholdPercent float64
}

func diffCommand(cmd *cobra.Command, args []string) error {
	file1, file2 := args[0], args[1]

	report1, err := loadReportFile(file1)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", file1, err)
	}

	report2, err := loadReportFile(file2)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", file2, err)
	}

	var threshold float64
	if diffThresholdFlag != "" {
		threshold, err = parseThreshold(diffThresholdFlag)
		if err != nil {
			return err
		}
	}

	diff := compareReports(file1, file2, report1, report2, threshold)

	switch strings.ToLower(diffOutputFlag) {
	case "json":
		err = outputDiffJSON(cmd.OutOrStdout(), diff)
	case "console":
		err = outputDiffConsole(cmd.OutOrStdout(), diff)
	default:
		return fmt.Errorf("unknown output format %q (want console or json)", diffOutputFlag)
	}
	if err != nil {
		return err
	}

	if diff.Summary.ThresholdPercent > 0 && !diff.Summary.ThresholdPassed {
		return fmt.Errorf("threshold exceeded")
	}
	return nil
}

func loadReportFile(path string) (*output.JSONOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report output.JSONOutput
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func parseThreshold(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q: %w", s, err)
	}
	return v, nil
}

// testPassed treats anything that did not fail (pass, skip, todo) as passing.
func testPassed(t output.JSONTest) bool {
	return t.Status != "fail"
}

func testDuration(t output.JSONTest) float64 {
	if t.Duration == nil {
		return 0
	}
	return *t.Duration
}

func compareReports(file1, file2 string, report1, report2 *output.JSONOutput, threshold float64) *DiffResult {
	diff := &DiffResult{
		File1: file1,
		File2: file2,
		Summary: DiffSummary{
			TotalDuration1:   report1.Duration,
			TotalDuration2:   report2.Duration,
			ThresholdPercent: threshold,
			ThresholdPassed:  true,
		},
	}

	// File-level pseudo-results track whole files, not tests, so they are
	// excluded from the comparison.
	tests1 := make(map[string]output.JSONTest)
	tests2 := make(map[string]output.JSONTest)
	for _, t := range report1.Tests {
		if t.FileLevel {
			continue
		}
		tests1[t.File+"::"+t.Name] = t
	}
	for _, t := range report2.Tests {
		if t.FileLevel {
			continue
		}
		tests2[t.File+"::"+t.Name] = t
	}

	keys := make([]string, 0, len(tests1)+len(tests2))
	for key := range tests1 {
		keys = append(keys, key)
	}
	for key := range tests2 {
		if _, dup := tests1[key]; !dup {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var totalDur1, totalDur2 float64
	var count1, count2 int

	for _, key := range keys {
		t1, in1 := tests1[key]
		t2, in2 := tests2[key]

		comp := TestComparison{
			TestName: getTestNameFromKey(key),
			File:     getFileFromKey(key),
			InFile1:  in1,
			InFile2:  in2,
		}

		if in1 {
			comp.Duration1 = testDuration(t1)
			comp.Passed1 = testPassed(t1)
			totalDur1 += comp.Duration1
			count1++
		}
		if in2 {
			comp.Duration2 = testDuration(t2)
			comp.Passed2 = testPassed(t2)
			totalDur2 += comp.Duration2
			count2++
		}

		// Determine status change and duration change
		if in1 && in2 {
			if comp.Duration1 > 0 {
				comp.DurationChange = ((comp.Duration2 - comp.Duration1) / comp.Duration1) * 100
			}

			if comp.Passed1 != comp.Passed2 {
				if comp.Passed2 {
					comp.StatusChange = "improved"
					diff.Summary.Improved++
				} else {
					comp.StatusChange = "regressed"
					diff.Summary.Regressed++
				}
			} else if comp.DurationChange < -10 {
				comp.StatusChange = "improved"
				diff.Summary.Improved++
			} else if comp.DurationChange > 10 {
				comp.StatusChange = "regressed"
				diff.Summary.Regressed++
			} else {
				comp.StatusChange = "unchanged"
				diff.Summary.Unchanged++
			}

			if threshold > 0 && comp.DurationChange > threshold {
				diff.Summary.ThresholdPassed = false
			}
		} else if in1 && !in2 {
			comp.StatusChange = "removed"
			diff.Summary.RemovedTests++
		} else {
			comp.StatusChange = "new"
			diff.Summary.NewTests++
		}

		diff.Comparisons = append(diff.Comparisons, comp)
		diff.Summary.TotalTests++
	}

	if count1 > 0 {
		diff.Summary.AvgDuration1 = totalDur1 / float64(count1)
	}
	if count2 > 0 {
		diff.Summary.AvgDuration2 = totalDur2 / float64(count2)
	}

	return diff
}

func getTestNameFromKey(key string) string {
	parts := strings.SplitN(key, "::", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return key
}

func getFileFromKey(key string) string {
	parts := strings.SplitN(key, "::", 2)
	if len(parts) == 2 {
		return parts[0]
	}
	return ""
}

func outputDiffConsole(w io.Writer, diff *DiffResult) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", bold("Run Comparison"))
	fmt.Fprintf(w, "  %s: %s\n", cyan("Report 1"), diff.File1)
	fmt.Fprintf(w, "  %s: %s\n\n", cyan("Report 2"), diff.File2)

	// Summary
	fmt.Fprintf(w, "%s\n", bold("Summary"))
	fmt.Fprintf(w, "  Total Tests:    %d\n", diff.Summary.TotalTests)
	if diff.Summary.Improved > 0 {
		fmt.Fprintf(w, "  Improved:       %s\n", green(fmt.Sprintf("%d", diff.Summary.Improved)))
	}
	if diff.Summary.Regressed > 0 {
		fmt.Fprintf(w, "  Regressed:      %s\n", red(fmt.Sprintf("%d", diff.Summary.Regressed)))
	}
	if diff.Summary.Unchanged > 0 {
		fmt.Fprintf(w, "  Unchanged:      %d\n", diff.Summary.Unchanged)
	}
	if diff.Summary.NewTests > 0 {
		fmt.Fprintf(w, "  New Tests:      %s\n", cyan(fmt.Sprintf("%d", diff.Summary.NewTests)))
	}
	if diff.Summary.RemovedTests > 0 {
		fmt.Fprintf(w, "  Removed Tests:  %s\n", yellow(fmt.Sprintf("%d", diff.Summary.RemovedTests)))
	}
	fmt.Fprintln(w)

	// Duration comparison
	fmt.Fprintf(w, "%s\n", bold("Duration"))
	fmt.Fprintf(w, "  Total (Report 1): %.0fms\n", diff.Summary.TotalDuration1)
	fmt.Fprintf(w, "  Total (Report 2): %.0fms\n", diff.Summary.TotalDuration2)
	fmt.Fprintf(w, "  Avg (Report 1):   %.0fms\n", diff.Summary.AvgDuration1)
	fmt.Fprintf(w, "  Avg (Report 2):   %.0fms\n", diff.Summary.AvgDuration2)
	fmt.Fprintln(w)

	// Detailed changes
	fmt.Fprintf(w, "%s\n", bold("Test Details"))
	for _, comp := range diff.Comparisons {
		var statusSymbol string
		var statusColor func(a ...interface{}) string

		switch comp.StatusChange {
		case "improved":
			statusSymbol = "↑"
			statusColor = green
		case "regressed":
			statusSymbol = "↓"
			statusColor = red
		case "new":
			statusSymbol = "+"
			statusColor = cyan
		case "removed":
			statusSymbol = "-"
			statusColor = yellow
		default:
			statusSymbol = "="
			statusColor = func(a ...interface{}) string { return fmt.Sprint(a...) }
		}

		name := comp.TestName
		if name == "" {
			name = "(unnamed)"
		}

		if comp.InFile1 && comp.InFile2 {
			changeStr := ""
			if comp.DurationChange > 0 {
				changeStr = fmt.Sprintf("+%.1f%%", comp.DurationChange)
			} else if comp.DurationChange < 0 {
				changeStr = fmt.Sprintf("%.1f%%", comp.DurationChange)
			}
			fmt.Fprintf(w, "  %s %s  %.0fms → %.0fms %s\n",
				statusColor(statusSymbol),
				name,
				comp.Duration1,
				comp.Duration2,
				statusColor(changeStr))
		} else if comp.InFile1 {
			fmt.Fprintf(w, "  %s %s  (removed)\n", statusColor(statusSymbol), name)
		} else {
			fmt.Fprintf(w, "  %s %s  (new, %.0fms)\n", statusColor(statusSymbol), name, comp.Duration2)
		}
	}
	fmt.Fprintln(w)

	// Threshold check
	if diff.Summary.ThresholdPercent > 0 {
		if diff.Summary.ThresholdPassed {
			fmt.Fprintf(w, "%s Threshold check passed (max regression: %.1f%%)\n", green("✓"), diff.Summary.ThresholdPercent)
		} else {
			fmt.Fprintf(w, "%s Threshold check failed (some tests exceeded %.1f%% regression)\n", red("✗"), diff.Summary.ThresholdPercent)
		}
	}

	return nil
}

func outputDiffJSON(w io.Writer, diff *DiffResult) error {
	type JSONComparison struct {
		TestName       string  `json:"testName"`
		File           string  `json:"file,omitempty"`
		StatusChange   string  `json:"statusChange"`
		Duration1      float64 `json:"duration1,omitempty"`
		Duration2      float64 `json:"duration2,omitempty"`
		DurationChange float64 `json:"durationChange,omitempty"`
	}

	type JSONDiff struct {
		File1       string           `json:"file1"`
		File2       string           `json:"file2"`
		Summary     DiffSummary      `json:"summary"`
		Comparisons []JSONComparison `json:"comparisons"`
	}

	out := JSONDiff{
		File1:   diff.File1,
		File2:   diff.File2,
		Summary: diff.Summary,
	}

	for _, c := range diff.Comparisons {
		out.Comparisons = append(out.Comparisons, JSONComparison{
			TestName:       c.TestName,
			File:           c.File,
			StatusChange:   c.StatusChange,
			Duration1:      c.Duration1,
			Duration2:      c.Duration2,
			DurationChange: c.DurationChange,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
