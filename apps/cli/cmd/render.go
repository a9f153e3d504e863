package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/specpretty/packages/core/config"
	"github.com/abdul-hamid-achik/specpretty/packages/core/event"
	"github.com/abdul-hamid-achik/specpretty/packages/core/reporter"
	"github.com/abdul-hamid-achik/specpretty/packages/follow"
	"github.com/abdul-hamid-achik/specpretty/packages/logging"
	"github.com/abdul-hamid-achik/specpretty/packages/notify"
	"github.com/abdul-hamid-achik/specpretty/packages/output"
	"github.com/abdul-hamid-achik/specpretty/packages/render"
	"github.com/abdul-hamid-achik/specpretty/packages/stats"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Pretty-print a test lifecycle event stream",
	Long: `Render a JSON-Lines test lifecycle event stream (test:start,
test:pass, test:fail, ...) as colorized, indented progress with a final
summary. Reads from stdin when no file is given.

Examples:
  your-runner --events | specpretty render
  specpretty render run.jsonl
  specpretty render run.jsonl --output junit --output-file report.xml
  specpretty render --follow run.jsonl
  specpretty render run.jsonl --timing --timing-file timing.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: renderCommand,
}

var (
	outputFlag     string
	outputFileFlag string
	baseDirFlag    string
	configFlag     string
	noColorFlag    bool
	forceColorFlag bool
	quietFlag      bool
	verboseFlag    int // 0=off, 1=-v, 2=-vv, 3=-vvv
	followFlag     bool
	exitZeroFlag   bool

	// Timing flags
	timingFlag     bool
	timingFileFlag string
	slowestFlag    int

	// Notification flags
	notifyFlag       string
	notifyOnFlag     string
	slackWebhookFlag string
	slackChannelFlag string
	teamsWebhookFlag string
)

func init() {
	// Output flags
	renderCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("SPECPRETTY_OUTPUT", ""), "Output format: console, json, junit, tap, html (env: SPECPRETTY_OUTPUT)")
	renderCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("SPECPRETTY_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: SPECPRETTY_OUTPUT_FILE)")
	renderCmd.Flags().StringVar(&baseDirFlag, "base-dir", getEnvString("SPECPRETTY_BASE_DIR", ""), "Directory file paths are shown relative to (default: working directory) (env: SPECPRETTY_BASE_DIR)")
	renderCmd.Flags().StringVar(&configFlag, "config", getEnvString("SPECPRETTY_CONFIG", ""), "Path to config file (env: SPECPRETTY_CONFIG)")
	renderCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("SPECPRETTY_NO_COLOR", false), "Disable colored output (env: SPECPRETTY_NO_COLOR)")
	renderCmd.Flags().BoolVar(&forceColorFlag, "force-color", getEnvBool("SPECPRETTY_FORCE_COLOR", false), "Colorize even when output is not a terminal (env: SPECPRETTY_FORCE_COLOR)")
	renderCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("SPECPRETTY_QUIET", false), "Suppress progress, print only the final summary (env: SPECPRETTY_QUIET)")
	renderCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose diagnostics on stderr (-v, -vv for more detail)")

	// Follow mode
	renderCmd.Flags().BoolVarP(&followFlag, "follow", "f", false, "Keep reading as the event log grows (requires a file argument)")

	// Timing flags
	renderCmd.Flags().BoolVar(&timingFlag, "timing", getEnvBool("SPECPRETTY_TIMING", false), "Append timing percentiles and slowest tests after the summary (env: SPECPRETTY_TIMING)")
	renderCmd.Flags().StringVar(&timingFileFlag, "timing-file", getEnvString("SPECPRETTY_TIMING_FILE", ""), "Write the timing report as JSON to file (env: SPECPRETTY_TIMING_FILE)")
	renderCmd.Flags().IntVar(&slowestFlag, "slowest", getEnvInt("SPECPRETTY_SLOWEST", 0), "Entries in the slowest-tests list (default from config, 10) (env: SPECPRETTY_SLOWEST)")

	// Exit behavior
	renderCmd.Flags().BoolVar(&exitZeroFlag, "exit-zero", getEnvBool("SPECPRETTY_EXIT_ZERO", false), "Exit 0 even when the run fails (env: SPECPRETTY_EXIT_ZERO)")

	// Notification flags
	renderCmd.Flags().StringVar(&notifyFlag, "notify", getEnvString("SPECPRETTY_NOTIFY", ""), "Notification service: slack, teams (env: SPECPRETTY_NOTIFY)")
	renderCmd.Flags().StringVar(&notifyOnFlag, "notify-on", getEnvString("SPECPRETTY_NOTIFY_ON", ""), "When to notify: always, failure, success, recovery (env: SPECPRETTY_NOTIFY_ON)")
	renderCmd.Flags().StringVar(&slackWebhookFlag, "slack-webhook", getEnvString("SLACK_WEBHOOK", ""), "Slack webhook URL (env: SLACK_WEBHOOK)")
	renderCmd.Flags().StringVar(&slackChannelFlag, "slack-channel", getEnvString("SLACK_CHANNEL", ""), "Slack channel override (env: SLACK_CHANNEL)")
	renderCmd.Flags().StringVar(&teamsWebhookFlag, "teams-webhook", getEnvString("TEAMS_WEBHOOK", ""), "Microsoft Teams webhook URL (env: TEAMS_WEBHOOK)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// Formatter is the sink every output format implements.
type Formatter interface {
	FormatEvent(ev *event.Event)
	FormatError(err error)
}

// Flushable is implemented by formatters that have output to write after
// the last event.
type Flushable interface {
	Flush() error
}

func renderCommand(cmd *cobra.Command, args []string) error {
	verbosity := verboseFlag
	if verbosity == 0 {
		verbosity = getEnvInt("SPECPRETTY_LOG", 0)
	}
	logging.Setup(verbosity, noColorFlag)
	log := logging.GetLogger("cli")

	// Load config from file (if present); CLI flags override it below
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load config: %v\n", err)
		os.Exit(ExitConfigError)
	}

	format := strings.ToLower(outputFlag)
	if format == "" {
		format = fileConfig.Format
	}

	outputFile := outputFileFlag
	if outputFile == "" {
		outputFile = fileConfig.OutputFile
	}

	baseDir := baseDirFlag
	if baseDir == "" {
		baseDir = fileConfig.BaseDir
	}
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}

	noColor := noColorFlag || fileConfig.GetNoColor()
	forceColor := forceColorFlag || fileConfig.GetForceColor()
	followMode := followFlag || fileConfig.GetFollow()

	timingFile := timingFileFlag
	if timingFile == "" {
		timingFile = fileConfig.TimingFile
	}
	collectTiming := timingFlag || fileConfig.GetTiming() || timingFile != ""

	slowest := slowestFlag
	if slowest <= 0 {
		slowest = fileConfig.GetSlowest()
	}

	exitZero := exitZeroFlag || fileConfig.GetExitZero()

	if followMode && len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --follow requires a file argument")
		os.Exit(ExitUsageError)
	}
	if len(args) == 0 && !followMode {
		if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			fmt.Fprintln(os.Stderr, "Error: no event stream: pass a file or pipe input")
			os.Exit(ExitUsageError)
		}
	}

	notifyManager, err := buildNotifyManager(fileConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitUsageError)
	}

	// Setup output writer
	outWriter := io.Writer(cmd.OutOrStdout())
	var outFile *os.File
	if outputFile != "" {
		outFile, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outFile.Close()
		outWriter = outFile
	}

	colorTarget, _ := outWriter.(*os.File)
	colorized := render.DetectColor(colorTarget)
	if forceColor {
		colorized = true
	}
	if noColor {
		colorized = false
	}
	palette := render.NewPalette(colorized)

	// Create formatter based on output format
	var formatter Formatter
	switch format {
	case "json":
		formatter = output.NewJSONFormatter(output.JSONWithWriter(outWriter))
	case "junit":
		formatter = output.NewJUnitFormatter(output.JUnitWithWriter(outWriter))
	case "tap":
		formatter = output.NewTAPFormatter(output.TAPWithWriter(outWriter))
	case "html":
		formatter = output.NewHTMLFormatter(output.HTMLWithWriter(outWriter))
	case "console":
		rep := reporter.New(
			reporter.WithPalette(palette),
			reporter.WithBaseDir(baseDir),
			reporter.WithLogger(logging.GetLogger("reporter")),
		)
		formatter = output.NewConsoleFormatter(rep,
			output.WithWriter(outWriter),
			output.WithPalette(palette),
			output.WithQuiet(quietFlag),
		)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown output format %q (want console, json, junit, tap or html)\n", format)
		os.Exit(ExitUsageError)
	}

	// Input source: tailed file, plain file, or stdin
	var in io.Reader = cmd.InOrStdin()
	var tailDone <-chan error
	if followMode {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pr, pw := io.Pipe()
		tailer := follow.NewTailer(args[0], follow.WithLogger(logging.GetLogger("follow")))
		done := make(chan error, 1)
		go func() {
			err := tailer.Run(ctx, pw)
			pw.Close()
			done <- err
		}()
		in = pr
		tailDone = done
	} else if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	var timings *stats.Collector
	if collectTiming {
		timings = stats.NewCollector(stats.WithSlowestCap(slowest))
	}

	tally := newRunTally()
	sc := event.NewScanner(in, event.WithLogger(logging.GetLogger("scanner")))
	for sc.Scan() {
		ev := sc.Event()
		tally.observe(ev)
		if timings != nil {
			timings.Observe(ev)
		}
		formatter.FormatEvent(ev)
	}
	if err := sc.Err(); err != nil {
		formatter.FormatError(fmt.Errorf("reading event stream: %w", err))
		if outFile != nil {
			outFile.Close()
		}
		os.Exit(ExitParseError)
	}

	if tailDone != nil {
		if err := <-tailDone; err != nil {
			formatter.FormatError(err)
			if outFile != nil {
				outFile.Close()
			}
			os.Exit(ExitParseError)
		}
	}

	// Flush output for formatters that accumulate results
	if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	if timings != nil {
		report := timings.Report()
		if timingFlag || fileConfig.GetTiming() {
			if format == "console" {
				fmt.Fprint(outWriter, report.Render(palette))
			} else {
				log.Warn().Msg("--timing display is console only; use --timing-file with other formats")
			}
		}
		if timingFile != "" {
			if err := report.WriteJSON(timingFile); err != nil {
				return fmt.Errorf("error writing timing report: %w", err)
			}
		}
	}

	// Send notifications if configured
	if notifyManager != nil {
		if err := notifyManager.Notify(tally.summary(baseDir)); err != nil {
			log.Warn().Err(err).Msg("failed to send notification")
		}
	}

	if !tally.success && !exitZero {
		if outFile != nil {
			outFile.Close()
		}
		os.Exit(ExitTestFailure)
	}
	return nil
}

// buildNotifyManager assembles the notifier set from flags and config.
// A nil manager means notifications are off.
func buildNotifyManager(fileConfig *config.Config) (*notify.Manager, error) {
	slackWebhook := slackWebhookFlag
	if slackWebhook == "" {
		slackWebhook = fileConfig.SlackWebhook
	}
	teamsWebhook := teamsWebhookFlag
	if teamsWebhook == "" {
		teamsWebhook = fileConfig.TeamsWebhook
	}

	service := notifyFlag
	if service == "" && fileConfig.GetNotify() {
		var services []string
		if slackWebhook != "" {
			services = append(services, "slack")
		}
		if teamsWebhook != "" {
			services = append(services, "teams")
		}
		service = strings.Join(services, ",")
	}
	if service == "" {
		return nil, nil
	}

	notifyOn := notifyOnFlag
	if notifyOn == "" {
		notifyOn = fileConfig.NotifyOn
	}

	var notifiers []notify.Notifier
	for _, svc := range strings.Split(service, ",") {
		switch strings.ToLower(strings.TrimSpace(svc)) {
		case "slack":
			if slackWebhook == "" {
				return nil, fmt.Errorf("--slack-webhook is required when using --notify slack")
			}
			slackOpts := []notify.SlackOption{}
			if slackChannelFlag != "" {
				slackOpts = append(slackOpts, notify.WithSlackChannel(slackChannelFlag))
			}
			notifiers = append(notifiers, notify.NewSlackNotifier(slackWebhook, slackOpts...))

		case "teams":
			if teamsWebhook == "" {
				return nil, fmt.Errorf("--teams-webhook is required when using --notify teams")
			}
			notifiers = append(notifiers, notify.NewTeamsNotifier(teamsWebhook))
		}
	}
	if len(notifiers) == 0 {
		return nil, nil
	}
	return notify.NewManager(notify.NotifyOn(notifyOn), notifiers...), nil
}

// runTally folds the stream into the totals the command layer needs for
// exit codes and notifications, independent of the chosen formatter.
type runTally struct {
	stack    []string
	counters map[string]float64
	files    map[string]struct{}
	failed   []notify.FailedTest
	success  bool
}

func newRunTally() *runTally {
	return &runTally{
		counters: make(map[string]float64),
		files:    make(map[string]struct{}),
	}
}

func (t *runTally) observe(ev *event.Event) {
	d := &ev.Data
	if d.File != "" {
		t.files[d.File] = struct{}{}
	}

	switch ev.Kind {
	case event.KindStart:
		if !d.IsFileEvent() {
			t.stack = append(t.stack, d.Name)
		}
	case event.KindPass:
		if !d.IsFileEvent() {
			t.pop()
		}
	case event.KindFail:
		if d.IsFileEvent() {
			return
		}
		t.pop()
		// Parent suites fail with subtestsFailed when a child fails; the
		// child entry already covers it.
		if e := d.Details.Error; e != nil && e.FailureType == "subtestsFailed" {
			return
		}
		ft := notify.FailedTest{
			Name: strings.Join(append(append([]string(nil), t.stack...), d.Name), " → "),
			File: d.File,
			Line: d.Line,
		}
		if e := d.Details.Error; e != nil && e.Message != "" {
			ft.Errors = append(ft.Errors, e.Message)
		}
		t.failed = append(t.failed, ft)
	case event.KindDiagnostic:
		if name, value, ok := event.ParseCounter(d.Message); ok {
			t.counters[name] += value
		}
	case event.KindSummary:
		t.success = d.Success != nil && *d.Success
		for name, value := range d.Counts {
			if _, seen := t.counters[name]; !seen {
				t.counters[name] = value
			}
		}
		if _, seen := t.counters[event.CounterDurationMS]; !seen && d.Details.DurationMS != nil {
			t.counters[event.CounterDurationMS] = *d.Details.DurationMS
		}
	}
}

func (t *runTally) pop() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

func (t *runTally) summary(baseDir string) *notify.RunSummary {
	failed := make([]notify.FailedTest, len(t.failed))
	copy(failed, t.failed)
	for i := range failed {
		failed[i].File = render.RelPath(baseDir, failed[i].File)
	}

	failedCount := int(t.counters[event.CounterFail])
	if failedCount == 0 {
		failedCount = len(failed)
	}

	return &notify.RunSummary{
		TotalFiles:    len(t.files),
		TotalTests:    int(t.counters[event.CounterTests]),
		PassedTests:   int(t.counters[event.CounterPass]),
		FailedTests:   failedCount,
		SkippedTests:  int(t.counters[event.CounterSkipped]),
		TodoTests:     int(t.counters[event.CounterTodo]),
		Duration:      time.Duration(t.counters[event.CounterDurationMS] * float64(time.Millisecond)),
		Success:       t.success,
		FailedResults: failed,
	}
}
