package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/workday-ics/internal/calendar"
	"github.com/pfrederiksen/workday-ics/internal/config"
	"github.com/pfrederiksen/workday-ics/internal/export"
	"github.com/pfrederiksen/workday-ics/internal/logger"
	"github.com/pfrederiksen/workday-ics/internal/schedule"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNoEvents = 2
)

// stdinName selects standard input or output instead of a file.
const stdinName = "-"

type exportFlags struct {
	input         string
	output        string
	outputDir     string
	configPath    string
	timezone      string
	calendarName  string
	format        string
	verify        bool
	chronological bool
	verbose       bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workday-ics",
		Short: "Export ISU Workday class schedules to iCalendar",
		Long: `A CLI tool that reads a saved "My Enrolled Courses" page from the ISU
Workday portal and writes every class meeting of the term to an .ics file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newExportCmd(), newParseCmd(), newInspectCmd())

	return cmd
}

func newExportCmd() *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a saved enrollment page into an .ics file",
		Long: `Reads the saved HTML of the Workday "View My Courses" page, finds the
"My Enrolled Courses" table and writes one calendar event per class meeting.

Exits with code 2 when the table holds no exportable meetings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Saved HTML page, or '-' for stdin (required)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file, or '-' for stdout (default: ISU-<term>.ics)")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", ".", "Directory for the output file")
	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "TZID for event times (default: America/Chicago)")
	cmd.Flags().StringVar(&f.calendarName, "calendar-name", "", "Calendar display name (X-WR-CALNAME)")
	cmd.Flags().StringVar(&f.format, "format", "text", "Summary format: text or json")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "Re-parse the generated calendar before writing it")
	cmd.Flags().BoolVar(&f.chronological, "chronological", false, "Order events by start time instead of by course")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Enable verbose logging")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// runExport is the main command logic
func runExport(cmd *cobra.Command, f exportFlags) error {
	format, err := ParseFormat(f.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	if f.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	in, closeIn, err := openInput(cmd, f.input)
	if err != nil {
		return err
	}
	defer closeIn()

	exp := export.New(export.Options{
		Config:        cfg,
		Verify:        f.verify,
		Chronological: f.chronological,
	})
	res, err := exp.Run(in)
	if err != nil {
		return err
	}

	if f.output == stdinName {
		_, err := io.WriteString(cmd.OutOrStdout(), res.ICS)
		if err == nil && f.verbose {
			err = writeMetrics(cmd.ErrOrStderr())
		}
		return err
	}

	dir, name := outputTarget(f.output, f.outputDir)
	path, err := export.Save(res, dir, name)
	if err != nil {
		return fmt.Errorf("saving calendar: %w", err)
	}

	result := &ExportOutput{Result: res, Path: path}
	if err := WriteExport(cmd.OutOrStdout(), result, format, f.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if f.verbose {
		return writeMetrics(cmd.ErrOrStderr())
	}
	return nil
}

// loadConfig layers the config file, WORKDAY_ICS_* variables and flags.
func loadConfig(f exportFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if f.timezone != "" {
		cfg.Timezone = f.timezone
	}
	if f.calendarName != "" {
		cfg.CalendarName = f.calendarName
	}
	cfg.Normalize()
	return cfg, nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == stdinName {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return file, func() { file.Close() }, nil
}

// outputTarget splits --output into a directory and file name. A bare file
// name is placed in outputDir; an empty output lets the export pick the name.
func outputTarget(output, outputDir string) (dir, name string) {
	if output == "" {
		return outputDir, ""
	}
	if strings.ContainsRune(output, filepath.Separator) || strings.ContainsRune(output, '/') {
		return filepath.Dir(output), filepath.Base(output)
	}
	return outputDir, output
}

func newParseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse FRAGMENT...",
		Short: "Show how meeting-pattern text is understood",
		Example: `  workday-ics parse "MWF | 12:05 PM - 12:55 PM | Howe Hall 1244"
  workday-ics parse --format json "TuTh 9:30 AM - 10:45 AM"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ParseFormat(format)
			if err != nil {
				return err
			}

			results := make([]ParseOutput, 0, len(args))
			for _, fragment := range args {
				p := schedule.Parse(fragment)
				results = append(results, ParseOutput{
					Fragment: fragment,
					Pattern:  p,
					Usable:   p.Usable(),
				})
			}
			return WriteParse(cmd.OutOrStdout(), results, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func newInspectCmd() *cobra.Command {
	var (
		format string
		order  string
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "List the events of an .ics file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ParseFormat(format)
			if err != nil {
				return err
			}
			sortOrder, err := ParseSortOrder(order)
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeIn()

			events, err := calendar.Inspect(in)
			if err != nil {
				return fmt.Errorf("inspecting %s: %w", args[0], err)
			}
			sortEvents(events, sortOrder)

			return WriteEvents(cmd.OutOrStdout(), events, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&order, "sort", string(SortDocument), "Sort order: document, start or title")

	return cmd
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, export.ErrNoEvents):
		return ExitNoEvents
	default:
		return ExitError
	}
}

// Run executes the CLI with args and returns the exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// Execute runs the CLI
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
