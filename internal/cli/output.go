package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/workday-ics/internal/calendar"
	"github.com/pfrederiksen/workday-ics/internal/export"
	"github.com/pfrederiksen/workday-ics/internal/logger"
	"github.com/pfrederiksen/workday-ics/internal/schedule"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// ExportOutput is the summary of a finished export.
type ExportOutput struct {
	*export.Result
	Path string `json:"path"`
}

// ParseOutput is one parsed fragment.
type ParseOutput struct {
	Fragment string                  `json:"fragment"`
	Pattern  schedule.MeetingPattern `json:"pattern"`
	Usable   bool                    `json:"usable"`
}

// WriteExport writes the export summary in the specified format
func WriteExport(w io.Writer, out *ExportOutput, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, out)
	case FormatText:
		fmt.Fprintf(w, "Exported %d events to %s\n", out.EventCount, out.Path)
		if out.SkippedRows > 0 {
			fmt.Fprintf(w, "Skipped %d of %d rows without a meeting pattern\n", out.SkippedRows, out.Rows)
		}
		if out.Verified > 0 {
			fmt.Fprintf(w, "Verified %d events\n", out.Verified)
		}
		if verbose {
			fmt.Fprintf(w, "Run ID: %s\n", out.RunID)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteParse writes parsed fragments in the specified format
func WriteParse(w io.Writer, results []ParseOutput, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatText:
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writePatternText(w, r)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writePatternText(w io.Writer, r ParseOutput) {
	p := r.Pattern
	fmt.Fprintf(w, "%s\n", r.Fragment)

	days := make([]string, 0, len(p.Days))
	for _, d := range p.Days {
		days = append(days, string(d))
	}
	fmt.Fprintf(w, "  Days:     %s\n", orNone(strings.Join(days, ",")))

	times := ""
	if p.Times != nil {
		times = p.Times.Start.String() + "-" + p.Times.End.String()
	}
	fmt.Fprintf(w, "  Times:    %s\n", orNone(times))
	fmt.Fprintf(w, "  Location: %s\n", orNone(p.Location))

	if p.Dates.HasStart() || p.Dates.HasEnd() {
		fmt.Fprintf(w, "  Dates:    %s - %s\n", formatDate(p.Dates.HasStart(), p.Dates.Start.Format("2006-01-02")),
			formatDate(p.Dates.HasEnd(), p.Dates.End.Format("2006-01-02")))
	}

	if !r.Usable {
		fmt.Fprintln(w, "  (not usable: needs both days and times)")
	}
}

// WriteEvents writes calendar event summaries in the specified format
func WriteEvents(w io.Writer, events []calendar.EventSummary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, events)
	case FormatText:
		if len(events) == 0 {
			fmt.Fprintln(w, "No events found.")
			return nil
		}
		for _, ev := range events {
			fmt.Fprintf(w, "%s %s-%s  %s", day(ev.Start), clock(ev.Start), clock(ev.End), ev.Title)
			if ev.Location != "" {
				fmt.Fprintf(w, " @ %s", ev.Location)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeMetrics prints the metrics snapshot of the last run.
func writeMetrics(w io.Writer) error {
	fmt.Fprintln(w, "Metrics:")
	return writeJSON(w, logger.GetMetricsSnapshot())
}

// day formats the date part of an ICS date-time value as YYYY-MM-DD.
func day(value string) string {
	if len(value) < 8 {
		return value
	}
	return value[0:4] + "-" + value[4:6] + "-" + value[6:8]
}

// clock extracts HH:MM from an ICS date-time value.
func clock(value string) string {
	i := strings.IndexByte(value, 'T')
	if i < 0 || len(value) < i+5 {
		return "--:--"
	}
	return value[i+1:i+3] + ":" + value[i+3:i+5]
}

func formatDate(ok bool, s string) string {
	if !ok {
		return "?"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
