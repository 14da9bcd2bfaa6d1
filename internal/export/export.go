// Package export runs the full pipeline: saved page in, calendar document out.
//
// Rows are scraped, reconciled into meeting patterns, expanded into
// occurrences and serialized in that order. Rows that yield no usable
// pattern are skipped and counted; a page that yields no occurrences at all
// is reported with ErrNoEvents so callers can tell it apart from a page
// that is not an enrollment page.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/workday-ics/internal/calendar"
	"github.com/pfrederiksen/workday-ics/internal/config"
	"github.com/pfrederiksen/workday-ics/internal/logger"
	"github.com/pfrederiksen/workday-ics/internal/occurrence"
	"github.com/pfrederiksen/workday-ics/internal/reconcile"
	"github.com/pfrederiksen/workday-ics/internal/scraper"
	"github.com/pfrederiksen/workday-ics/internal/storage"
)

var (
	// ErrStructureNotFound means the page has no enrolled-courses table.
	ErrStructureNotFound = errors.New("could not find the 'My Enrolled Courses' table")
	// ErrNoEvents means the table was found but no row produced a meeting.
	ErrNoEvents = errors.New("no class meetings found to export; make sure the table is visible and expanded")
)

// Metric names recorded by Run.
const (
	MetricRowsTotal   = "rows.total"
	MetricRowsSkipped = "rows.skipped"
	MetricOccurrences = "occurrences.total"
	MetricDuration    = "export.duration"
	// MetricEventsPerRow is the average event count of the rows that were
	// exported.
	MetricEventsPerRow = "occurrences.per_row"
)

// Result is the outcome of one export run.
type Result struct {
	RunID       string                  `json:"run_id"`
	Term        string                  `json:"term,omitempty"`
	FileName    string                  `json:"file_name"`
	Rows        int                     `json:"rows"`
	SkippedRows int                     `json:"skipped_rows"`
	Occurrences []occurrence.Occurrence `json:"-"`
	EventCount  int                     `json:"event_count"`
	// Verified is the event count confirmed by re-parsing the document, or
	// zero when verification was not requested.
	Verified int    `json:"verified,omitempty"`
	ICS      string `json:"-"`
}

// Options configures an Exporter.
type Options struct {
	Config *config.Config
	// Now is the clock for default date ranges and DTSTAMP. Defaults to
	// time.Now.
	Now func() time.Time
	// Verify re-parses the generated document before it is returned.
	Verify bool
	// Chronological orders events by start time across all rows instead of
	// row by row.
	Chronological bool
}

// Exporter turns saved enrollment pages into calendars.
type Exporter struct {
	cfg           *config.Config
	now           func() time.Time
	verify        bool
	chronological bool
}

// New creates an Exporter. A nil Config means defaults.
func New(opts Options) *Exporter {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Exporter{
		cfg:           cfg,
		now:           now,
		verify:        opts.Verify,
		chronological: opts.Chronological,
	}
}

// Run reads one HTML page and builds its calendar. It returns an error
// wrapping ErrStructureNotFound when the table is missing and ErrNoEvents
// when nothing could be exported.
func (e *Exporter) Run(r io.Reader) (*Result, error) {
	logger.ResetMetrics()
	started := time.Now()
	runID := uuid.NewString()

	page, err := scraper.New(e.cfg.ScraperOptions()).Parse(r)
	if err != nil {
		if errors.Is(err, scraper.ErrTableNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrStructureNotFound, err)
		}
		return nil, fmt.Errorf("reading page: %w", err)
	}

	res := &Result{
		RunID:    runID,
		Term:     page.Term,
		FileName: FileName(page.Term),
		Rows:     len(page.Rows),
	}

	occOpts := e.cfg.OccurrenceOptions(e.now)
	for i, row := range page.Rows {
		logger.IncrCounter(MetricRowsTotal)

		resolved := reconcile.Resolve(row, e.cfg.DefaultTitle)
		if len(resolved.Patterns) == 0 {
			res.SkippedRows++
			logger.IncrCounter(MetricRowsSkipped)
			logger.Debug("Row skipped", logger.Fields{
				"run_id": runID,
				"row":    i,
				"title":  resolved.Title,
			})
			continue
		}

		for _, p := range resolved.Patterns {
			res.Occurrences = append(res.Occurrences, occurrence.Expand(p, resolved.Title, occOpts)...)
		}
	}

	res.EventCount = len(res.Occurrences)
	logger.AddCounter(MetricOccurrences, int64(res.EventCount))

	if res.EventCount == 0 {
		logger.Warn("No class meetings found", logger.Fields{
			"run_id": runID,
			"rows":   res.Rows,
		})
		return res, ErrNoEvents
	}
	logger.SetGauge(MetricEventsPerRow, float64(res.EventCount)/float64(res.Rows-res.SkippedRows))

	if e.chronological {
		occurrence.Sort(res.Occurrences)
	}
	res.ICS = calendar.Generate(res.Occurrences, e.cfg.CalendarOptions(e.now))

	if e.verify {
		n, err := calendar.Verify(res.ICS, e.cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("verifying calendar: %w", err)
		}
		res.Verified = n
	}

	duration := time.Since(started)
	logger.RecordTiming(MetricDuration, duration)
	logger.Info("Export finished", logger.Fields{
		"run_id":       runID,
		"term":         res.Term,
		"rows":         res.Rows,
		"skipped_rows": res.SkippedRows,
		"events":       res.EventCount,
		"duration_ms":  duration.Milliseconds(),
	})

	return res, nil
}

// Save writes the calendar into dir under name, or under res.FileName when
// name is empty, and returns the written path.
func Save(res *Result, dir, name string) (string, error) {
	if res == nil || res.ICS == "" {
		return "", ErrNoEvents
	}
	if name == "" {
		name = res.FileName
	}

	store, err := storage.New(dir)
	if err != nil {
		return "", err
	}
	logger.Debug("Saving calendar", logger.Fields{
		"run_id": res.RunID,
		"dir":    store.Dir(),
		"file":   name,
	})
	return store.WriteFile(name, []byte(res.ICS))
}

// FileName is the download name for a term: "ISU-Fall 2025.ics", or
// "ISU-courses.ics" when the term is unknown.
func FileName(term string) string {
	if term == "" {
		term = "courses"
	}
	return "ISU-" + term + ".ics"
}
