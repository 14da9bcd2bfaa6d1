// Package config loads workday-ics settings from an optional YAML file and
// WORKDAY_ICS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/workday-ics/internal/calendar"
	"github.com/pfrederiksen/workday-ics/internal/logger"
	"github.com/pfrederiksen/workday-ics/internal/occurrence"
	"github.com/pfrederiksen/workday-ics/internal/reconcile"
	"github.com/pfrederiksen/workday-ics/internal/scraper"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvTimezone      = "WORKDAY_ICS_TIMEZONE"
	EnvProdID        = "WORKDAY_ICS_PRODID"
	EnvSemesterWeeks = "WORKDAY_ICS_SEMESTER_WEEKS"
	EnvLogLevel      = "WORKDAY_ICS_LOG_LEVEL"
)

// MetadataIDs are the data-metadata-id values of the enrollment table cells.
type MetadataIDs struct {
	Course          string `yaml:"course" json:"course"`
	MeetingPatterns string `yaml:"meeting_patterns" json:"meeting_patterns"`
	StartDate       string `yaml:"start_date" json:"start_date"`
	EndDate         string `yaml:"end_date" json:"end_date"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the TZID written on every DTSTART/DTEND. It is embedded
	// as-is; no timezone database lookup happens.
	Timezone string `yaml:"timezone" json:"timezone"`

	ProdID       string `yaml:"prod_id" json:"prod_id"`
	UIDPrefix    string `yaml:"uid_prefix" json:"uid_prefix"`
	UIDDomain    string `yaml:"uid_domain" json:"uid_domain"`
	CalendarName string `yaml:"calendar_name,omitempty" json:"calendar_name,omitempty"`

	// SemesterWeeks is the length of the assumed range when a meeting has no
	// end date.
	SemesterWeeks int `yaml:"semester_weeks" json:"semester_weeks"`
	// FallbackMinutes is the event length used when a meeting ends at or
	// before its start.
	FallbackMinutes int `yaml:"fallback_minutes" json:"fallback_minutes"`
	// MaxWeeks caps how far a single meeting pattern is expanded.
	MaxWeeks int `yaml:"max_weeks" json:"max_weeks"`

	// DefaultTitle names events whose row exposes no course title.
	DefaultTitle string `yaml:"default_title" json:"default_title"`

	TableCaption string      `yaml:"table_caption" json:"table_caption"`
	MetadataIDs  MetadataIDs `yaml:"metadata_ids" json:"metadata_ids"`

	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:        calendar.DefaultTZID,
		ProdID:          calendar.DefaultProdID,
		UIDPrefix:       calendar.DefaultUIDPrefix,
		UIDDomain:       calendar.DefaultUIDDomain,
		SemesterWeeks:   occurrence.DefaultSemesterWeeks,
		FallbackMinutes: int(occurrence.DefaultFallbackDuration / time.Minute),
		MaxWeeks:        occurrence.DefaultMaxWeeks,
		DefaultTitle:    reconcile.DefaultTitle,
		TableCaption:    scraper.DefaultCaption,
		MetadataIDs: MetadataIDs{
			Course:          scraper.DefaultCourseID,
			MeetingPatterns: scraper.DefaultMeetingPatternsID,
			StartDate:       scraper.DefaultStartDateID,
			EndDate:         scraper.DefaultEndDateID,
		},
		LogLevel: string(logger.LevelInfo),
	}
}

// Normalize fills in missing or invalid values with defaults so that
// partially filled files still behave correctly.
func (c *Config) Normalize() {
	d := DefaultConfig()

	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.ProdID == "" {
		c.ProdID = d.ProdID
	}
	if c.UIDPrefix == "" {
		c.UIDPrefix = d.UIDPrefix
	}
	if c.UIDDomain == "" {
		c.UIDDomain = d.UIDDomain
	}
	if c.SemesterWeeks <= 0 {
		c.SemesterWeeks = d.SemesterWeeks
	}
	if c.FallbackMinutes <= 0 {
		c.FallbackMinutes = d.FallbackMinutes
	}
	if c.MaxWeeks <= 0 {
		c.MaxWeeks = d.MaxWeeks
	}
	if c.DefaultTitle == "" {
		c.DefaultTitle = d.DefaultTitle
	}
	if c.TableCaption == "" {
		c.TableCaption = d.TableCaption
	}
	if c.MetadataIDs.Course == "" {
		c.MetadataIDs.Course = d.MetadataIDs.Course
	}
	if c.MetadataIDs.MeetingPatterns == "" {
		c.MetadataIDs.MeetingPatterns = d.MetadataIDs.MeetingPatterns
	}
	if c.MetadataIDs.StartDate == "" {
		c.MetadataIDs.StartDate = d.MetadataIDs.StartDate
	}
	if c.MetadataIDs.EndDate == "" {
		c.MetadataIDs.EndDate = d.MetadataIDs.EndDate
	}

	// Unknown level names fall back to INFO.
	level, _ := logger.ParseLevel(c.LogLevel)
	c.LogLevel = string(level)
}

// Load reads configuration from the given YAML path. An empty path or a
// missing file yields the defaults; the file is never created.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// ApplyEnv overrides fields from WORKDAY_ICS_* environment variables. Unset
// or empty variables leave the field alone.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup(EnvTimezone); ok {
		c.Timezone = v
	}
	if v, ok := lookup(EnvProdID); ok {
		c.ProdID = v
	}
	if v, ok := lookup(EnvSemesterWeeks); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvSemesterWeeks, v)
		}
		c.SemesterWeeks = n
	}
	if v, ok := lookup(EnvLogLevel); ok {
		level, known := logger.ParseLevel(v)
		if !known {
			return fmt.Errorf("%s: unknown log level %q", EnvLogLevel, v)
		}
		c.LogLevel = string(level)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// ScraperOptions addresses the enrollment table.
func (c *Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		Caption:           c.TableCaption,
		CourseID:          c.MetadataIDs.Course,
		MeetingPatternsID: c.MetadataIDs.MeetingPatterns,
		StartDateID:       c.MetadataIDs.StartDate,
		EndDateID:         c.MetadataIDs.EndDate,
	}
}

// OccurrenceOptions configures expansion. now may be nil for the wall clock.
func (c *Config) OccurrenceOptions(now func() time.Time) occurrence.Options {
	return occurrence.Options{
		Now:              now,
		SemesterWeeks:    c.SemesterWeeks,
		FallbackDuration: time.Duration(c.FallbackMinutes) * time.Minute,
		MaxWeeks:         c.MaxWeeks,
	}
}

// CalendarOptions configures serialization. now may be nil for the wall clock.
func (c *Config) CalendarOptions(now func() time.Time) calendar.Options {
	return calendar.Options{
		TZID:         c.Timezone,
		ProdID:       c.ProdID,
		UIDPrefix:    c.UIDPrefix,
		UIDDomain:    c.UIDDomain,
		CalendarName: c.CalendarName,
		Now:          now,
	}
}
