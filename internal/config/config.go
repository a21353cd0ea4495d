// Package config loads fightcal settings from an optional YAML file, layers FIGHTCAL_*
// environment overrides on top and converts the result into the pipeline configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/fightcal/internal/publish"
	"github.com/pfrederiksen/fightcal/internal/schedule"
	"github.com/pfrederiksen/fightcal/internal/scraper"
	"github.com/pfrederiksen/fightcal/internal/storage"
)

const envPrefix = "FIGHTCAL_"

// Defaults for the calendar artifact.
const (
	DefaultOutput       = "boxing_schedule.ics"
	DefaultCalendarName = "Boxing Schedule"
	DefaultComment      = "Event data sourced from Boxing247.com"
	DefaultCacheControl = "public, max-age=3600"
)

type S3 struct {
	Bucket       string `yaml:"bucket"`
	Key          string `yaml:"key"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	CacheControl string `yaml:"cache_control"`
}

type Config struct {
	SourceURL  string        `yaml:"source_url"`
	UserAgent  string        `yaml:"user_agent"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries *int          `yaml:"max_retries"`

	CanonicalZone string              `yaml:"canonical_zone"`
	DefaultHour   *int                `yaml:"default_hour"`
	Duration      time.Duration       `yaml:"duration"`
	Namespace     string              `yaml:"namespace"`
	SourceLabel   *string             `yaml:"source_label"`
	Markers       []string            `yaml:"markers"`
	RequireMarker bool                `yaml:"require_marker"`
	Separators    []string            `yaml:"separators"`
	Zones         []schedule.ZoneRule `yaml:"zones"`
	TimeRules     []schedule.TimeRule `yaml:"time_rules"`

	DataDir         string `yaml:"data_dir"`
	Output          string `yaml:"output"`
	CalendarName    string `yaml:"calendar_name"`
	CalendarComment string `yaml:"calendar_comment"`
	S3              S3     `yaml:"s3"`
	MetricsFile     string `yaml:"metrics_file"`
	LogLevel        string `yaml:"log_level"`
}

// Load reads path (when non-empty), applies environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.SourceURL == "" {
		c.SourceURL = scraper.ScheduleURL
	}
	if c.UserAgent == "" {
		c.UserAgent = scraper.UserAgent
	}
	if c.Timeout == 0 {
		c.Timeout = scraper.Timeout
	}
	if c.MaxRetries == nil {
		n := scraper.MaxRetries
		c.MaxRetries = &n
	}
	if c.CanonicalZone == "" {
		c.CanonicalZone = schedule.DefaultZone
	}
	if c.DefaultHour == nil {
		h := schedule.DefaultHour
		c.DefaultHour = &h
	}
	if c.Duration == 0 {
		c.Duration = schedule.DefaultDuration
	}
	if c.Namespace == "" {
		c.Namespace = schedule.DefaultNamespace
	}
	if c.SourceLabel == nil {
		label := schedule.DefaultSourceLabel
		c.SourceLabel = &label
	}
	if len(c.Markers) == 0 {
		c.Markers = []string{schedule.DefaultMarker}
	}
	if len(c.Separators) == 0 {
		c.Separators = schedule.DefaultSeparators()
	}
	if len(c.Zones) == 0 {
		c.Zones = schedule.DefaultZoneTable().Rules()
	}
	if len(c.TimeRules) == 0 {
		c.TimeRules = schedule.DefaultTimeRules()
	}
	if c.DataDir == "" {
		c.DataDir = storage.DefaultDataDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.CalendarName == "" {
		c.CalendarName = DefaultCalendarName
	}
	if c.CalendarComment == "" {
		c.CalendarComment = DefaultComment
	}
	if c.S3.CacheControl == "" {
		c.S3.CacheControl = DefaultCacheControl
	}
	if c.S3.Key == "" {
		c.S3.Key = c.Output
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// applyEnv overrides scalar settings from FIGHTCAL_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("SOURCE_URL", &c.SourceURL)
	str("USER_AGENT", &c.UserAgent)
	str("CANONICAL_ZONE", &c.CanonicalZone)
	str("NAMESPACE", &c.Namespace)
	str("DATA_DIR", &c.DataDir)
	str("OUTPUT", &c.Output)
	str("CALENDAR_NAME", &c.CalendarName)
	str("S3_BUCKET", &c.S3.Bucket)
	str("S3_KEY", &c.S3.Key)
	str("S3_REGION", &c.S3.Region)
	str("S3_ENDPOINT", &c.S3.Endpoint)
	str("METRICS_FILE", &c.MetricsFile)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup(envPrefix + "SOURCE_LABEL"); ok {
		c.SourceLabel = &v
	}
	if v, ok := lookup(envPrefix + "MARKERS"); ok && v != "" {
		c.Markers = splitList(v)
	}

	for name, dst := range map[string]*time.Duration{"TIMEOUT": &c.Timeout, "DURATION": &c.Duration} {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = d
		}
	}

	for name, dst := range map[string]**int{"MAX_RETRIES": &c.MaxRetries, "DEFAULT_HOUR": &c.DefaultHour} {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = &n
		}
	}

	if v, ok := lookup(envPrefix + "REQUIRE_MARKER"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sREQUIRE_MARKER: %w", envPrefix, err)
		}
		c.RequireMarker = b
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.CanonicalZone); err != nil {
		return fmt.Errorf("canonical_zone %q: %w", c.CanonicalZone, err)
	}
	for _, z := range c.Zones {
		if strings.TrimSpace(z.Keyword) == "" {
			return fmt.Errorf("zone rule for %q has an empty keyword", z.Zone)
		}
		if _, err := time.LoadLocation(z.Zone); err != nil {
			return fmt.Errorf("zone %q for %q: %w", z.Zone, z.Keyword, err)
		}
	}
	if c.DefaultHour != nil && (*c.DefaultHour < 0 || *c.DefaultHour > 23) {
		return fmt.Errorf("default_hour %d out of range 0-23", *c.DefaultHour)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}

// ScheduleConfig converts the settings into a pipeline configuration.
func (c *Config) ScheduleConfig(sourceURL string) schedule.Config {
	cfg := schedule.DefaultConfig()
	cfg.Zone = c.CanonicalZone
	if c.DefaultHour != nil {
		cfg.DefaultHour = *c.DefaultHour
	}
	cfg.Duration = c.Duration
	cfg.Namespace = c.Namespace
	if c.SourceLabel != nil {
		cfg.SourceLabel = *c.SourceLabel
	}
	cfg.SourceURL = sourceURL
	cfg.Markers = c.Markers
	cfg.RequireMarker = c.RequireMarker
	cfg.Separators = c.Separators
	cfg.Zones = schedule.NewZoneTable(c.Zones)
	cfg.TimeRules = c.TimeRules
	return cfg
}

// ScraperConfig converts the fetch settings.
func (c *Config) ScraperConfig() scraper.Config {
	cfg := scraper.Config{
		URL:       c.SourceURL,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
	}
	if c.MaxRetries != nil {
		cfg.MaxRetries = *c.MaxRetries
	}
	return cfg
}

// PublishConfig converts the S3 settings.
func (c *Config) PublishConfig() publish.S3Config {
	return publish.S3Config{
		Bucket:       c.S3.Bucket,
		Region:       c.S3.Region,
		Endpoint:     c.S3.Endpoint,
		CacheControl: c.S3.CacheControl,
	}
}
