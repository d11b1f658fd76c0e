// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/codr1/openhours/internal/hours"
)

const (
	DefaultBusinessTimezone = "America/New_York"
	DefaultRefreshInterval  = 30 * time.Second
	DefaultHistoryRetention = 500
	DefaultRateLimit        = 60
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver" validate:"required,oneof=sqlite"`
	Filename string `yaml:"filename" validate:"required"`
}

// DayHoursConfig is one weekday entry. Closed, or both times empty, means
// closed all day.
type DayHoursConfig struct {
	OpensAt  string `yaml:"opens_at"`
	ClosesAt string `yaml:"closes_at"`
	Closed   bool   `yaml:"closed"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name" validate:"required"`
		Environment string `yaml:"environment" validate:"omitempty,oneof=development staging production"`
		Port        int    `yaml:"port" validate:"required,min=1,max=65535"`
		BaseURL     string `yaml:"base_url" validate:"omitempty,url"`
		StaticDir   string `yaml:"static_dir"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Business struct {
		Name     string                    `yaml:"name" validate:"required,max=200"`
		Address  string                    `yaml:"address"`
		Timezone string                    `yaml:"timezone"`
		Hours    map[string]DayHoursConfig `yaml:"hours"`
	} `yaml:"business"`

	Viewer struct {
		// DefaultTimezone applies when a request names no zone. Empty means
		// the server's own zone.
		DefaultTimezone string `yaml:"default_timezone"`
	} `yaml:"viewer"`

	Refresh struct {
		Interval time.Duration `yaml:"interval" validate:"gte=0"`
	} `yaml:"refresh"`

	History struct {
		Retention int `yaml:"retention" validate:"gte=0"`
	} `yaml:"history"`

	RateLimit struct {
		// PerMinute caps live connections and calendar downloads per client.
		PerMinute  int  `yaml:"per_minute" validate:"gte=0"`
		TrustProxy bool `yaml:"trust_proxy"`
	} `yaml:"rate_limit"`

	UI struct {
		ThemesFile   string `yaml:"themes_file"`
		DefaultTheme string `yaml:"default_theme"`
	} `yaml:"ui"`

	businessLocation *time.Location
	viewerLocation   *time.Location
	schedule         hours.WeeklySchedule
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and
// defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.applyEnvironment()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnvironment() {
	if tz := strings.TrimSpace(os.Getenv("BUSINESS_TIMEZONE")); tz != "" {
		c.Business.Timezone = tz
	}
	if tz := strings.TrimSpace(os.Getenv("VIEWER_TIMEZONE")); tz != "" {
		c.Viewer.DefaultTimezone = tz
	}
	if path := strings.TrimSpace(os.Getenv("DATABASE_FILENAME")); path != "" {
		c.Database.Filename = path
	}
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Business.Timezone == "" {
		c.Business.Timezone = DefaultBusinessTimezone
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = DefaultRefreshInterval
	}
	if c.History.Retention == 0 {
		c.History.Retention = DefaultHistoryRetention
	}
	if c.RateLimit.PerMinute == 0 {
		c.RateLimit.PerMinute = DefaultRateLimit
	}
}

var validate = validator.New()

// Validate checks field constraints and resolves timezones and the weekly
// schedule. Unknown timezone names are reported here, once, rather than at
// evaluation time.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return describeValidation(err)
	}

	businessLoc, err := time.LoadLocation(c.Business.Timezone)
	if err != nil {
		return fmt.Errorf("business timezone %q: %w", c.Business.Timezone, err)
	}
	c.businessLocation = businessLoc

	c.viewerLocation = time.Local
	if c.Viewer.DefaultTimezone != "" {
		viewerLoc, err := time.LoadLocation(c.Viewer.DefaultTimezone)
		if err != nil {
			return fmt.Errorf("viewer default timezone %q: %w", c.Viewer.DefaultTimezone, err)
		}
		c.viewerLocation = viewerLoc
	}

	schedule, err := buildSchedule(c.Business.Hours)
	if err != nil {
		return err
	}
	c.schedule = schedule
	return nil
}

// BusinessLocation is the zone the schedule is authored in.
func (c *Config) BusinessLocation() *time.Location {
	return c.businessLocation
}

// ViewerLocation is the fallback display zone.
func (c *Config) ViewerLocation() *time.Location {
	return c.viewerLocation
}

// Schedule is the validated weekly schedule. When no hours are configured
// the standard Monday-Saturday 07:30-18:00 schedule applies.
func (c *Config) Schedule() hours.WeeklySchedule {
	return c.schedule
}

func buildSchedule(entries map[string]DayHoursConfig) (hours.WeeklySchedule, error) {
	if len(entries) == 0 {
		return hours.StandardSchedule(), nil
	}

	var schedule hours.WeeklySchedule
	seen := make(map[time.Weekday]string, len(entries))
	for name, entry := range entries {
		day, err := hours.ParseWeekday(name)
		if err != nil {
			return schedule, fmt.Errorf("business.hours: %w", err)
		}
		if previous, ok := seen[day]; ok {
			return schedule, fmt.Errorf("business.hours: %q and %q both name %s", previous, name, day)
		}
		seen[day] = name

		opensRaw := strings.TrimSpace(entry.OpensAt)
		closesRaw := strings.TrimSpace(entry.ClosesAt)
		if entry.Closed || (opensRaw == "" && closesRaw == "") {
			continue
		}

		opens, err := hours.ParseClockTime(opensRaw)
		if err != nil {
			return schedule, fmt.Errorf("business.hours.%s.opens_at: %w", name, err)
		}
		closes, err := hours.ParseClockTime(closesRaw)
		if err != nil {
			return schedule, fmt.Errorf("business.hours.%s.closes_at: %w", name, err)
		}
		rule := hours.DayRule{Open: opens, Close: closes}
		if err := rule.Validate(); err != nil {
			return schedule, fmt.Errorf("business.hours.%s: %w", name, err)
		}
		schedule.Set(day, &rule)
	}
	return schedule, nil
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		field := strings.TrimPrefix(fieldErr.Namespace(), "Config.")
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", field, fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s=%s", field, fieldErr.Tag(), fieldErr.Param()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
