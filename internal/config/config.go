package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when no --config flag is given.
const DefaultPath = "config/config.json"

const (
	BackendOutlook = "outlook"
	BackendCalDAV  = "caldav"

	DSTModeZoned  = "zoned"
	DSTModeLegacy = "legacy"

	defaultAPIBaseURL     = "https://outlook.office365.com/api/v1.0"
	defaultCalDAVHomeSet  = "/calendars/{owner}/"
	defaultRequestTimeout = 30
)

// Environment variables that override values from the config file.
const (
	EnvUsername    = "BATCHCAL_USERNAME"
	EnvPassword    = "BATCHCAL_PASSWORD"
	EnvScheduleCSV = "BATCHCAL_SCHEDULE_CSV"
)

// Config is the application configuration.
type Config struct {
	// ScheduleCSV is the path of the spreadsheet with event definitions.
	ScheduleCSV string `json:"schedule_csv_filepath" yaml:"schedule_csv_filepath" toml:"schedule_csv_filepath"`

	// Username and Password are sent as HTTP Basic credentials on every call.
	Username string `json:"username" yaml:"username" toml:"username"`
	Password string `json:"password" yaml:"password" toml:"password"`

	// O365TimeZone is passed through as StartTimeZone/EndTimeZone
	// (e.g. "Eastern Standard Time").
	O365TimeZone string `json:"o365_timezone" yaml:"o365_timezone" toml:"o365_timezone"`

	// LocalTimeZone is the IANA zone the spreadsheet times are written in.
	// If empty it is derived from O365TimeZone, then from the process zone.
	LocalTimeZone string `json:"local_timezone" yaml:"local_timezone" toml:"local_timezone"`

	// DSTMode selects the UTC conversion: "zoned" (default) or "legacy".
	DSTMode string `json:"dst_mode" yaml:"dst_mode" toml:"dst_mode"`

	Backend        string `json:"backend" yaml:"backend" toml:"backend"`
	APIBaseURL     string `json:"api_base_url" yaml:"api_base_url" toml:"api_base_url"`
	CalDAVEndpoint string `json:"caldav_endpoint" yaml:"caldav_endpoint" toml:"caldav_endpoint"`
	// CalDAVHomeSet is the calendar home set path; "{owner}" is replaced by the row's calendar owner.
	CalDAVHomeSet string `json:"caldav_home_set" yaml:"caldav_home_set" toml:"caldav_home_set"`

	// CalendarName picks the owner's calendar by display name. Empty means the
	// first calendar listed for the owner.
	CalendarName string `json:"calendar_name" yaml:"calendar_name" toml:"calendar_name"`

	// Workers bounds how many owners are processed at once. 0 or 1 runs sequentially.
	Workers int `json:"workers" yaml:"workers" toml:"workers"`

	RequestTimeoutSeconds int `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
}

// Normalize fills in defaults for values left empty.
func (c *Config) Normalize() {
	if c.Backend == "" {
		c.Backend = BackendOutlook
	}
	c.Backend = strings.ToLower(c.Backend)
	if c.DSTMode == "" {
		c.DSTMode = DSTModeZoned
	}
	c.DSTMode = strings.ToLower(c.DSTMode)
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	c.APIBaseURL = strings.TrimSuffix(c.APIBaseURL, "/")
	if c.CalDAVHomeSet == "" {
		c.CalDAVHomeSet = defaultCalDAVHomeSet
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultRequestTimeout
	}
}

// Validate reports the first missing or invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.ScheduleCSV == "":
		return errors.New("schedule_csv_filepath is required")
	case c.Username == "":
		return errors.New("username is required")
	case c.Password == "":
		return errors.New("password is required")
	case c.O365TimeZone == "":
		return errors.New("o365_timezone is required")
	}

	switch c.Backend {
	case BackendOutlook:
	case BackendCalDAV:
		if c.CalDAVEndpoint == "" {
			return errors.New("caldav_endpoint is required when backend is caldav")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	switch c.DSTMode {
	case DSTModeZoned, DSTModeLegacy:
	default:
		return fmt.Errorf("unknown dst_mode %q", c.DSTMode)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Location resolves the zone spreadsheet times are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	if c.LocalTimeZone != "" {
		loc, err := time.LoadLocation(c.LocalTimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid local_timezone '%s': %w", c.LocalTimeZone, err)
		}
		return loc, nil
	}
	if name, ok := windowsZones[c.O365TimeZone]; ok {
		return time.LoadLocation(name)
	}
	if loc, err := time.LoadLocation(c.O365TimeZone); err == nil && c.O365TimeZone != "" {
		return loc, nil
	}
	return time.Local, nil
}

// Load reads the config file at path, applies environment overrides and
// defaults, and validates the result. The format is chosen by file extension.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvUsername); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Password = v
	}
	if v := os.Getenv(EnvScheduleCSV); v != "" {
		c.ScheduleCSV = v
	}
}
