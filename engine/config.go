package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cyp0633/libcapacity/holiday"
	"github.com/cyp0633/libcapacity/recurrence"
)

// HolidaySource selects where the engine gets its holidays from.
type HolidaySource string

const (
	SourceBrazil HolidaySource = "brazil"
	SourceICS    HolidaySource = "ics"
	SourceXML    HolidaySource = "xml"
	SourceStatic HolidaySource = "static"
	SourceNone   HolidaySource = "none"
)

// HolidayConfig describes the holiday provider.
type HolidayConfig struct {
	Source HolidaySource `yaml:"source" json:"source"`
	// Path is the feed file for the ics and xml sources.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// Dates maps YYYY-MM-DD to a holiday name. With the static source these
	// are the only holidays; with any other source they are added on top.
	Dates map[string]string `yaml:"dates,omitempty" json:"dates,omitempty"`

	CacheEnabled bool                `yaml:"cache_enabled" json:"cache_enabled"`
	Cache        holiday.CacheConfig `yaml:"cache" json:"cache"`
}

// Config holds configuration options for the engine
type Config struct {
	// MaxDates caps a single recurrence expansion.
	MaxDates int `yaml:"max_dates" json:"max_dates"`
	// NeverHorizonYears bounds recurrences that never end.
	NeverHorizonYears int `yaml:"never_horizon_years" json:"never_horizon_years"`

	// Toggle defaults for periods built through the engine.
	IncludeWeekends bool `yaml:"include_weekends" json:"include_weekends"`
	IncludeHolidays bool `yaml:"include_holidays" json:"include_holidays"`

	Holidays HolidayConfig `yaml:"holidays" json:"holidays"`
}

// DefaultConfig counts business days against the Brazilian calendar.
var DefaultConfig = Config{
	MaxDates:          recurrence.DefaultMaxDates,
	NeverHorizonYears: recurrence.DefaultHorizonYears,
	Holidays: HolidayConfig{
		Source:       SourceBrazil,
		CacheEnabled: true,
		Cache:        holiday.DefaultCacheConfig,
	},
}

// CalendarDaysConfig treats every calendar day as workable and loads no
// holidays.
var CalendarDaysConfig = Config{
	MaxDates:          recurrence.DefaultMaxDates,
	NeverHorizonYears: recurrence.DefaultHorizonYears,
	IncludeWeekends:   true,
	IncludeHolidays:   true,
	Holidays: HolidayConfig{
		Source: SourceNone,
	},
}

// LongRangeConfig suits planning years ahead: a higher cap, a longer horizon
// for open-ended rules and more cached holiday years.
var LongRangeConfig = Config{
	MaxDates:          10_000,
	NeverHorizonYears: 5,
	Holidays: HolidayConfig{
		Source:       SourceBrazil,
		CacheEnabled: true,
		Cache: holiday.CacheConfig{
			TTL:             holiday.DefaultCacheConfig.TTL,
			MaxEntries:      64,
			CleanupInterval: holiday.DefaultCacheConfig.CleanupInterval,
		},
	},
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.MaxDates <= 0 {
		c.MaxDates = DefaultConfig.MaxDates
	}
	if c.NeverHorizonYears <= 0 {
		c.NeverHorizonYears = DefaultConfig.NeverHorizonYears
	}
	if c.Holidays.Source == "" {
		c.Holidays.Source = DefaultConfig.Holidays.Source
	}
	if c.Holidays.CacheEnabled {
		if c.Holidays.Cache.TTL <= 0 {
			c.Holidays.Cache.TTL = holiday.DefaultCacheConfig.TTL
		}
		if c.Holidays.Cache.MaxEntries <= 0 {
			c.Holidays.Cache.MaxEntries = holiday.DefaultCacheConfig.MaxEntries
		}
		if c.Holidays.Cache.CleanupInterval <= 0 {
			c.Holidays.Cache.CleanupInterval = holiday.DefaultCacheConfig.CleanupInterval
		}
	}
}

// Validate reports settings Normalize cannot repair.
func (c *Config) Validate() error {
	switch c.Holidays.Source {
	case SourceBrazil, SourceStatic, SourceNone:
	case SourceICS, SourceXML:
		if c.Holidays.Path == "" {
			return fmt.Errorf("holiday source %q needs a path", c.Holidays.Source)
		}
	default:
		return fmt.Errorf("unknown holiday source %q", c.Holidays.Source)
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, DefaultConfig is written there with 0600
// perms and returned. Otherwise the file is decoded, normalized and
// validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig
			if err := Save(path, &cfg); err != nil {
				return &cfg, err
			}
			return &cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file and rename, creating the
// parent directory (0700) if needed. The final file has 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".libcapacity-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
