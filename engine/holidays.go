package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/holiday"
)

// NewProvider builds the holiday provider described by cfg. Feeds are read
// once; the returned provider serves them from memory. When caching is
// enabled the result is a *holiday.Cached, which the caller must Close.
func NewProvider(cfg HolidayConfig, logger *slog.Logger) (holiday.Provider, error) {
	extra, err := staticDates(cfg.Dates)
	if err != nil {
		return nil, err
	}

	var base holiday.Provider
	switch cfg.Source {
	case SourceBrazil, "":
		base = holiday.Brazil{}
	case SourceNone:
		base = holiday.None{}
	case SourceStatic:
		base = extra
		extra = nil
	case SourceICS:
		base, err = loadFeed(cfg.Path, holiday.LoadICS)
	case SourceXML:
		base, err = loadFeed(cfg.Path, holiday.LoadXML)
	default:
		return nil, fmt.Errorf("unknown holiday source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}

	var p holiday.Provider = base
	if len(extra) > 0 {
		p = holiday.Combined{extra, base}
	}
	if cfg.CacheEnabled {
		opts := []holiday.CacheOption{}
		if logger != nil {
			opts = append(opts, holiday.WithLogger(logger))
		}
		p = holiday.NewCached(p, cfg.Cache, opts...)
	}
	return p, nil
}

func staticDates(dates map[string]string) (holiday.Static, error) {
	out := make(holiday.Static, len(dates))
	for s, name := range dates {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date: %w", err)
		}
		out[d] = name
	}
	return out, nil
}

func loadFeed(path string, load func(io.Reader) (holiday.Static, error)) (holiday.Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday feed: %w", err)
	}
	defer f.Close()

	h, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load holiday feed %s: %w", path, err)
	}
	return h, nil
}
