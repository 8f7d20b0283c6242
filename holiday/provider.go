// Package holiday supplies holiday calendars to the capacity engine.
//
// The engine itself treats holidays as an opaque set of dates; this package
// holds the boundary interface plus a few ready-made sources: a static map,
// the Brazilian national calendar, and loaders for iCalendar and XML feeds.
package holiday

import (
	"fmt"

	"github.com/cyp0633/libcapacity/calendar"
)

// Provider returns the holidays of a single calendar year, keyed by date with
// the holiday name as value.
type Provider interface {
	Holidays(year int) (Static, error)
}

// Static is a fixed holiday table. It doubles as a Provider.
type Static map[calendar.Date]string

// Holidays implements Provider.
func (s Static) Holidays(year int) (Static, error) {
	out := make(Static)
	for d, name := range s {
		if d.Year() == year {
			out[d] = name
		}
	}
	return out, nil
}

// Set returns the dates of the table.
func (s Static) Set() calendar.Set {
	out := make(calendar.Set, len(s))
	for d := range s {
		out.Add(d)
	}
	return out
}

// Merge copies the entries of o into s. Existing names are kept.
func (s Static) Merge(o Static) {
	for d, name := range o {
		if _, ok := s[d]; !ok {
			s[d] = name
		}
	}
}

// None is a provider with no holidays at all.
type None struct{}

func (None) Holidays(int) (Static, error) { return Static{}, nil }

// Collect gathers the holidays of every given year into one set.
func Collect(p Provider, years ...int) (calendar.Set, error) {
	out := make(calendar.Set)
	if p == nil {
		return out, nil
	}
	for _, y := range years {
		h, err := p.Holidays(y)
		if err != nil {
			return nil, fmt.Errorf("failed to load holidays for %d: %w", y, err)
		}
		for d := range h {
			out.Add(d)
		}
	}
	return out, nil
}

// ForRange gathers the holidays of every year touched by r.
func ForRange(p Provider, r calendar.Range) (calendar.Set, error) {
	return Collect(p, r.Years()...)
}

// Combined merges several providers, e.g. the national calendar plus local
// holidays. When two sources name the same date the earlier one wins.
type Combined []Provider

// Holidays implements Provider.
func (c Combined) Holidays(year int) (Static, error) {
	out := make(Static)
	for _, p := range c {
		if p == nil {
			continue
		}
		h, err := p.Holidays(year)
		if err != nil {
			return nil, err
		}
		out.Merge(h)
	}
	return out, nil
}
