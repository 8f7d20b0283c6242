// Package period describes which dates an assignment line covers and how two
// such descriptions overlap.
//
// A Spec is a contiguous range, an explicit set of dates, or both, plus the
// weekend and holiday toggles. Resolving a Spec against a holiday set yields
// a concrete date set; everything else in this package is built on that.
package period

import (
	"github.com/samber/mo"

	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/recurrence"
)

// Spec is the period of one assignment line.
type Spec struct {
	// Range is the inclusive range in scope, if any. Its dates go through
	// the weekend/holiday toggles.
	Range mo.Option[calendar.Range]
	// ExplicitDates are individually selected dates. They bypass the toggles:
	// an explicit Saturday is in scope even when weekends are excluded.
	ExplicitDates calendar.Set
	// IncludeWeekends keeps Saturdays and Sundays of Range.
	IncludeWeekends bool
	// IncludeHolidays keeps holidays of Range.
	IncludeHolidays bool
}

// ForRange returns a Spec covering [start, end] with both toggles off.
func ForRange(start, end calendar.Date) Spec {
	return Spec{Range: mo.Some(calendar.NewRange(start, end))}
}

// ForDates returns a Spec made of explicit dates only.
func ForDates(dates ...calendar.Date) Spec {
	return Spec{ExplicitDates: calendar.NewSet(dates...)}
}

// FromRecurrence expands rule within bound, keeps the workable dates
// according to the toggles, and stores them as explicit dates. The toggles
// are recorded on the Spec for display; they no longer filter anything since
// the result has no range.
func FromRecurrence(exp recurrence.Expander, rule recurrence.Rule, bound calendar.Range,
	includeWeekends, includeHolidays bool, holidays calendar.Set) (Spec, bool) {
	res := exp.Expand(rule, bound, holidays)
	return Spec{
		ExplicitDates:   Filter(res.Dates, includeWeekends, includeHolidays, holidays),
		IncludeWeekends: includeWeekends,
		IncludeHolidays: includeHolidays,
	}, res.Truncated
}

// WithToggles returns a copy of s with the given weekend/holiday toggles.
func (s Spec) WithToggles(includeWeekends, includeHolidays bool) Spec {
	s.IncludeWeekends = includeWeekends
	s.IncludeHolidays = includeHolidays
	return s
}

// WithDates returns a copy of s with dates added to the explicit set.
func (s Spec) WithDates(dates ...calendar.Date) Spec {
	s.ExplicitDates = s.ExplicitDates.Union(calendar.NewSet(dates...))
	return s
}

// IsDefined reports whether s has a non-empty range or at least one explicit
// date. An undefined Spec resolves to the empty set.
func (s Spec) IsDefined() bool {
	if r, ok := s.Range.Get(); ok && !r.IsEmpty() {
		return true
	}
	return s.ExplicitDates.Len() > 0
}

// Resolve returns the concrete dates of s: the range dates that pass Filter,
// plus every explicit date verbatim.
func Resolve(s Spec, holidays calendar.Set) calendar.Set {
	out := make(calendar.Set)
	if r, ok := s.Range.Get(); ok {
		out = Filter(r.Days(), s.IncludeWeekends, s.IncludeHolidays, holidays)
	}
	for d := range s.ExplicitDates {
		out.Add(d)
	}
	return out
}

// Excluding returns an explicit-only Spec holding the resolved dates of s
// minus the exceptions. This is how dates deselected inside a range are
// persisted: as an allowlist rather than a range with holes.
func (s Spec) Excluding(exceptions calendar.Set, holidays calendar.Set) Spec {
	return Spec{
		ExplicitDates:   Resolve(s, holidays).Difference(exceptions),
		IncludeWeekends: s.IncludeWeekends,
		IncludeHolidays: s.IncludeHolidays,
	}
}

// Bounds returns the earliest and latest resolved dates of s. The second
// result is false when s resolves to nothing.
func Bounds(s Spec, holidays calendar.Set) (calendar.Range, bool) {
	dates := Resolve(s, holidays).Sorted()
	if len(dates) == 0 {
		return calendar.Range{}, false
	}
	return calendar.NewRange(dates[0], dates[len(dates)-1]), true
}

// Span returns a range covering everything s could resolve to, without
// needing holidays. It is used to decide which holiday years to load.
func (s Spec) Span() (calendar.Range, bool) {
	var out calendar.Range
	found := false
	extend := func(d calendar.Date) {
		if !found || d.Before(out.Start) {
			out.Start = d
		}
		if !found || d.After(out.End) {
			out.End = d
		}
		found = true
	}
	if r, ok := s.Range.Get(); ok && !r.IsEmpty() {
		extend(r.Start)
		extend(r.End)
	}
	for d := range s.ExplicitDates {
		extend(d)
	}
	return out, found
}
