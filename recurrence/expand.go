package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/cyp0633/libcapacity/calendar"
)

const (
	// DefaultMaxDates caps a single expansion.
	DefaultMaxDates = 2000
	// DefaultHorizonYears bounds rules that never end.
	DefaultHorizonYears = 2
)

// Expander expands rules into dates. The zero value uses the defaults.
type Expander struct {
	// MaxDates halts expansion once this many dates were produced.
	// Zero means DefaultMaxDates.
	MaxDates int
	// HorizonYears bounds rules without Until. Zero means DefaultHorizonYears.
	HorizonYears int
}

// Result is the outcome of an expansion.
type Result struct {
	// Dates are ascending and free of duplicates.
	Dates []calendar.Date
	// Truncated is set when the cap stopped the expansion before the bound.
	Truncated bool
}

// Expand expands rule with the default Expander and returns the dates only.
func Expand(rule Rule, bound calendar.Range, holidays calendar.Set) []calendar.Date {
	return Expander{}.Expand(rule, bound, holidays).Dates
}

// Expand returns the dates produced by rule that fall both inside the rule's
// own span (anchor to Until, or to the horizon) and inside bound. Holidays
// only matter to the business-day monthly modes.
func (e Expander) Expand(rule Rule, bound calendar.Range, holidays calendar.Set) Result {
	maxDates := e.MaxDates
	if maxDates <= 0 {
		maxDates = DefaultMaxDates
	}
	horizon := e.HorizonYears
	if horizon <= 0 {
		horizon = DefaultHorizonYears
	}

	window, ok := calendar.NewRange(rule.anchor, rule.End(horizon)).Intersect(bound)
	if !ok {
		return Result{}
	}

	unit, _ := rule.step()
	businessDay := unit == Months && (rule.mode() == FirstBusinessDay || rule.mode() == LastBusinessDay)

	opt := rule.rruleOption()
	if businessDay {
		// Month boundaries are generated from the first of the anchor month and
		// shifted onto business days afterwards.
		opt.Dtstart = rule.anchor.FirstOfMonth().Time()
		opt.Until = window.End.LastOfMonth().Time()
	} else {
		opt.Until = window.End.Time()
	}

	rr, err := rrule.NewRRule(opt)
	if err != nil {
		// Rules are validated on construction, so the option is always well-formed.
		panic(fmt.Sprintf("recurrence: invalid rrule option for %s rule: %v", rule.frequency, err))
	}

	seen := make(calendar.Set)
	var out []calendar.Date
	next := rr.Iterator()
	for {
		t, ok := next()
		if !ok {
			break
		}
		d := calendar.FromTime(t)
		if businessDay {
			var found bool
			if d, found = shiftToBusinessDay(d, rule.mode(), holidays); !found {
				continue
			}
		}
		if d.After(window.End) {
			if businessDay {
				continue
			}
			break
		}
		if d.Before(window.Start) || seen.Has(d) {
			continue
		}
		if len(out) == maxDates {
			return Result{Dates: out, Truncated: true}
		}
		seen.Add(d)
		out = append(out, d)
	}

	return Result{Dates: calendar.NewSet(out...).Sorted()}
}

// shiftToBusinessDay moves a month boundary onto the first (scanning forward
// from the 1st) or last (scanning backward from the month end) business day of
// that month. The second result is false if the month has none.
func shiftToBusinessDay(boundary calendar.Date, mode MonthlyMode, holidays calendar.Set) (calendar.Date, bool) {
	step := 1
	if mode == LastBusinessDay {
		step = -1
	}
	for d := boundary; d.Month() == boundary.Month(); d = d.AddDays(step) {
		if IsBusinessDay(d, holidays) {
			return d, true
		}
	}
	return calendar.Date{}, false
}

// IsBusinessDay reports whether d is neither a weekend day nor a holiday.
func IsBusinessDay(d calendar.Date, holidays calendar.Set) bool {
	return !d.IsWeekend() && !holidays.Has(d)
}

// rruleOption compiles the rule into an RFC 5545 rule anchored at the rule's
// anchor date. Until is left for the caller to set.
func (r Rule) rruleOption() rrule.ROption {
	unit, every := r.step()
	opt := rrule.ROption{
		Dtstart:  r.anchor.Time(),
		Interval: every,
		Wkst:     rrule.SU,
	}

	switch unit {
	case Days:
		opt.Freq = rrule.DAILY
	case Weeks:
		opt.Freq = rrule.WEEKLY
		for _, wd := range r.days() {
			opt.Byweekday = append(opt.Byweekday, toRRuleWeekday(wd))
		}
	case Months:
		opt.Freq = rrule.MONTHLY
		switch r.mode() {
		case SameDayOfMonth:
			day := r.anchor.Day()
			if day <= 28 {
				opt.Bymonthday = []int{day}
				break
			}
			// Clamp to the month end: the last existing day among 28..day.
			for d := 28; d <= day; d++ {
				opt.Bymonthday = append(opt.Bymonthday, d)
			}
			opt.Bysetpos = []int{-1}
		case SameWeekdayOccurrence:
			wd := toRRuleWeekday(r.anchor.Weekday())
			opt.Byweekday = []rrule.Weekday{wd.Nth(occurrence(r.anchor))}
		case FirstBusinessDay:
			opt.Bymonthday = []int{1}
		case LastBusinessDay:
			opt.Bymonthday = []int{-1}
		}
	}
	return opt
}

// occurrence returns the 1-based ordinal of d's weekday within its month.
func occurrence(d calendar.Date) int {
	return (d.Day() + 6) / 7
}

func toRRuleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
