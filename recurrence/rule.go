// Package recurrence turns recurrence rules, as authored in an assignment
// form (frequency, weekday checkboxes, monthly mode, "every N units", end
// condition), into concrete calendar dates.
package recurrence

import (
	"slices"
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/libcapacity/calendar"
)

// Frequency is the base repetition of a rule.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Custom  Frequency = "custom"
)

// MonthlyMode selects which day of each visited month a Monthly rule lands on.
type MonthlyMode string

const (
	// SameDayOfMonth reuses the anchor's day of month, clamped to the last day
	// of shorter months.
	SameDayOfMonth MonthlyMode = "same_day_of_month"
	// SameWeekdayOccurrence reuses the anchor's weekday and its ordinal within
	// the month ("2nd Tuesday"). Months without that ordinal are skipped.
	SameWeekdayOccurrence MonthlyMode = "same_weekday_occurrence"
	// FirstBusinessDay is the first non-weekend, non-holiday day of the month.
	FirstBusinessDay MonthlyMode = "first_business_day"
	// LastBusinessDay is the last non-weekend, non-holiday day of the month.
	LastBusinessDay MonthlyMode = "last_business_day"
)

// Unit is the step unit of a Custom rule.
type Unit string

const (
	Days   Unit = "days"
	Weeks  Unit = "weeks"
	Months Unit = "months"
)

// Interval is the "every N units" part of a Custom rule.
type Interval struct {
	Every int
	Unit  Unit
}

// Rule is an immutable, validated recurrence rule. Build one with NewRule.
type Rule struct {
	frequency   Frequency
	anchor      calendar.Date
	weekdays    []time.Weekday
	monthlyMode MonthlyMode
	interval    Interval
	until       mo.Option[calendar.Date]
}

// RuleOption sets an optional part of a Rule.
type RuleOption func(*Rule)

// OnWeekdays sets the weekdays of a Weekly rule (or a Custom rule in weeks).
func OnWeekdays(days ...time.Weekday) RuleOption {
	return func(r *Rule) {
		r.weekdays = append(r.weekdays, days...)
	}
}

// WithMonthlyMode sets the monthly mode of a Monthly rule.
func WithMonthlyMode(mode MonthlyMode) RuleOption {
	return func(r *Rule) {
		r.monthlyMode = mode
	}
}

// Every sets the interval of a Custom rule.
func Every(n int, unit Unit) RuleOption {
	return func(r *Rule) {
		r.interval = Interval{Every: n, Unit: unit}
	}
}

// Until bounds the rule, inclusive. Without it the rule never ends.
func Until(d calendar.Date) RuleOption {
	return func(r *Rule) {
		r.until = mo.Some(d)
	}
}

// NewRule validates and builds a rule anchored at anchor. Invalid
// combinations are rejected with a *Error wrapping ErrInvalidRule; no defaults
// are substituted for missing required parts.
func NewRule(freq Frequency, anchor calendar.Date, opts ...RuleOption) (Rule, error) {
	r := Rule{frequency: freq, anchor: anchor}
	for _, opt := range opts {
		opt(&r)
	}

	if anchor.IsZero() {
		return Rule{}, invalid(ErrMissingAnchor, "rule needs an anchor date")
	}

	for _, wd := range r.weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return Rule{}, invalid(ErrInvalidWeekday, "weekday %d out of range 0-6", int(wd))
		}
	}
	slices.Sort(r.weekdays)
	r.weekdays = slices.Compact(r.weekdays)

	switch freq {
	case Daily:
	case Weekly:
		if len(r.weekdays) == 0 {
			return Rule{}, invalid(ErrMissingWeekdays, "weekly rule needs at least one weekday")
		}
	case Monthly:
		switch r.monthlyMode {
		case SameDayOfMonth, SameWeekdayOccurrence, FirstBusinessDay, LastBusinessDay:
		case "":
			return Rule{}, invalid(ErrMissingMonthlyMode, "monthly rule needs a monthly mode")
		default:
			return Rule{}, invalid(ErrMissingMonthlyMode, "unknown monthly mode %q", r.monthlyMode)
		}
	case Custom:
		if r.interval.Every < 1 {
			return Rule{}, invalid(ErrInvalidInterval, "custom interval must repeat every 1 or more units, got %d", r.interval.Every)
		}
		switch r.interval.Unit {
		case Days, Weeks, Months:
		default:
			return Rule{}, invalid(ErrInvalidInterval, "unknown interval unit %q", r.interval.Unit)
		}
	default:
		return Rule{}, invalid(ErrUnknownFrequency, "unknown frequency %q", freq)
	}

	if until, ok := r.until.Get(); ok && until.Before(anchor) {
		return Rule{}, invalid(ErrUntilBeforeAnchor, "until %s is before anchor %s", until, anchor)
	}

	return r, nil
}

func (r Rule) Frequency() Frequency            { return r.frequency }
func (r Rule) Anchor() calendar.Date           { return r.anchor }
func (r Rule) MonthlyMode() MonthlyMode        { return r.monthlyMode }
func (r Rule) Interval() Interval              { return r.interval }
func (r Rule) Until() mo.Option[calendar.Date] { return r.until }

// Weekdays returns a copy of the rule's weekdays, ascending.
func (r Rule) Weekdays() []time.Weekday {
	return slices.Clone(r.weekdays)
}

// End returns the last date the rule may produce. A rule without Until is
// bounded to horizonYears after its anchor.
func (r Rule) End(horizonYears int) calendar.Date {
	return r.until.OrElse(r.anchor.AddDate(horizonYears, 0, 0))
}

// step returns the unit and size of one repetition.
func (r Rule) step() (Unit, int) {
	switch r.frequency {
	case Daily:
		return Days, 1
	case Weekly:
		return Weeks, 1
	case Monthly:
		return Months, 1
	default:
		return r.interval.Unit, r.interval.Every
	}
}

// mode returns the monthly mode in effect. Custom rules stepping in months
// keep the anchor's day of month.
func (r Rule) mode() MonthlyMode {
	if r.frequency == Monthly {
		return r.monthlyMode
	}
	return SameDayOfMonth
}

// days returns the weekdays in effect. Custom rules stepping in weeks without
// explicit weekdays repeat on the anchor's weekday.
func (r Rule) days() []time.Weekday {
	if len(r.weekdays) == 0 {
		return []time.Weekday{r.anchor.Weekday()}
	}
	return r.weekdays
}
