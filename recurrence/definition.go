package recurrence

import (
	"time"

	"github.com/cyp0633/libcapacity/calendar"
)

// Definition is the serializable form of a rule, as submitted by a form or
// stored in a config file. Weekdays use 0 = Sunday.
type Definition struct {
	Frequency   Frequency      `yaml:"frequency" json:"frequency"`
	Anchor      calendar.Date  `yaml:"anchor" json:"anchor"`
	Weekdays    []int          `yaml:"weekdays,omitempty" json:"weekdays,omitempty"`
	MonthlyMode MonthlyMode    `yaml:"monthly_mode,omitempty" json:"monthly_mode,omitempty"`
	Every       int            `yaml:"every,omitempty" json:"every,omitempty"`
	Unit        Unit           `yaml:"unit,omitempty" json:"unit,omitempty"`
	Until       *calendar.Date `yaml:"until,omitempty" json:"until,omitempty"`
}

// Rule validates the definition and builds the rule.
func (d Definition) Rule() (Rule, error) {
	var opts []RuleOption
	if len(d.Weekdays) > 0 {
		days := make([]time.Weekday, len(d.Weekdays))
		for i, wd := range d.Weekdays {
			days[i] = time.Weekday(wd)
		}
		opts = append(opts, OnWeekdays(days...))
	}
	if d.MonthlyMode != "" {
		opts = append(opts, WithMonthlyMode(d.MonthlyMode))
	}
	if d.Frequency == Custom {
		opts = append(opts, Every(d.Every, d.Unit))
	}
	if d.Until != nil {
		opts = append(opts, Until(*d.Until))
	}
	return NewRule(d.Frequency, d.Anchor, opts...)
}

// Definition returns the serializable form of r.
func (r Rule) Definition() Definition {
	def := Definition{
		Frequency:   r.frequency,
		Anchor:      r.anchor,
		MonthlyMode: r.monthlyMode,
		Every:       r.interval.Every,
		Unit:        r.interval.Unit,
	}
	for _, wd := range r.weekdays {
		def.Weekdays = append(def.Weekdays, int(wd))
	}
	if until, ok := r.until.Get(); ok {
		def.Until = &until
	}
	return def
}
