package recurrence

import (
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

// RRule returns the rule as an RFC 5545 RRULE value (without the "RRULE:"
// prefix), bounded the same way Expand bounds it. Business-day monthly modes
// are approximated as the first/last weekday of the month, since RRULE has no
// notion of holidays.
func (r Rule) RRule(horizonYears int) string {
	if horizonYears <= 0 {
		horizonYears = DefaultHorizonYears
	}
	opt := r.rruleOption()
	opt.Until = r.End(horizonYears).Time()

	if unit, _ := r.step(); unit == Months {
		switch r.mode() {
		case FirstBusinessDay:
			opt.Bymonthday = nil
			opt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
			opt.Bysetpos = []int{1}
		case LastBusinessDay:
			opt.Bymonthday = nil
			opt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
			opt.Bysetpos = []int{-1}
		}
	}
	return opt.RRuleString()
}

// ToEvent renders the rule as an all-day recurring VEVENT so it can be
// published to calendar clients.
func (r Rule) ToEvent(uid, summary string, horizonYears int) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetText(ical.PropSummary, summary)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

	start := ical.NewProp(ical.PropDateTimeStart)
	start.Value = r.anchor.Time().Format("20060102")
	start.Params.Set(ical.ParamValue, "DATE")
	ev.Props.Set(start)

	rule := ical.NewProp(ical.PropRecurrenceRule)
	rule.Value = r.RRule(horizonYears)
	ev.Props.Set(rule)

	return ev
}
