package period

import "github.com/cyp0633/libcapacity/calendar"

// Filter returns the subset of dates considered workable. A weekend day is
// dropped unless includeWeekends is set; a holiday is dropped unless
// includeHolidays is set. A date that is both is dropped if either toggle
// excludes it.
func Filter(dates []calendar.Date, includeWeekends, includeHolidays bool, holidays calendar.Set) calendar.Set {
	out := make(calendar.Set, len(dates))
	for _, d := range dates {
		if Valid(d, includeWeekends, includeHolidays, holidays) {
			out.Add(d)
		}
	}
	return out
}

// Valid reports whether a single date survives Filter.
func Valid(d calendar.Date, includeWeekends, includeHolidays bool, holidays calendar.Set) bool {
	if !includeWeekends && d.IsWeekend() {
		return false
	}
	if !includeHolidays && holidays.Has(d) {
		return false
	}
	return true
}

// CountValid counts the dates of r that survive the toggles.
func CountValid(r calendar.Range, includeWeekends, includeHolidays bool, holidays calendar.Set) int {
	n := 0
	for _, d := range r.Days() {
		if Valid(d, includeWeekends, includeHolidays, holidays) {
			n++
		}
	}
	return n
}

// BusinessDays counts the dates of r that are neither weekend days nor
// holidays.
func BusinessDays(r calendar.Range, holidays calendar.Set) int {
	return CountValid(r, false, false, holidays)
}
