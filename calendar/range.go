package calendar

import "fmt"

// Range is an inclusive span of dates. A Range whose End is before its Start
// is empty.
type Range struct {
	Start Date `yaml:"start" json:"start"`
	End   Date `yaml:"end" json:"end"`
}

// NewRange returns the inclusive range [start, end].
func NewRange(start, end Date) Range {
	return Range{Start: start, End: end}
}

// ParseRange parses two YYYY-MM-DD strings into a Range.
func ParseRange(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e}, nil
}

// IsEmpty reports whether the range contains no dates.
func (r Range) IsEmpty() bool {
	return r.Start.IsZero() || r.End.IsZero() || r.End.Before(r.Start)
}

// Contains reports whether d lies within the range.
func (r Range) Contains(d Date) bool {
	return !r.IsEmpty() && !d.Before(r.Start) && !d.After(r.End)
}

// Len returns the number of days in the range.
func (r Range) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Start.DaysUntil(r.End) + 1
}

// Days lists every date in the range in ascending order.
func (r Range) Days() []Date {
	days := make([]Date, 0, r.Len())
	for d := r.Start; !r.IsEmpty() && !d.After(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Intersect returns the overlap of r and o. The second result is false when
// they don't overlap.
func (r Range) Intersect(o Range) (Range, bool) {
	if r.IsEmpty() || o.IsEmpty() {
		return Range{}, false
	}
	out := r
	if o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	if out.IsEmpty() {
		return Range{}, false
	}
	return out, true
}

// Years lists the calendar years touched by the range.
func (r Range) Years() []int {
	if r.IsEmpty() {
		return nil
	}
	years := make([]int, 0, r.End.Year()-r.Start.Year()+1)
	for y := r.Start.Year(); y <= r.End.Year(); y++ {
		years = append(years, y)
	}
	return years
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}
