package calendar

import "slices"

// Set is an unordered collection of dates.
type Set map[Date]struct{}

// NewSet returns a set holding the given dates.
func NewSet(dates ...Date) Set {
	s := make(Set, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

// ParseSet parses YYYY-MM-DD strings into a set, failing on the first
// malformed entry.
func ParseSet(values ...string) (Set, error) {
	s := make(Set, len(values))
	for _, v := range values {
		d, err := ParseDate(v)
		if err != nil {
			return nil, err
		}
		s[d] = struct{}{}
	}
	return s, nil
}

func (s Set) Add(d Date) { s[d] = struct{}{} }

// Has reports membership. It is safe to call on a nil set.
func (s Set) Has(d Date) bool {
	_, ok := s[d]
	return ok
}

func (s Set) Len() int { return len(s) }

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for d := range s {
		out[d] = struct{}{}
	}
	return out
}

// Union returns a new set with the members of s and o.
func (s Set) Union(o Set) Set {
	out := s.Clone()
	for d := range o {
		out[d] = struct{}{}
	}
	return out
}

// Intersect returns a new set with the members present in both s and o.
func (s Set) Intersect(o Set) Set {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for d := range small {
		if large.Has(d) {
			out[d] = struct{}{}
		}
	}
	return out
}

// Difference returns a new set with the members of s not present in o.
func (s Set) Difference(o Set) Set {
	out := make(Set, len(s))
	for d := range s {
		if !o.Has(d) {
			out[d] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold exactly the same dates.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for d := range s {
		if !o.Has(d) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []Date {
	out := make([]Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	slices.SortFunc(out, Date.Compare)
	return out
}

// Strings returns the members in ascending canonical form.
func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, d := range sorted {
		out[i] = d.String()
	}
	return out
}
