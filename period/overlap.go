package period

import "github.com/cyp0633/libcapacity/calendar"

// Intersect returns the dates both specs resolve to. Either side being empty
// yields the empty set.
func Intersect(a, b Spec, holidays calendar.Set) calendar.Set {
	if !a.IsDefined() || !b.IsDefined() {
		return make(calendar.Set)
	}
	return Resolve(a, holidays).Intersect(Resolve(b, holidays))
}

// Overlaps reports whether a and b share at least one date.
func Overlaps(a, b Spec, holidays calendar.Set) bool {
	return Intersect(a, b, holidays).Len() > 0
}
