// Package assignment detects duplicate assignment groups and turns the
// per-key assignment lines of an editing session into ledger input.
package assignment

import (
	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/period"
)

// Key identifies what an assignment is about. Two keys are equal when all
// four fields are equal.
type Key struct {
	ClientID      string `json:"client_id" yaml:"client_id"`
	ProductID     string `json:"product_id" yaml:"product_id"`
	TaskID        string `json:"task_id" yaml:"task_id"`
	ResponsibleID string `json:"responsible_id" yaml:"responsible_id"`
}

// Group is an already saved assignment group.
type Group struct {
	ID     uuid.UUID
	Key    Key
	Period period.Spec
}

// Candidate is an assignment about to be saved.
type Candidate struct {
	Key    Key
	Period period.Spec
}

// Conflict is an existing group that duplicates a candidate.
type Conflict struct {
	Group        Group
	OverlapDates calendar.Set
}

// FindConflict returns the first group, in the order given, with the
// candidate's key and at least one date in common with the candidate's
// period. Callers editing a group must leave that group out of groups;
// see Without.
func FindConflict(c Candidate, groups []Group, holidays calendar.Set) mo.Option[Conflict] {
	for _, g := range groups {
		if g.Key != c.Key {
			continue
		}
		if overlap := period.Intersect(c.Period, g.Period, holidays); overlap.Len() > 0 {
			return mo.Some(Conflict{Group: g, OverlapDates: overlap})
		}
	}
	return mo.None[Conflict]()
}

// Without returns groups minus the one with the given ID.
func Without(groups []Group, id uuid.UUID) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.ID != id {
			out = append(out, g)
		}
	}
	return out
}
