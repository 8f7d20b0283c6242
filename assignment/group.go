package assignment

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/period"
)

// GroupKey identifies a group that assigns several products and tasks to one
// responsible party for one client. Product and task IDs compare as sets.
type GroupKey struct {
	ClientID      string
	ResponsibleID string
	ProductIDs    []string
	TaskIDs       []string
}

// Equal reports whether both keys name the same client, responsible party,
// product set and task set. Order and repetition of IDs don't matter;
// surrounding spaces are ignored.
func (k GroupKey) Equal(o GroupKey) bool {
	return k.ClientID == o.ClientID &&
		k.ResponsibleID == o.ResponsibleID &&
		sameSet(k.ProductIDs, o.ProductIDs) &&
		sameSet(k.TaskIDs, o.TaskIDs)
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strings.TrimSpace(id))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func sameSet(a, b []string) bool {
	return slices.Equal(normalizeIDs(a), normalizeIDs(b))
}

// MultiGroup is a saved group keyed by a GroupKey.
type MultiGroup struct {
	ID     uuid.UUID
	Key    GroupKey
	Period period.Spec
}

// GroupConflict is an existing multi-product group that duplicates a
// candidate.
type GroupConflict struct {
	Group        MultiGroup
	OverlapDates calendar.Set
}

// FindGroupConflict is FindConflict for set-keyed groups.
func FindGroupConflict(key GroupKey, p period.Spec, groups []MultiGroup, holidays calendar.Set) mo.Option[GroupConflict] {
	for _, g := range groups {
		if !g.Key.Equal(key) {
			continue
		}
		if overlap := period.Intersect(p, g.Period, holidays); overlap.Len() > 0 {
			return mo.Some(GroupConflict{Group: g, OverlapDates: overlap})
		}
	}
	return mo.None[GroupConflict]()
}

// Record is one saved row: a single product/task on a single date, tagged
// with the group it was saved under.
type Record struct {
	GroupID       uuid.UUID
	ClientID      string
	ResponsibleID string
	ProductID     string
	TaskID        string
	Date          calendar.Date
}

// GroupRecords folds saved rows back into groups. Groups come out in the
// order their first row appears; each group's period is the explicit set of
// its rows' dates. Rows without a group ID (uuid.Nil) share one group.
func GroupRecords(records []Record) []MultiGroup {
	var order []uuid.UUID
	byID := make(map[uuid.UUID]*MultiGroup)
	for _, r := range records {
		g, ok := byID[r.GroupID]
		if !ok {
			g = &MultiGroup{
				ID:     r.GroupID,
				Key:    GroupKey{ClientID: r.ClientID, ResponsibleID: r.ResponsibleID},
				Period: period.ForDates(),
			}
			byID[r.GroupID] = g
			order = append(order, r.GroupID)
		}
		g.Key.ProductIDs = appendUnique(g.Key.ProductIDs, r.ProductID)
		g.Key.TaskIDs = appendUnique(g.Key.TaskIDs, r.TaskID)
		g.Period.ExplicitDates.Add(r.Date)
	}

	out := make([]MultiGroup, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

func appendUnique(ids []string, id string) []string {
	id = strings.TrimSpace(id)
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
