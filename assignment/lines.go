package assignment

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/cyp0633/libcapacity/capacity"
	"github.com/cyp0633/libcapacity/period"
)

// Line is one row of an assignment being edited: who does which task, when,
// and for how long each day.
type Line struct {
	// CommitmentID is stable across edits so the ledger can exclude the
	// line's own contribution.
	CommitmentID    uuid.UUID
	Key             Key
	Period          period.Spec
	DailyQuantityMs int64
}

// Lines holds the lines of one editing session, one per key.
type Lines map[Key]Line

// Put stores l under its key, assigning a commitment ID if it has none, and
// returns the stored line.
func (ls Lines) Put(l Line) Line {
	if l.CommitmentID == uuid.Nil {
		if prev, ok := ls[l.Key]; ok {
			l.CommitmentID = prev.CommitmentID
		} else {
			l.CommitmentID = uuid.New()
		}
	}
	ls[l.Key] = l
	return l
}

// Keys returns the keys in a stable order.
func (ls Lines) Keys() []Key {
	keys := make([]Key, 0, len(ls))
	for k := range ls {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Commitments converts the lines into ledger input, ordered by key.
func (ls Lines) Commitments() []capacity.Commitment {
	out := make([]capacity.Commitment, 0, len(ls))
	for _, k := range ls.Keys() {
		l := ls[k]
		out = append(out, capacity.Commitment{
			ID:              l.CommitmentID,
			ResponsibleID:   k.ResponsibleID,
			Period:          l.Period,
			DailyQuantityMs: l.DailyQuantityMs,
		})
	}
	return out
}

// Candidates converts the lines into duplicate-detector input, ordered by key.
func (ls Lines) Candidates() []Candidate {
	out := make([]Candidate, 0, len(ls))
	for _, k := range ls.Keys() {
		out = append(out, Candidate{Key: k, Period: ls[k].Period})
	}
	return out
}

func compareKeys(a, b Key) int {
	return cmp.Or(
		cmp.Compare(a.ClientID, b.ClientID),
		cmp.Compare(a.ResponsibleID, b.ResponsibleID),
		cmp.Compare(a.ProductID, b.ProductID),
		cmp.Compare(a.TaskID, b.TaskID),
	)
}
