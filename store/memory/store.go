// Package memory is an in-memory store.Store for tests and examples.
package memory

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/cyp0633/libcapacity/assignment"
	"github.com/cyp0633/libcapacity/capacity"
	"github.com/cyp0633/libcapacity/period"
	"github.com/cyp0633/libcapacity/store"
)

type entry[T any] struct {
	seq   uint64
	value T
}

// Store implements store.Store using in-memory maps
type Store struct {
	mu          sync.RWMutex
	seq         uint64
	commitments map[uuid.UUID]entry[capacity.Commitment]
	groups      map[uuid.UUID]entry[assignment.Group]
	logger      *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Option represents a configuration option for the Store
type Option func(*Store)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		commitments: make(map[uuid.UUID]entry[capacity.Commitment]),
		groups:      make(map[uuid.UUID]entry[assignment.Group]),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CommitmentsFor(ctx context.Context, responsibleID string) ([]capacity.Commitment, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []entry[capacity.Commitment]
	for _, e := range s.commitments {
		if e.value.ResponsibleID == responsibleID {
			found = append(found, e)
		}
	}
	out := values(found)
	for i := range out {
		out[i].Period = clonePeriod(out[i].Period)
	}

	s.logger.Debug("listed commitments", "responsible_id", responsibleID, "count", len(out))
	return out, nil
}

func (s *Store) Groups(ctx context.Context, key assignment.Key) ([]assignment.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []entry[assignment.Group]
	for _, e := range s.groups {
		if e.value.Key == key {
			found = append(found, e)
		}
	}
	out := values(found)
	for i := range out {
		out[i].Period = clonePeriod(out[i].Period)
	}

	s.logger.Debug("listed groups", "key", key, "count", len(out))
	return out, nil
}

func (s *Store) PutCommitment(ctx context.Context, c capacity.Commitment) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	if c.ID == uuid.Nil {
		return &store.Error{Type: store.ErrInvalidInput, Message: "commitment has no ID"}
	}
	if c.DailyQuantityMs < 0 {
		return &store.Error{Type: store.ErrInvalidInput, Message: "negative daily quantity"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.Period = clonePeriod(c.Period)
	seq := s.next()
	if prev, ok := s.commitments[c.ID]; ok {
		seq = prev.seq
	}
	s.commitments[c.ID] = entry[capacity.Commitment]{seq: seq, value: c}

	s.logger.Info("commitment saved", "id", c.ID, "responsible_id", c.ResponsibleID)
	return nil
}

func (s *Store) PutGroup(ctx context.Context, g assignment.Group) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	if g.ID == uuid.Nil {
		return &store.Error{Type: store.ErrInvalidInput, Message: "group has no ID"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g.Period = clonePeriod(g.Period)
	seq := s.next()
	if prev, ok := s.groups[g.ID]; ok {
		seq = prev.seq
	}
	s.groups[g.ID] = entry[assignment.Group]{seq: seq, value: g}

	s.logger.Info("group saved", "id", g.ID, "key", g.Key)
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, hadCommitment := s.commitments[id]
	_, hadGroup := s.groups[id]
	if !hadCommitment && !hadGroup {
		s.logger.Warn("failed to delete: not found", "id", id)
		return &store.Error{Type: store.ErrNotFound, Message: "assignment not found: " + id.String()}
	}
	delete(s.commitments, id)
	delete(s.groups, id)

	s.logger.Info("assignment deleted", "id", id)
	return nil
}

// caller holds s.mu
func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func values[T any](entries []entry[T]) []T {
	slices.SortFunc(entries, func(a, b entry[T]) int {
		return cmp.Compare(a.seq, b.seq)
	})
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.value)
	}
	return out
}

// clonePeriod detaches the explicit date set from the caller's copy.
func clonePeriod(p period.Spec) period.Spec {
	if p.ExplicitDates != nil {
		p.ExplicitDates = p.ExplicitDates.Clone()
	}
	return p
}

func unavailable(err error) error {
	return &store.Error{Type: store.ErrUnavailable, Message: "request cancelled", Err: err}
}
