// Package engine wires a holiday provider, configuration, logging and an
// optional store around the pure capacity computations.
//
// The computations themselves never fail. Every error returned here comes
// from loading holidays or from the store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/cyp0633/libcapacity/assignment"
	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/capacity"
	"github.com/cyp0633/libcapacity/holiday"
	"github.com/cyp0633/libcapacity/period"
	"github.com/cyp0633/libcapacity/recurrence"
	"github.com/cyp0633/libcapacity/store"
)

// ErrNoStore is returned by the store-backed methods when the engine was
// built without WithStore.
var ErrNoStore = errors.New("engine has no store")

// Engine answers capacity and duplicate questions against one holiday
// calendar. It is safe for concurrent use.
type Engine struct {
	provider holiday.Provider
	config   Config
	store    store.Store
	logger   *slog.Logger
	cache    *holiday.Cached
}

// Option represents a configuration option for the Engine
type Option func(*Engine)

// WithConfig replaces DefaultConfig. Zero fields are normalized.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		cfg.Normalize()
		e.config = cfg
	}
}

// WithLogger sets the logger for the engine
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStore enables the store-backed methods.
func WithStore(s store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// New creates an engine over provider. A nil provider means no holidays.
func New(provider holiday.Provider, opts ...Option) *Engine {
	if provider == nil {
		provider = holiday.None{}
	}
	e := &Engine{
		provider: provider,
		config:   DefaultConfig,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig builds the holiday provider from cfg.Holidays and returns an
// engine that owns it. Call Close when done.
func NewFromConfig(cfg Config, opts ...Option) (*Engine, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := New(nil, append([]Option{WithConfig(cfg)}, opts...)...)
	p, err := NewProvider(cfg.Holidays, e.logger)
	if err != nil {
		return nil, err
	}
	e.provider = p
	if c, ok := p.(*holiday.Cached); ok {
		e.cache = c
	}

	e.logger.Info("engine created",
		"holiday_source", cfg.Holidays.Source,
		"holiday_cache", cfg.Holidays.CacheEnabled,
		"max_dates", cfg.MaxDates)
	return e, nil
}

// Close stops the holiday cache built by NewFromConfig, if any.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Holidays returns the holidays of every year r touches.
func (e *Engine) Holidays(r calendar.Range) (calendar.Set, error) {
	if r.IsEmpty() {
		return make(calendar.Set), nil
	}
	h, err := holiday.ForRange(e.provider, r)
	if err != nil {
		e.logger.Error("failed to load holidays", "range", r.String(), "error", err)
		return nil, err
	}
	return h, nil
}

// holidaysFor loads the holidays s can resolve against. A date's validity
// depends on that date alone, so the years of s's span are enough even when s
// is later intersected with other periods.
func (e *Engine) holidaysFor(s period.Spec) (calendar.Set, error) {
	span, ok := s.Span()
	if !ok {
		return make(calendar.Set), nil
	}
	return e.Holidays(span)
}

func (e *Engine) expander() recurrence.Expander {
	return recurrence.Expander{
		MaxDates:     e.config.MaxDates,
		HorizonYears: e.config.NeverHorizonYears,
	}
}

// Expand expands rule within bound. The second result reports whether the
// configured cap cut the expansion short.
func (e *Engine) Expand(rule recurrence.Rule, bound calendar.Range) ([]calendar.Date, bool, error) {
	window, ok := calendar.NewRange(rule.Anchor(), rule.End(e.config.NeverHorizonYears)).Intersect(bound)
	if !ok {
		return nil, false, nil
	}
	holidays, err := e.Holidays(window)
	if err != nil {
		return nil, false, err
	}

	res := e.expander().Expand(rule, bound, holidays)
	if res.Truncated {
		e.logger.Warn("recurrence expansion truncated",
			"rrule", rule.RRule(e.config.NeverHorizonYears),
			"anchor", rule.Anchor().String(),
			"max_dates", e.config.MaxDates,
			"last", res.Dates[len(res.Dates)-1].String())
	}
	e.logger.Debug("recurrence expanded",
		"frequency", rule.Frequency(),
		"bound", bound.String(),
		"dates", len(res.Dates))
	return res.Dates, res.Truncated, nil
}

// NewPeriod builds a Spec with the configured weekend/holiday defaults.
func (e *Engine) NewPeriod(r mo.Option[calendar.Range], explicit ...calendar.Date) period.Spec {
	s := period.ForDates(explicit...)
	s.Range = r
	return s.WithToggles(e.config.IncludeWeekends, e.config.IncludeHolidays)
}

// RecurringPeriod expands rule within bound into an explicit-date Spec,
// dropping dates the configured toggles exclude.
func (e *Engine) RecurringPeriod(rule recurrence.Rule, bound calendar.Range) (period.Spec, bool, error) {
	holidays, err := e.Holidays(bound)
	if err != nil {
		return period.Spec{}, false, err
	}
	s, truncated := period.FromRecurrence(e.expander(), rule, bound,
		e.config.IncludeWeekends, e.config.IncludeHolidays, holidays)
	if truncated {
		e.logger.Warn("recurring period truncated",
			"anchor", rule.Anchor().String(),
			"max_dates", e.config.MaxDates)
	}
	return s, truncated, nil
}

// Resolve returns the dates spec covers.
func (e *Engine) Resolve(spec period.Spec) (calendar.Set, error) {
	holidays, err := e.holidaysFor(spec)
	if err != nil {
		return nil, err
	}
	return period.Resolve(spec, holidays), nil
}

// Intersect returns the dates a and b have in common.
func (e *Engine) Intersect(a, b period.Spec) (calendar.Set, error) {
	holidays, err := e.holidaysFor(a)
	if err != nil {
		return nil, err
	}
	return period.Intersect(a, b, holidays), nil
}

// Evaluate returns the capacity breakdown of q against existing.
func (e *Engine) Evaluate(q capacity.Query, existing []capacity.Commitment, excluding mo.Option[uuid.UUID]) (capacity.Summary, error) {
	holidays, err := e.holidaysFor(q.Period)
	if err != nil {
		return capacity.Summary{}, err
	}

	s := capacity.Evaluate(q, existing, excluding, holidays)
	e.logger.Debug("capacity evaluated",
		"responsible_id", q.ResponsibleID,
		"days", s.Days,
		"contracted_ms", s.ContractedMs,
		"committed_ms", s.CommittedMs,
		"available_ms", s.AvailableMs)
	return s, nil
}

// AvailableTime returns the signed time in milliseconds q's responsible
// party has left over q's period.
func (e *Engine) AvailableTime(q capacity.Query, existing []capacity.Commitment, excluding mo.Option[uuid.UUID]) (int64, error) {
	s, err := e.Evaluate(q, existing, excluding)
	if err != nil {
		return 0, err
	}
	return s.AvailableMs, nil
}

// AvailableTimeFromStore fetches the saved commitments of q's responsible
// party and accounts them together with pending, the commitments still being
// edited. A pending commitment replaces the saved one with the same ID.
func (e *Engine) AvailableTimeFromStore(ctx context.Context, q capacity.Query, excluding mo.Option[uuid.UUID], pending ...capacity.Commitment) (int64, error) {
	if e.store == nil {
		return 0, ErrNoStore
	}

	saved, err := e.store.CommitmentsFor(ctx, q.ResponsibleID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch commitments: %w", err)
	}

	return e.AvailableTime(q, mergeCommitments(saved, pending), excluding)
}

func mergeCommitments(saved, pending []capacity.Commitment) []capacity.Commitment {
	replaced := make(map[uuid.UUID]struct{}, len(pending))
	for _, c := range pending {
		replaced[c.ID] = struct{}{}
	}
	out := make([]capacity.Commitment, 0, len(saved)+len(pending))
	for _, c := range saved {
		if _, ok := replaced[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return append(out, pending...)
}

// FindConflict returns the first of groups that duplicates candidate.
func (e *Engine) FindConflict(candidate assignment.Candidate, groups []assignment.Group) (mo.Option[assignment.Conflict], error) {
	holidays, err := e.holidaysFor(candidate.Period)
	if err != nil {
		return mo.None[assignment.Conflict](), err
	}

	conflict := assignment.FindConflict(candidate, groups, holidays)
	if c, ok := conflict.Get(); ok {
		e.logger.Debug("duplicate assignment found",
			"group_id", c.Group.ID,
			"overlap_days", c.OverlapDates.Len())
	}
	return conflict, nil
}

// FindConflictInStore checks candidate against the saved groups with the
// same key. When the candidate edits a saved group, pass that group's ID as
// self so it is not reported against itself.
func (e *Engine) FindConflictInStore(ctx context.Context, candidate assignment.Candidate, self mo.Option[uuid.UUID]) (mo.Option[assignment.Conflict], error) {
	if e.store == nil {
		return mo.None[assignment.Conflict](), ErrNoStore
	}

	groups, err := e.store.Groups(ctx, candidate.Key)
	if err != nil {
		return mo.None[assignment.Conflict](), fmt.Errorf("failed to fetch groups: %w", err)
	}
	if id, ok := self.Get(); ok {
		groups = assignment.Without(groups, id)
	}
	return e.FindConflict(candidate, groups)
}
