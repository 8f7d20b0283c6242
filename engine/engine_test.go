package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/libcapacity/assignment"
	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/capacity"
	"github.com/cyp0633/libcapacity/holiday"
	"github.com/cyp0633/libcapacity/period"
	"github.com/cyp0633/libcapacity/recurrence"
	"github.com/cyp0633/libcapacity/store"
	"github.com/cyp0633/libcapacity/store/memory"
)

const hour = capacity.MillisPerHour

func d(s string) calendar.Date { return calendar.MustParse(s) }

func week() period.Spec {
	return period.ForRange(d("2024-03-04"), d("2024-03-10"))
}

func query() capacity.Query {
	return capacity.Query{
		ResponsibleID:        "ana",
		Period:               week(),
		ContractedDailyHours: mo.Some(8.0),
	}
}

func TestEngine_AvailableTimeUsesProviderHolidays(t *testing.T) {
	p := &holiday.MockProvider{}
	p.On("Holidays", 2024).Return(holiday.Static{d("2024-03-06"): "Local"}, nil).Once()

	e := New(p)
	existing := []capacity.Commitment{capacity.NewCommitment("ana", week(), 4*hour)}

	got, err := e.AvailableTime(query(), existing, mo.None[uuid.UUID]())
	require.NoError(t, err)
	assert.Equal(t, 16*hour, got)
	p.AssertExpectations(t)
}

func TestEngine_ProviderErrors(t *testing.T) {
	p := &holiday.MockProvider{}
	p.On("Holidays", 2024).Return(nil, errors.New("feed unavailable"))

	e := New(p)
	_, err := e.AvailableTime(query(), nil, mo.None[uuid.UUID]())
	assert.ErrorContains(t, err, "feed unavailable")

	_, err = e.Resolve(week())
	assert.Error(t, err)

	_, err = e.FindConflict(assignment.Candidate{Period: week()}, nil)
	assert.Error(t, err)
}

func TestEngine_UndefinedSpecNeedsNoHolidays(t *testing.T) {
	p := &holiday.MockProvider{}
	e := New(p)

	got, err := e.Resolve(period.Spec{})
	require.NoError(t, err)
	assert.Empty(t, got)
	p.AssertNotCalled(t, "Holidays", mock.Anything)
}

func TestEngine_ExpandLogsTruncation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	e := New(holiday.None{}, WithConfig(Config{MaxDates: 5}), WithLogger(logger))

	rule, err := recurrence.NewRule(recurrence.Daily, d("2024-01-01"))
	require.NoError(t, err)

	dates, truncated, err := e.Expand(rule, calendar.NewRange(d("2024-01-01"), d("2024-12-31")))
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Len(t, dates, 5)
	assert.Contains(t, buf.String(), "recurrence expansion truncated")
}

func TestEngine_ExpandFirstBusinessDay(t *testing.T) {
	e := New(holiday.Brazil{})

	rule, err := recurrence.NewRule(recurrence.Monthly, d("2024-01-01"),
		recurrence.WithMonthlyMode(recurrence.FirstBusinessDay))
	require.NoError(t, err)

	dates, truncated, err := e.Expand(rule, calendar.NewRange(d("2024-01-01"), d("2024-03-31")))
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, []calendar.Date{d("2024-01-02"), d("2024-02-01"), d("2024-03-01")}, dates)

	dates, _, err = e.Expand(rule, calendar.NewRange(d("2023-01-01"), d("2023-12-31")))
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestEngine_Periods(t *testing.T) {
	e := New(nil, WithConfig(CalendarDaysConfig))
	s := e.NewPeriod(mo.Some(calendar.NewRange(d("2024-03-04"), d("2024-03-10"))))
	assert.True(t, s.IncludeWeekends)
	assert.True(t, s.IncludeHolidays)

	got, err := e.Resolve(s)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Len())

	e = New(nil)
	rule, err := recurrence.NewRule(recurrence.Weekly, d("2024-03-04"),
		recurrence.OnWeekdays(time.Monday, time.Saturday))
	require.NoError(t, err)

	s, truncated, err := e.RecurringPeriod(rule, calendar.NewRange(d("2024-03-01"), d("2024-03-17")))
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, []string{"2024-03-04", "2024-03-11"}, s.ExplicitDates.Strings())
}

func TestEngine_AvailableTimeFromStore(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	e := New(nil, WithStore(st))

	saved := capacity.NewCommitment("ana", week(), 2*hour)
	require.NoError(t, st.PutCommitment(ctx, saved))
	require.NoError(t, st.PutCommitment(ctx, capacity.NewCommitment("bruno", week(), 8*hour)))

	got, err := e.AvailableTimeFromStore(ctx, query(), mo.None[uuid.UUID]())
	require.NoError(t, err)
	assert.Equal(t, 30*hour, got)

	edited := saved
	edited.DailyQuantityMs = 6 * hour
	got, err = e.AvailableTimeFromStore(ctx, query(), mo.None[uuid.UUID](), edited)
	require.NoError(t, err)
	assert.Equal(t, 10*hour, got)

	got, err = e.AvailableTimeFromStore(ctx, query(), mo.Some(saved.ID), edited)
	require.NoError(t, err)
	assert.Equal(t, 40*hour, got)

	_, err = New(nil).AvailableTimeFromStore(ctx, query(), mo.None[uuid.UUID]())
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestEngine_FindConflictInStore(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	e := New(nil, WithStore(st))

	key := assignment.Key{ClientID: "c1", ProductID: "p1", TaskID: "t1", ResponsibleID: "ana"}
	saved := assignment.Group{ID: uuid.New(), Key: key, Period: week()}
	require.NoError(t, st.PutGroup(ctx, saved))

	candidate := assignment.Candidate{Key: key, Period: period.ForDates(d("2024-03-08"))}
	conflict, err := e.FindConflictInStore(ctx, candidate, mo.None[uuid.UUID]())
	require.NoError(t, err)
	c, ok := conflict.Get()
	require.True(t, ok)
	assert.Equal(t, saved.ID, c.Group.ID)
	assert.Equal(t, []string{"2024-03-08"}, c.OverlapDates.Strings())

	conflict, err = e.FindConflictInStore(ctx, candidate, mo.Some(saved.ID))
	require.NoError(t, err)
	assert.True(t, conflict.IsAbsent())

	candidate.Period = period.ForDates(d("2024-03-09"))
	conflict, err = e.FindConflictInStore(ctx, candidate, mo.None[uuid.UUID]())
	require.NoError(t, err)
	assert.True(t, conflict.IsAbsent())
}

func TestEngine_StoreErrors(t *testing.T) {
	ctx := context.Background()
	ms := &store.MockStore{}
	down := &store.Error{Type: store.ErrUnavailable, Message: "database down"}
	ms.On("Groups", mock.Anything, mock.Anything).Return(nil, down)
	ms.On("CommitmentsFor", mock.Anything, "ana").Return(nil, down)

	e := New(nil, WithStore(ms))

	_, err := e.FindConflictInStore(ctx, assignment.Candidate{Period: week()}, mo.None[uuid.UUID]())
	assert.True(t, store.IsType(err, store.ErrUnavailable))

	_, err = e.AvailableTimeFromStore(ctx, query(), mo.None[uuid.UUID]())
	assert.True(t, store.IsType(err, store.ErrUnavailable))
	ms.AssertExpectations(t)
}
