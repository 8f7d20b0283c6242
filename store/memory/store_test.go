package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/libcapacity/assignment"
	"github.com/cyp0633/libcapacity/calendar"
	"github.com/cyp0633/libcapacity/capacity"
	"github.com/cyp0633/libcapacity/period"
	"github.com/cyp0633/libcapacity/store"
)

func d(s string) calendar.Date { return calendar.MustParse(s) }

func TestStore_Commitments(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, err := s.CommitmentsFor(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, got)

	first := capacity.NewCommitment("ana", period.ForDates(d("2024-03-04")), 3_600_000)
	second := capacity.NewCommitment("ana", period.ForDates(d("2024-03-05")), 7_200_000)
	other := capacity.NewCommitment("bruno", period.ForDates(d("2024-03-04")), 3_600_000)
	for _, c := range []capacity.Commitment{first, second, other} {
		require.NoError(t, s.PutCommitment(ctx, c))
	}

	got, err = s.CommitmentsFor(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)

	// Replacing keeps the original position.
	first.DailyQuantityMs = 1_800_000
	require.NoError(t, s.PutCommitment(ctx, first))
	got, err = s.CommitmentsFor(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, int64(1_800_000), got[0].DailyQuantityMs)
}

func TestStore_PeriodsAreCopied(t *testing.T) {
	s := New()
	ctx := context.Background()

	c := capacity.NewCommitment("ana", period.ForDates(d("2024-03-04")), 1)
	require.NoError(t, s.PutCommitment(ctx, c))
	c.Period.ExplicitDates.Add(d("2024-03-05"))

	got, err := s.CommitmentsFor(ctx, "ana")
	require.NoError(t, err)
	got[0].Period.ExplicitDates.Add(d("2024-03-06"))

	again, err := s.CommitmentsFor(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-04"}, again[0].Period.ExplicitDates.Strings())
}

func TestStore_Groups(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := assignment.Key{ClientID: "c1", ProductID: "p1", TaskID: "t1", ResponsibleID: "ana"}
	otherKey := key
	otherKey.TaskID = "t2"

	g1 := assignment.Group{ID: uuid.New(), Key: key, Period: period.ForDates(d("2024-03-04"))}
	g2 := assignment.Group{ID: uuid.New(), Key: otherKey, Period: period.ForDates(d("2024-03-04"))}
	require.NoError(t, s.PutGroup(ctx, g1))
	require.NoError(t, s.PutGroup(ctx, g2))

	got, err := s.Groups(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, g1.ID, got[0].ID)
}

func TestStore_Delete(t *testing.T) {
	s := New()
	ctx := context.Background()

	id := uuid.New()
	key := assignment.Key{ClientID: "c1", ProductID: "p1", TaskID: "t1", ResponsibleID: "ana"}
	require.NoError(t, s.PutCommitment(ctx, capacity.Commitment{ID: id, ResponsibleID: "ana"}))
	require.NoError(t, s.PutGroup(ctx, assignment.Group{ID: id, Key: key}))

	require.NoError(t, s.Delete(ctx, id))

	commitments, err := s.CommitmentsFor(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, commitments)
	groups, err := s.Groups(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, groups)

	err = s.Delete(ctx, id)
	require.Error(t, err)
	assert.True(t, store.IsType(err, store.ErrNotFound))
}

func TestStore_InvalidInput(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.PutCommitment(ctx, capacity.Commitment{ResponsibleID: "ana"})
	assert.True(t, store.IsType(err, store.ErrInvalidInput))

	err = s.PutCommitment(ctx, capacity.Commitment{ID: uuid.New(), DailyQuantityMs: -1})
	assert.True(t, store.IsType(err, store.ErrInvalidInput))

	err = s.PutGroup(ctx, assignment.Group{})
	assert.True(t, store.IsType(err, store.ErrInvalidInput))
}

func TestStore_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CommitmentsFor(ctx, "ana")
	require.Error(t, err)
	assert.True(t, store.IsType(err, store.ErrUnavailable))
	assert.ErrorIs(t, err, context.Canceled)
}
