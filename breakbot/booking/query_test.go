package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMyBookings(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	engine := NewEngine(testRegistry(), store)
	query := NewQuery(testRegistry(), store, store)

	_, err := engine.Book(ctx, "user1", "smoke", "14:00")
	require.NoError(t, err)
	_, err = engine.Book(ctx, "user1", "lunch", "12:00")
	require.NoError(t, err)
	_, err = engine.Book(ctx, "user2", "lunch", "12:00")
	require.NoError(t, err)

	views, err := query.MyBookings(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Ordered by start time, occupancy counts all users on the slot.
	assert.Equal(t, "lunch", views[0].CategoryKey)
	assert.Equal(t, "Lunch", views[0].CategoryName)
	assert.Equal(t, "12:00", views[0].StartTime)
	assert.Equal(t, "12:45", views[0].EndTime)
	assert.Equal(t, 2, views[0].Active)
	assert.Equal(t, 2, views[0].Capacity)

	assert.Equal(t, "smoke", views[1].CategoryKey)
	assert.Equal(t, 1, views[1].Active)
	assert.Equal(t, 3, views[1].Capacity)
}

func TestQueryMyBookingsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	query := NewQuery(testRegistry(), store, store)

	views, err := query.MyBookings(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestQueryGlobalQueue(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addUser("user1", "Alice")
	store.addUser("user2", "Bob")
	engine := NewEngine(testRegistry(), store)
	query := NewQuery(testRegistry(), store, store)

	_, err := engine.Book(ctx, "user1", "smoke", "11:00")
	require.NoError(t, err)
	_, err = engine.Book(ctx, "user1", "lunch", "12:00")
	require.NoError(t, err)
	_, err = engine.Book(ctx, "user2", "lunch", "12:00")
	require.NoError(t, err)
	_, err = engine.Book(ctx, "user3", "smoke", "11:00")
	require.NoError(t, err)

	groups, err := query.GlobalQueue(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Groups follow registry order, not insertion order.
	assert.Equal(t, "lunch", groups[0].Category.Key)
	assert.Equal(t, "smoke", groups[1].Category.Key)

	require.Len(t, groups[0].Entries, 2)
	for _, entry := range groups[0].Entries {
		assert.Equal(t, "12:00", entry.StartTime)
		assert.Equal(t, 2, entry.Active)
	}

	require.Len(t, groups[1].Entries, 2)
	names := []string{groups[1].Entries[0].UserName, groups[1].Entries[1].UserName}
	assert.Contains(t, names, "Alice")
	// user3 was never registered so the join yields no display name.
	assert.Contains(t, names, "Anonymous")
}

func TestQueryGlobalQueueEmpty(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	query := NewQuery(testRegistry(), store, store)

	groups, err := query.GlobalQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestQueryAvailability(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	engine := NewEngine(testRegistry(), store)
	query := NewQuery(testRegistry(), store, store)

	_, err := engine.Book(ctx, "user1", "lunch", "12:00")
	require.NoError(t, err)
	_, err = engine.Book(ctx, "user2", "lunch", "12:00")
	require.NoError(t, err)
	_, err = engine.Book(ctx, "user3", "lunch", "12:30")
	require.NoError(t, err)

	statuses, err := query.Availability(ctx, "lunch", []string{"12:00", "12:30", "13:00"})
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.Equal(t, SlotStatus{StartTime: "12:00", Active: 2, Open: false}, statuses[0])
	assert.Equal(t, SlotStatus{StartTime: "12:30", Active: 1, Open: true}, statuses[1])
	assert.Equal(t, SlotStatus{StartTime: "13:00", Active: 0, Open: true}, statuses[2])
}

func TestQueryAvailabilityUnknownCategory(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	query := NewQuery(testRegistry(), store, store)

	_, err := query.Availability(ctx, "coffee", []string{"12:00"})
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestQueryStats(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addUser("user1", "Alice")
	store.addUser("user2", "Bob")
	store.addUser("user3", "Carol")
	engine := NewEngine(testRegistry(), store)
	query := NewQuery(testRegistry(), store, store)

	_, err := engine.Book(ctx, "user1", "lunch", "12:00")
	require.NoError(t, err)
	_, err = engine.Book(ctx, "user2", "smoke", "11:00")
	require.NoError(t, err)
	n, err := engine.CancelAll(ctx, "user2")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	stats, err := query.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Users)
	assert.Equal(t, 1, stats.ActiveBookings)
}
