package booking

import (
	"context"
	"fmt"
)

// UserDirectory is the slice of the user store the query service needs.
type UserDirectory interface {
	Count(ctx context.Context) (int, error)
}

// BookingView is one of a user's active bookings annotated with the slot's
// live occupancy.
type BookingView struct {
	CategoryKey  string
	CategoryName string
	StartTime    string
	EndTime      string
	Active       int
	Capacity     int
}

// QueueGroup is one category's section of the global queue.
type QueueGroup struct {
	Category Category
	Entries  []QueueEntryView
}

type QueueEntryView struct {
	StartTime string
	EndTime   string
	UserName  string
	Active    int
}

// SlotStatus annotates a candidate slot with its occupancy for the picker.
type SlotStatus struct {
	StartTime string
	Active    int
	Open      bool
}

type Stats struct {
	Users          int
	ActiveBookings int
}

// Query answers the read-only views over the store. It enforces no
// invariants; empty results are empty slices, not errors.
type Query struct {
	reg   *Registry
	store Store
	users UserDirectory
}

func NewQuery(reg *Registry, store Store, users UserDirectory) *Query {
	return &Query{reg: reg, store: store, users: users}
}

// MyBookings lists the user's active bookings ordered by start time, each
// annotated with current occupancy and capacity.
func (q *Query) MyBookings(ctx context.Context, userID string) ([]BookingView, error) {
	bookings, err := q.store.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		active, err := q.store.CountActive(ctx, b.CategoryKey, b.StartTime)
		if err != nil {
			return nil, fmt.Errorf("count occupancy: %w", err)
		}
		cat, ok := q.reg.Lookup(b.CategoryKey)
		if !ok {
			cat = Category{Key: b.CategoryKey, Name: b.CategoryKey}
		}
		views = append(views, BookingView{
			CategoryKey:  cat.Key,
			CategoryName: cat.Name,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			Active:       active,
			Capacity:     cat.Capacity,
		})
	}
	return views, nil
}

// GlobalQueue returns all active bookings grouped by category in registry
// order, each entry annotated with its slot's occupancy. Categories with no
// active bookings are omitted.
func (q *Query) GlobalQueue(ctx context.Context) ([]QueueGroup, error) {
	entries, err := q.store.ListAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	occupancy := make(map[string]int)
	byCategory := make(map[string][]QueueEntryView)
	for _, entry := range entries {
		slotKey := entry.CategoryKey + "@" + entry.StartTime
		active, ok := occupancy[slotKey]
		if !ok {
			active, err = q.store.CountActive(ctx, entry.CategoryKey, entry.StartTime)
			if err != nil {
				return nil, fmt.Errorf("count occupancy: %w", err)
			}
			occupancy[slotKey] = active
		}
		name := entry.UserName
		if name == "" {
			name = "Anonymous"
		}
		byCategory[entry.CategoryKey] = append(byCategory[entry.CategoryKey], QueueEntryView{
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			UserName:  name,
			Active:    active,
		})
	}

	groups := make([]QueueGroup, 0, len(byCategory))
	for _, cat := range q.reg.Categories() {
		if views, ok := byCategory[cat.Key]; ok {
			groups = append(groups, QueueGroup{Category: cat, Entries: views})
		}
	}
	return groups, nil
}

// Availability reports for each candidate slot whether it is still open for
// the category. Full slots stay in the result so callers can render demand.
func (q *Query) Availability(ctx context.Context, categoryKey string, slots []string) ([]SlotStatus, error) {
	cat, ok := q.reg.Lookup(categoryKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryKey)
	}

	statuses := make([]SlotStatus, 0, len(slots))
	for _, slot := range slots {
		active, err := q.store.CountActive(ctx, cat.Key, slot)
		if err != nil {
			return nil, fmt.Errorf("count occupancy: %w", err)
		}
		statuses = append(statuses, SlotStatus{
			StartTime: slot,
			Active:    active,
			Open:      active < cat.Capacity,
		})
	}
	return statuses, nil
}

func (q *Query) Stats(ctx context.Context) (Stats, error) {
	users, err := q.users.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	active, err := q.store.CountAllActive(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count active bookings: %w", err)
	}
	return Stats{Users: users, ActiveBookings: active}, nil
}
