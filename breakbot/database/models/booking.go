package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// Booking is one claimed seat in a break slot. Start and end times are
// wall-clock HH:MM strings with no date component; end time is computed once
// at creation and never recomputed. Cancelled rows are kept for history.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull"`
	CategoryKey string    `bun:"category_key,notnull"`
	StartTime   string    `bun:"start_time,notnull"`
	EndTime     string    `bun:"end_time,notnull"`
	Status      string    `bun:"status,notnull,default:'active'"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

// QueueEntry is an active booking joined with the display name of its owner,
// as produced by the global queue query.
type QueueEntry struct {
	CategoryKey string `bun:"category_key"`
	StartTime   string `bun:"start_time"`
	EndTime     string `bun:"end_time"`
	UserName    string `bun:"user_name"`
}
