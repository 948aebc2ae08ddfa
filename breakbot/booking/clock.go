package booking

import (
	"fmt"
	"time"
)

const (
	// ClockLayout is the wire format for slot times-of-day.
	ClockLayout = "15:04"

	DefaultSlotCount = 8
	DefaultSlotStep  = 30 * time.Minute
)

// OfferableSlots returns the next count bookable start times, spaced step
// apart, beginning at now truncated to the whole minute. Full slots are not
// filtered here; occupancy annotation is the query service's job. Slots that
// cross midnight wrap modulo 24 hours; there is no date dimension, the bot
// operates on a single-day window.
func OfferableSlots(now time.Time, count int, step time.Duration) []string {
	if count <= 0 {
		count = DefaultSlotCount
	}
	if step <= 0 {
		step = DefaultSlotStep
	}
	now = now.Truncate(time.Minute)

	slots := make([]string, 0, count)
	for i := 0; i < count; i++ {
		slots = append(slots, now.Add(time.Duration(i)*step).Format(ClockLayout))
	}
	return slots
}

// ParseClock validates an HH:MM time-of-day string.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time-of-day %q: %w", s, err)
	}
	return t, nil
}

// ShiftClock returns the HH:MM string advanced by d, wrapping modulo 24 hours.
func ShiftClock(hhmm string, d time.Duration) (string, error) {
	t, err := ParseClock(hhmm)
	if err != nil {
		return "", err
	}
	return t.Add(d).Format(ClockLayout), nil
}
