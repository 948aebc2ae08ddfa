package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/breakroster/breakbot/breakbot/database/models"
)

// ErrUnknownCategory is returned when a caller supplies a category key that is
// not in the registry. Always a caller bug, never retried.
var ErrUnknownCategory = errors.New("unknown break category")

// SlotFullError rejects a booking that would exceed the slot's capacity.
type SlotFullError struct {
	CategoryKey string
	StartTime   string
	Active      int
	Capacity    int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("slot %s %s is full: %d/%d", e.CategoryKey, e.StartTime, e.Active, e.Capacity)
}

// DuplicateBookingError rejects a booking while the user already holds an
// active one in the same category.
type DuplicateBookingError struct {
	Existing *models.Booking
}

func (e *DuplicateBookingError) Error() string {
	return fmt.Sprintf("user %s already has an active %s booking at %s",
		e.Existing.UserID, e.Existing.CategoryKey, e.Existing.StartTime)
}

// Store is the persistence surface the engine and query service operate on.
// Each call is atomic on its own; the engine is responsible for making the
// count-then-insert sequence atomic across calls.
type Store interface {
	CountActive(ctx context.Context, categoryKey, startTime string) (int, error)
	FindActiveByUserAndCategory(ctx context.Context, userID, categoryKey string) (*models.Booking, error)
	Insert(ctx context.Context, b *models.Booking) error
	ListActiveByUser(ctx context.Context, userID string) ([]*models.Booking, error)
	ListAllActive(ctx context.Context) ([]models.QueueEntry, error)
	CancelAllForUser(ctx context.Context, userID string) (int64, error)
	CancelForUserAndCategory(ctx context.Context, userID, categoryKey string) (int64, error)
	CancelAllActive(ctx context.Context) (int64, error)
	CountAllActive(ctx context.Context) (int, error)
}

// Engine commits booking requests against the registry and store. It is the
// only mutating component and the sole synchronization point: the mutex
// serializes the capacity check, the dedup check and the insert so that two
// concurrent requests can never both claim the last open seat.
type Engine struct {
	mu    sync.Mutex
	reg   *Registry
	store Store
}

func NewEngine(reg *Registry, store Store) *Engine {
	return &Engine{reg: reg, store: store}
}

// Book claims a seat in the (categoryKey, startTime) slot for userID. On
// success the committed booking is returned. Rejections are typed:
// ErrUnknownCategory, *SlotFullError or *DuplicateBookingError; anything else
// is a storage failure.
func (e *Engine) Book(ctx context.Context, userID, categoryKey, startTime string) (*models.Booking, error) {
	cat, ok := e.reg.Lookup(categoryKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryKey)
	}
	endTime, err := ShiftClock(startTime, cat.Duration())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	active, err := e.store.CountActive(ctx, cat.Key, startTime)
	if err != nil {
		return nil, fmt.Errorf("count active bookings: %w", err)
	}
	if active >= cat.Capacity {
		return nil, &SlotFullError{
			CategoryKey: cat.Key,
			StartTime:   startTime,
			Active:      active,
			Capacity:    cat.Capacity,
		}
	}

	existing, err := e.store.FindActiveByUserAndCategory(ctx, userID, cat.Key)
	if err != nil {
		return nil, fmt.Errorf("look up existing booking: %w", err)
	}
	if existing != nil {
		return nil, &DuplicateBookingError{Existing: existing}
	}

	b := &models.Booking{
		UserID:      userID,
		CategoryKey: cat.Key,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      models.BookingStatusActive,
		CreatedAt:   time.Now(),
	}
	if err := e.store.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	slog.Info("Booking committed",
		slog.String("type", "sys"),
		slog.String("user_id", userID),
		slog.String("category", cat.Key),
		slog.String("slot", startTime),
		slog.Int("occupancy", active+1),
		slog.Int("capacity", cat.Capacity))
	return b, nil
}

// CancelAll cancels every active booking the user holds and returns how many
// were affected. Zero is not an error.
func (e *Engine) CancelAll(ctx context.Context, userID string) (int64, error) {
	n, err := e.store.CancelAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("cancel bookings: %w", err)
	}
	return n, nil
}

// CancelCategory cancels the user's active booking in one category.
func (e *Engine) CancelCategory(ctx context.Context, userID, categoryKey string) (int64, error) {
	cat, ok := e.reg.Lookup(categoryKey)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryKey)
	}
	n, err := e.store.CancelForUserAndCategory(ctx, userID, cat.Key)
	if err != nil {
		return 0, fmt.Errorf("cancel %s booking: %w", cat.Key, err)
	}
	return n, nil
}

// StartDailyReset cancels all remaining active bookings at each local
// midnight so time-of-day slots roll over to the next day. Without it,
// history accumulates under time-of-day keys indefinitely.
func (e *Engine) StartDailyReset(ctx context.Context) {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
			timer := time.NewTimer(time.Until(next))

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				n, err := e.store.CancelAllActive(ctx)
				if err != nil {
					slog.Error("Daily slot reset failed",
						slog.String("type", "sys"),
						slog.Any("error", err))
					continue
				}
				slog.Info("Daily slot reset completed",
					slog.String("type", "sys"),
					slog.Int64("cancelled", n))
			}
		}
	}()
}
