package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/breakroster/breakbot/breakbot/database/models"
	"github.com/uptrace/bun"
)

// BookingRepository is the durable booking store. It carries no business
// rules: capacity and dedup enforcement live in the allocation engine, which
// serializes the calls that need to compose atomically. Every method here is
// a single statement and therefore atomic on its own.
type BookingRepository interface {
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

type bookingRepository struct {
	db *bun.DB
}

func NewBookingRepository(db *bun.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) CountActive(ctx context.Context, categoryKey, startTime string) (int, error) {
	return r.db.NewSelect().
		Model((*models.Booking)(nil)).
		Where("category_key = ?", categoryKey).
		Where("start_time = ?", startTime).
		Where("status = ?", models.BookingStatusActive).
		Count(ctx)
}

func (r *bookingRepository) FindActiveByUserAndCategory(ctx context.Context, userID, categoryKey string) (*models.Booking, error) {
	b := new(models.Booking)
	err := r.db.NewSelect().
		Model(b).
		Where("user_id = ?", userID).
		Where("category_key = ?", categoryKey).
		Where("status = ?", models.BookingStatusActive).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Insert(ctx context.Context, b *models.Booking) error {
	_, err := r.db.NewInsert().Model(b).Exec(ctx)
	if err != nil {
		slog.Error("Failed to insert booking",
			slog.String("type", "db"),
			slog.String("operation", "Insert"),
			slog.String("user_id", b.UserID),
			slog.String("category", b.CategoryKey),
			slog.String("slot", b.StartTime),
			slog.Any("error", err))
	}
	return err
}

func (r *bookingRepository) ListActiveByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.NewSelect().
		Model(&bookings).
		Where("user_id = ?", userID).
		Where("status = ?", models.BookingStatusActive).
		Order("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ListAllActive(ctx context.Context) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	err := r.db.NewSelect().
		TableExpr("bookings AS b").
		ColumnExpr("b.category_key, b.start_time, b.end_time").
		ColumnExpr("COALESCE(u.full_name, '') AS user_name").
		Join("LEFT JOIN users AS u ON u.discord_id = b.user_id").
		Where("b.status = ?", models.BookingStatusActive).
		OrderExpr("b.start_time ASC, b.category_key ASC").
		Scan(ctx, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *bookingRepository) CancelAllForUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("status = ?", models.BookingStatusCancelled).
		Where("user_id = ?", userID).
		Where("status = ?", models.BookingStatusActive).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *bookingRepository) CancelForUserAndCategory(ctx context.Context, userID, categoryKey string) (int64, error) {
	result, err := r.db.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("status = ?", models.BookingStatusCancelled).
		Where("user_id = ?", userID).
		Where("category_key = ?", categoryKey).
		Where("status = ?", models.BookingStatusActive).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *bookingRepository) CancelAllActive(ctx context.Context) (int64, error) {
	result, err := r.db.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("status = ?", models.BookingStatusCancelled).
		Where("status = ?", models.BookingStatusActive).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *bookingRepository) CountAllActive(ctx context.Context) (int, error) {
	return r.db.NewSelect().
		Model((*models.Booking)(nil)).
		Where("status = ?", models.BookingStatusActive).
		Count(ctx)
}
