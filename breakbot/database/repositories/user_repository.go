package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/breakroster/breakbot/breakbot/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Upsert(ctx context.Context, discordID, fullName string) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert registers the user on first contact. Re-registration with the same
// ID is a no-op; the original display name is kept.
func (r *userRepository) Upsert(ctx context.Context, discordID, fullName string) error {
	user := &models.User{
		DiscordID:    discordID,
		FullName:     fullName,
		RegisteredAt: time.Now(),
	}
	_, err := r.db.NewInsert().
		Model(user).
		On("CONFLICT (discord_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		slog.Error("Failed to upsert user",
			slog.String("type", "db"),
			slog.String("operation", "Upsert"),
			slog.String("discord_id", discordID),
			slog.Any("error", err))
	}
	return err
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Error("Database error when getting user",
			slog.String("type", "db"),
			slog.String("operation", "GetByDiscordID"),
			slog.String("discord_id", discordID),
			slog.Any("error", err))
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().
		Model((*models.User)(nil)).
		Count(ctx)
}
