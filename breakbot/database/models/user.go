package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	DiscordID    string    `bun:"discord_id,pk"`
	FullName     string    `bun:"full_name"`
	RegisteredAt time.Time `bun:"registered_at,notnull"`
}
