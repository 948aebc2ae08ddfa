package breakbot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/breakroster/breakbot/breakbot/database"
	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.Booking.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Bot     BotConfig         `toml:"bot"`
	DB      database.DBConfig `toml:"db"`
	Booking BookingConfig     `toml:"booking"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

// BookingConfig tunes the slot picker. Categories themselves are fixed per
// deployment in the registry, not configured here.
type BookingConfig struct {
	SlotCount   int  `toml:"slot_count"`
	SlotStepMin int  `toml:"slot_step_min"`
	DailyReset  bool `toml:"daily_reset"`
}

func (c *BookingConfig) applyDefaults() {
	if c.SlotCount <= 0 {
		c.SlotCount = 8
	}
	if c.SlotStepMin <= 0 {
		c.SlotStepMin = 30
	}
}
