package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/breakroster/breakbot/breakbot"
	"github.com/breakroster/breakbot/breakbot/booking"
	"github.com/breakroster/breakbot/breakbot/commands"
	"github.com/breakroster/breakbot/breakbot/database"
	"github.com/breakroster/breakbot/breakbot/database/repositories"
	"github.com/breakroster/breakbot/breakbot/logger"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := breakbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	logger.LogSystem("Starting break bot",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		logger.LogError("Database connection failed", err,
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		logger.LogError("Failed to initialize database schema", err)
		os.Exit(-1)
	}
	logger.LogSystem("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := breakbot.New(*cfg, version, commit)
	b.DB = db
	b.UserRepository = repositories.NewUserRepository(db.BunDB())
	b.BookingRepository = repositories.NewBookingRepository(db.BunDB())

	b.Registry = booking.DefaultRegistry()
	b.Engine = booking.NewEngine(b.Registry, b.BookingRepository)
	b.Query = booking.NewQuery(b.Registry, b.BookingRepository, b.UserRepository)

	resetCtx, resetCancel := context.WithCancel(context.Background())
	defer resetCancel()
	if cfg.Booking.DailyReset {
		b.Engine.StartDailyReset(resetCtx)
	}

	h := handler.New()
	h.Command("/version", commands.VersionHandler(b))
	commands.NewBreakHandler(b).Register(h)

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		logger.LogError("Failed to setup bot", err)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		logger.LogSystem("Syncing commands", slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.All(b.Registry), cfg.Bot.DevGuilds); err != nil {
			logger.LogError("Failed to sync commands", err)
		}
	}

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err = b.Client.OpenGateway(gwCtx); err != nil {
		logger.LogError("Failed to open gateway", err)
		os.Exit(-1)
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	logger.LogSystem("Shutting down bot...")
}
