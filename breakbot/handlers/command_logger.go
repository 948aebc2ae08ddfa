package handlers

import (
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
)

const slowThreshold = 2 * time.Second

// WrapWithLogging wraps a command handler with start/completion logging.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		err := h(e)
		logCompletion("cmd", name, e.User().Username, time.Since(start), err)
		return err
	}
}

// WrapComponentWithLogging wraps a component handler with start/completion
// logging.
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		start := time.Now()

		slog.Info("Component interaction started",
			slog.String("type", "component"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		err := h(e)
		logCompletion("component", name, e.User().Username, time.Since(start), err)
		return err
	}
}

func logCompletion(kind, name, userName string, took time.Duration, err error) {
	attrs := []any{
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_name", userName),
		slog.Duration("took", took),
	}

	switch {
	case err != nil:
		slog.Error("Interaction failed", append(attrs,
			slog.Any("error", err),
			slog.String("status", "failed"),
		)...)
	case took > slowThreshold:
		slog.Warn("Interaction executed slowly", append(attrs,
			slog.String("status", "slow"),
		)...)
	default:
		slog.Info("Interaction completed", append(attrs,
			slog.String("status", "success"),
		)...)
	}
}
