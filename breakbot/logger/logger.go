package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

// Handler is a colored console slog handler. Gateway chatter from the Discord
// client library is filtered out so command and booking activity stays
// readable.
type Handler struct {
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func NewHandler(level slog.Level) *Handler {
	return &Handler{level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		level:  h.level,
		attrs:  append(h.attrs, attrs...),
		groups: h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		level:  h.level,
		attrs:  h.attrs,
		groups: append(h.groups, name),
	}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	var levelColor, levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelColor, levelText = colorPurple, "DEBUG"
	case slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	case slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	default:
		levelColor, levelText = colorRed, "ERROR"
	}

	var attrsStr strings.Builder
	appendAttr := func(a slog.Attr) {
		if !isInternalAttr(a.Key) {
			fmt.Fprintf(&attrsStr, " %s=%v", a.Key, a.Value)
		}
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})

	fmt.Printf("%s[breakbot] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		time.Now().Format("15:04:05"),
		levelColor,
		levelText,
		colorWhite,
		logType(&r),
		r.Message,
		attrsStr.String(),
		colorReset,
	)
	return nil
}

func logType(r *slog.Record) LogType {
	t := TypeSystem
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "type" {
			switch a.Value.String() {
			case "cmd", "component":
				t = TypeCommand
			case "db":
				t = TypeDB
			case "error":
				t = TypeError
			}
			return false
		}
		return true
	})
	return t
}

func shouldSkipLog(r *slog.Record) bool {
	skippedMessages := []string{
		"gateway event",
		"received gateway message",
		"sending gateway command",
		"sending heartbeat",
		"locking buckets",
		"unlocking buckets",
		"new request",
		"new response",
		"rate limit response headers",
	}

	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func isInternalAttr(key string) bool {
	switch key {
	case "type":
		return true
	}
	return false
}
