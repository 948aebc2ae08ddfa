package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/breakroster/breakbot/breakbot"
	"github.com/breakroster/breakbot/breakbot/booking"
	"github.com/breakroster/breakbot/breakbot/handlers"
	"github.com/breakroster/breakbot/breakbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
)

const queueEntriesPerPage = 12

// NewBreakCommand builds the /break command with category choices taken from
// the registry.
func NewBreakCommand(reg *booking.Registry) discord.SlashCommandCreate {
	var choices []discord.ApplicationCommandOptionChoiceString
	for _, c := range reg.Categories() {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  c.Name,
			Value: c.Key,
		})
	}

	return discord.SlashCommandCreate{
		Name:        "break",
		Description: "Book and manage break slots",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "start",
				Description: "Register and see the available break types",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "book",
				Description: "Book a break slot",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "category",
						Description: "The break type to book",
						Required:    true,
						Choices:     choices,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "mine",
				Description: "Show your active bookings",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "queue",
				Description: "Show the whole break queue",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "cancel",
				Description: "Cancel your bookings",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "category",
						Description: "Cancel only this break type (default: all)",
						Required:    false,
						Choices:     choices,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "stats",
				Description: "Show usage statistics",
			},
		},
	}
}

type BreakHandler struct {
	bot *breakbot.Bot
}

func NewBreakHandler(b *breakbot.Bot) *BreakHandler {
	return &BreakHandler{bot: b}
}

func (h *BreakHandler) Register(r handler.Router) {
	r.Route("/break", func(r handler.Router) {
		r.Command("/start", handlers.WrapWithLogging("break-start", h.HandleStart))
		r.Command("/book", handlers.WrapWithLogging("break-book", h.HandleBook))
		r.Command("/mine", handlers.WrapWithLogging("break-mine", h.HandleMine))
		r.Command("/queue", handlers.WrapWithLogging("break-queue", h.HandleQueue))
		r.Command("/cancel", handlers.WrapWithLogging("break-cancel", h.HandleCancel))
		r.Command("/stats", handlers.WrapWithLogging("break-stats", h.HandleStats))
	})

	// Component patterns must start with /
	r.Component("/break-slot/", handlers.WrapComponentWithLogging("break-slot", h.HandleSlotSelect))
	r.Component("/break-full/", handlers.WrapComponentWithLogging("break-full", h.HandleFullSlot))
}

// registerUser upserts the user on every interaction; re-registration is a
// no-op. A failure here is logged but does not block the interaction.
func (h *BreakHandler) registerUser(ctx context.Context, user discord.User) {
	if err := h.bot.UserRepository.Upsert(ctx, user.ID.String(), user.EffectiveName()); err != nil {
		slog.Warn("Failed to register user",
			slog.String("type", "db"),
			slog.String("user_id", user.ID.String()),
			slog.Any("error", err))
	}
}

func (h *BreakHandler) HandleStart(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h.registerUser(ctx, e.User())

	var sb strings.Builder
	sb.WriteString("I keep the queue for shared breaks. Use `/break book` to grab a slot.\n\n")
	for _, c := range h.bot.Registry.Categories() {
		fmt.Fprintf(&sb, "• %s — %d min, up to %d people\n", c.Name, c.DurationMin, c.Capacity)
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       fmt.Sprintf("👋 Hi, %s!", e.User().EffectiveName()),
			Description: sb.String(),
			Color:       utils.InfoColor,
		}},
	})
}

func (h *BreakHandler) HandleBook(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h.registerUser(ctx, e.User())

	key := e.SlashCommandInteractionData().String("category")
	cat, ok := h.bot.Registry.Lookup(key)
	if !ok {
		return utils.EH.CreateError(e, "Unknown break type", fmt.Sprintf("%q is not a configured break type.", key))
	}

	slots := booking.OfferableSlots(time.Now(),
		h.bot.Cfg.Booking.SlotCount,
		time.Duration(h.bot.Cfg.Booking.SlotStepMin)*time.Minute)

	statuses, err := h.bot.Query.Availability(ctx, cat.Key, slots)
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Failed to load slot availability. Please try again.")
	}

	var rows []discord.ContainerComponent
	var buttons []discord.InteractiveComponent
	for _, s := range statuses {
		if s.Open {
			buttons = append(buttons, discord.NewSuccessButton(
				"🟢 "+s.StartTime,
				fmt.Sprintf("/break-slot/%s/%s", cat.Key, s.StartTime)))
		} else {
			buttons = append(buttons, discord.NewSecondaryButton(
				"🔴 "+s.StartTime,
				fmt.Sprintf("/break-full/%s/%s", cat.Key, s.StartTime)))
		}
		if len(buttons) == 4 {
			rows = append(rows, discord.NewActionRow(buttons...))
			buttons = nil
		}
	}
	if len(buttons) > 0 {
		rows = append(rows, discord.NewActionRow(buttons...))
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       cat.Name,
			Description: "Pick a start time:\n🟢 open · 🔴 full",
			Color:       utils.InfoColor,
		}},
		Components: rows,
	})
}

func (h *BreakHandler) HandleSlotSelect(e *handler.ComponentEvent) error {
	data, ok := e.Data.(discord.ButtonInteractionData)
	if !ok {
		return fmt.Errorf("invalid interaction type")
	}

	key, slot, ok := parseSlotCustomID(data.CustomID(), "/break-slot/")
	if !ok {
		return fmt.Errorf("malformed slot custom id %q", data.CustomID())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h.registerUser(ctx, e.User())

	b, err := h.bot.Engine.Book(ctx, e.User().ID.String(), key, slot)
	if err != nil {
		var full *booking.SlotFullError
		var dup *booking.DuplicateBookingError
		switch {
		case errors.As(err, &full):
			return utils.EH.CreateComponentError(e,
				fmt.Sprintf("❌ The %s slot is already full (%d/%d). Pick another time.",
					full.StartTime, full.Active, full.Capacity))
		case errors.As(err, &dup):
			return utils.EH.CreateComponentError(e,
				fmt.Sprintf("❌ You already have an active booking at %s–%s. Cancel it first with `/break cancel`.",
					dup.Existing.StartTime, dup.Existing.EndTime))
		case errors.Is(err, booking.ErrUnknownCategory):
			return utils.EH.CreateComponentError(e, "❌ Unknown break type.")
		default:
			slog.Error("Booking failed",
				slog.String("type", "error"),
				slog.String("user_id", e.User().ID.String()),
				slog.Any("error", err))
			return utils.EH.CreateComponentError(e, "❌ Booking failed. Please try again.")
		}
	}

	cat, _ := h.bot.Registry.Lookup(b.CategoryKey)
	return e.UpdateMessage(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Title:       "✅ Booked",
			Description: fmt.Sprintf("%s\n⏰ %s–%s", cat.Name, b.StartTime, b.EndTime),
			Color:       utils.SuccessColor,
		}},
		Components: &[]discord.ContainerComponent{},
	})
}

func (h *BreakHandler) HandleFullSlot(e *handler.ComponentEvent) error {
	data, ok := e.Data.(discord.ButtonInteractionData)
	if !ok {
		return fmt.Errorf("invalid interaction type")
	}

	key, slot, ok := parseSlotCustomID(data.CustomID(), "/break-full/")
	if !ok {
		return fmt.Errorf("malformed slot custom id %q", data.CustomID())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The slot may have opened up since the picker was rendered.
	statuses, err := h.bot.Query.Availability(ctx, key, []string{slot})
	if err == nil && len(statuses) == 1 && statuses[0].Open {
		return utils.EH.CreateComponentError(e,
			fmt.Sprintf("The %s slot has opened up — run `/break book` again to grab it.", slot))
	}
	return utils.EH.CreateComponentError(e,
		fmt.Sprintf("❌ The %s slot is already full.", slot))
}

func (h *BreakHandler) HandleMine(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h.registerUser(ctx, e.User())

	views, err := h.bot.Query.MyBookings(ctx, e.User().ID.String())
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Failed to fetch your bookings. Please try again.")
	}
	if len(views) == 0 {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: "📭 You have no active bookings.",
				Color:       utils.InfoColor,
			}},
		})
	}

	var sb strings.Builder
	for _, v := range views {
		fmt.Fprintf(&sb, "%s\n⏰ %s–%s\n👥 %d/%d\n\n", v.CategoryName, v.StartTime, v.EndTime, v.Active, v.Capacity)
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "📋 Your active bookings",
			Description: sb.String(),
			Color:       utils.InfoColor,
		}},
	})
}

func (h *BreakHandler) HandleQueue(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	groups, err := h.bot.Query.GlobalQueue(ctx)
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Failed to fetch the queue. Please try again.")
	}
	if len(groups) == 0 {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: "📭 The queue is empty.",
				Color:       utils.InfoColor,
			}},
		})
	}

	var lines []string
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("**%s**", g.Category.Name))
		for _, entry := range g.Entries {
			lines = append(lines, fmt.Sprintf("⏰ %s–%s — %s (%d/%d)",
				entry.StartTime, entry.EndTime, entry.UserName, entry.Active, g.Category.Capacity))
		}
		lines = append(lines, "")
	}

	if len(lines) <= queueEntriesPerPage {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📊 Current queue",
				Description: strings.Join(lines, "\n"),
				Color:       utils.InfoColor,
			}},
		})
	}

	totalPages := (len(lines) + queueEntriesPerPage - 1) / queueEntriesPerPage
	return h.bot.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			startIdx := page * queueEntriesPerPage
			endIdx := min(startIdx+queueEntriesPerPage, len(lines))
			embed.
				SetTitle("📊 Current queue").
				SetDescription(strings.Join(lines[startIdx:endIdx], "\n")).
				SetColor(utils.InfoColor).
				SetFooter(fmt.Sprintf("Page %d/%d", page+1, totalPages), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func (h *BreakHandler) HandleCancel(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h.registerUser(ctx, e.User())

	data := e.SlashCommandInteractionData()
	userID := e.User().ID.String()

	var n int64
	var err error
	if key, ok := data.OptString("category"); ok {
		n, err = h.bot.Engine.CancelCategory(ctx, userID, key)
	} else {
		n, err = h.bot.Engine.CancelAll(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, booking.ErrUnknownCategory) {
			return utils.EH.CreateError(e, "Unknown break type", "That break type is not configured.")
		}
		return utils.EH.CreateError(e, "Error", "Failed to cancel. Please try again.")
	}

	if n == 0 {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: "📭 Nothing to cancel.",
				Color:       utils.InfoColor,
			}},
		})
	}
	return utils.EH.CreateSuccess(e, "✅ Cancelled",
		fmt.Sprintf("Cancelled %d booking(s).", n))
}

func (h *BreakHandler) HandleStats(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := h.bot.Query.Stats(ctx)
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Failed to fetch statistics. Please try again.")
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "📈 Statistics",
			Description: fmt.Sprintf("👥 Registered users: %d\n📋 Active bookings: %d", stats.Users, stats.ActiveBookings),
			Color:       utils.InfoColor,
		}},
	})
}

func parseSlotCustomID(customID, prefix string) (categoryKey, slot string, ok bool) {
	rest := strings.TrimPrefix(customID, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
