package commands

import (
	"github.com/breakroster/breakbot/breakbot/booking"
	"github.com/disgoorg/disgo/discord"
)

// All returns the application commands to sync. The break command's category
// choices are derived from the registry, so a new category needs no command
// code change.
func All(reg *booking.Registry) []discord.ApplicationCommandCreate {
	return []discord.ApplicationCommandCreate{
		NewBreakCommand(reg),
		Version,
	}
}
