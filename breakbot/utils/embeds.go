package utils

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
)

func Ptr[T any](v T) *T {
	return &v
}

// ResponseHandler provides standardized response methods for commands and
// components.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

func (rh *ResponseHandler) CreateError(e *handler.CommandEvent, title, description string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: description,
			Color:       ErrorColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

func (rh *ResponseHandler) CreateSuccess(e *handler.CommandEvent, title, description string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: description,
			Color:       SuccessColor,
		}},
	})
}

func (rh *ResponseHandler) CreateComponentError(e *handler.ComponentEvent, description string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: description,
			Color:       ErrorColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}
