package bot

import (
	"context"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/common/log"
)

// countCommands adds every command interaction to metrics.
func (bot *Bot) countCommands(next cmdroute.InteractionHandler) cmdroute.InteractionHandler {
	return cmdroute.InteractionHandlerFunc(func(ctx context.Context, ev *discord.InteractionEvent) *api.InteractionResponse {
		if data, ok := ev.Data.(*discord.CommandInteraction); ok {
			log.Debugf("Command %q invoked by %v in %v", data.Name, ev.SenderID(), ev.GuildID)
			bot.Stats.IncCommand()
		}
		return next.HandleInteraction(ctx, ev)
	})
}

// Reply returns a public response with the given content and embeds.
func (*Bot) Reply(content string, embeds ...discord.Embed) *api.InteractionResponseData {
	data := &api.InteractionResponseData{
		AllowedMentions: &api.AllowedMentions{},
	}
	if content != "" {
		data.Content = option.NewNullableString(content)
	}
	if len(embeds) > 0 {
		data.Embeds = &embeds
	}
	return data
}

// Ephemeral returns a response only the invoking user can see.
func (bot *Bot) Ephemeral(content string, embeds ...discord.Embed) *api.InteractionResponseData {
	data := bot.Reply(content, embeds...)
	data.Flags = discord.EphemeralMessage
	return data
}

// Fail returns an ephemeral error embed with the given message.
func (bot *Bot) Fail(msg string) *api.InteractionResponseData {
	return bot.Ephemeral("", discord.Embed{
		Description: msg,
		Color:       common.ColourFail,
	})
}

// Success returns an ephemeral success embed with the given message.
func (bot *Bot) Success(msg string) *api.InteractionResponseData {
	return bot.Ephemeral("", discord.Embed{
		Description: msg,
		Color:       common.ColourSuccess,
	})
}
