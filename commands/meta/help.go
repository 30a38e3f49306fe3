package meta

import (
	"context"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/common"
)

var helpFields = []discord.EmbedField{
	{
		Name:  "Message links",
		Value: "`/embed-link add|remove|list|template`\nKeep a bot message in sync with the `#key# value` directives in one or more of your messages.",
	},
	{
		Name:  "Updates",
		Value: "`/update`\nWrite an update step by step and send it to an update channel.\n`/update-settings role|emoji|clear|list`\nConfigure the mention role and reaction for each update channel.",
	},
	{
		Name:  "Other",
		Value: "`/help`, `/ping`, `/invite`",
	},
}

func (bot *Bot) help(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	embed := discord.Embed{
		Title:       "Help",
		Description: "A helper bot for embeds, message links and server updates.",
		Color:       common.ColourBlurple,
		Fields:      append([]discord.EmbedField(nil), helpFields...),
		Footer: &discord.EmbedFooter{
			Text: "Version " + common.Version(),
		},
	}

	// support server invite
	if bot.Config.Info.SupportServer != "" {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  "Support server",
			Value: "Use this link to join the support server: " + bot.Config.Info.SupportServer,
		})
	}

	// extra help fields defined in configuration
	if len(bot.Config.Info.HelpFields) > 0 {
		embed.Fields = append(embed.Fields, bot.Config.Info.HelpFields...)
	}

	return bot.Ephemeral("", embed)
}
