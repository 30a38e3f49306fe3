// Package embedlink has the embed-link commands and keeps message links in sync when origins are edited.
package embedlink

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/bot"
	"github.com/easysystem/assistant/common/log"
)

type Bot struct {
	*bot.Bot
}

var Commands = []api.CreateCommandData{{
	Name:                     "embed-link",
	Description:              "Manage message links.",
	DefaultMemberPermissions: discord.NewPermissions(discord.PermissionManageGuild),
	NoDMPermission:           true,
	Options: discord.CommandOptions{
		&discord.SubcommandOption{
			OptionName:  "add",
			Description: "Adds a message link.",
			Options: []discord.CommandOptionValue{
				&discord.StringOption{
					OptionName:   "name",
					Description:  "The name of the message link.",
					Required:     true,
					Autocomplete: true,
				},
				&discord.StringOption{
					OptionName:  "origin-message",
					Description: "The message to link from.",
					Required:    true,
				},
				&discord.StringOption{
					OptionName:  "target-message",
					Description: "The message to link to.",
				},
				&discord.ChannelOption{
					OptionName:   "target-channel",
					Description:  "The channel to link to. If provided, a new message will be sent in this channel.",
					ChannelTypes: []discord.ChannelType{discord.GuildText, discord.GuildNews},
				},
			},
		},
		&discord.SubcommandOption{
			OptionName:  "remove",
			Description: "Removes a message link.",
			Options: []discord.CommandOptionValue{
				&discord.StringOption{
					OptionName:   "name",
					Description:  "The name of the message link.",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		&discord.SubcommandOption{
			OptionName:  "list",
			Description: "Lists all message links.",
		},
		&discord.SubcommandOption{
			OptionName:  "template",
			Description: "Shows how to use message links.",
		},
	},
}}

func Setup(root *bot.Bot) {
	log.Debug("Adding embed-link commands")

	bot := &Bot{Bot: root}

	bot.AddCommands(Commands...)
	bot.Router.Sub("embed-link", func(r *cmdroute.Router) {
		r.AddFunc("add", bot.add)
		r.AddFunc("remove", bot.remove)
		r.AddFunc("list", bot.list)
		r.AddFunc("template", bot.template)

		r.AddAutocompleterFunc("add", bot.completeName)
		r.AddAutocompleterFunc("remove", bot.completeName)
	})

	bot.AddHandler(bot.messageUpdate)
}
