// Package update has the update assistant, which walks a user through writing an announcement,
// and the settings for the channels updates are sent to.
package update

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/bot"
	"github.com/easysystem/assistant/common/log"
)

type Bot struct {
	*bot.Bot

	store   *Store
	deliver Deliverer
}

var updateChannelTypes = []discord.ChannelType{discord.GuildText, discord.GuildNews}

var channelOption = &discord.ChannelOption{
	OptionName:   "channel",
	Description:  "The update channel.",
	Required:     true,
	ChannelTypes: updateChannelTypes,
}

var Commands = []api.CreateCommandData{
	{
		Name:                     "update",
		Description:              "Sends an update message to the selected channel.",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionManageGuild),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.ChannelOption{
				OptionName:   "channel",
				Description:  "The channel where the update message should be sent to.",
				ChannelTypes: updateChannelTypes,
			},
			&discord.IntegerOption{
				OptionName:  "mention",
				Description: "The type of mention that should be used.",
				Choices: []discord.IntegerChoice{
					{Name: "None", Value: int(MentionNone)},
					{Name: "Role", Value: int(MentionRole)},
					{Name: "Everyone", Value: int(MentionEveryone)},
				},
			},
		},
	},
	{
		Name:                     "update-settings",
		Description:              "Update configuration options.",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionManageGuild),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.SubcommandOption{
				OptionName:  "role",
				Description: "Set the mention role for an update channel.",
				Options: []discord.CommandOptionValue{
					channelOption,
					&discord.RoleOption{
						OptionName:  "role",
						Description: "The role to mention.",
						Required:    true,
					},
				},
			},
			&discord.SubcommandOption{
				OptionName:  "emoji",
				Description: "Set the emoji added to updates in a channel.",
				Options: []discord.CommandOptionValue{
					channelOption,
					&discord.StringOption{
						OptionName:  "emoji",
						Description: "The emoji to react with.",
						Required:    true,
					},
				},
			},
			&discord.SubcommandOption{
				OptionName:  "clear",
				Description: "Clears the settings for an update channel.",
				Options:     []discord.CommandOptionValue{channelOption},
			},
			&discord.SubcommandOption{
				OptionName:  "list",
				Description: "List the settings for all update channels.",
			},
		},
	},
}

func Setup(root *bot.Bot) {
	log.Debug("Adding update commands")

	store := NewStore(root.Settings)
	bot := &Bot{
		Bot:     root,
		store:   store,
		deliver: Deliverer{Gateway: root.Gateway, Store: store},
	}

	bot.AddCommands(Commands...)
	bot.Router.AddFunc("update", bot.update)
	bot.Router.Sub("update-settings", func(r *cmdroute.Router) {
		r.AddFunc("role", bot.setRole)
		r.AddFunc("emoji", bot.setEmoji)
		r.AddFunc("clear", bot.clear)
		r.AddFunc("list", bot.list)
	})
}
