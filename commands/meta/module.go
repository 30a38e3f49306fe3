// Package meta has the bot's informational commands.
package meta

import (
	"github.com/diamondburned/arikawa/v3/api"

	"github.com/easysystem/assistant/bot"
	"github.com/easysystem/assistant/common/log"
)

type Bot struct {
	*bot.Bot
}

var Commands = []api.CreateCommandData{
	{
		Name:        "help",
		Description: "Show information about the bot and its commands.",
	},
	{
		Name:        "ping",
		Description: "Check the bot's latency.",
	},
	{
		Name:        "invite",
		Description: "Get a link to invite the bot to your server.",
	},
}

func Setup(root *bot.Bot) {
	log.Debug("Adding meta commands")

	bot := &Bot{Bot: root}

	bot.AddCommands(Commands...)
	bot.Router.AddFunc("help", bot.help)
	bot.Router.AddFunc("ping", bot.ping)
	bot.Router.AddFunc("invite", bot.invite)
}
