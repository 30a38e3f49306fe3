package cmd

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/easysystem/assistant/cmd/bot"
	"github.com/easysystem/assistant/cmd/commands"
	"github.com/easysystem/assistant/cmd/migrate"
	"github.com/easysystem/assistant/common"
)

var app = &cli.App{
	Name:    "assistant",
	Usage:   "Discord bot for linked embeds and guided updates",
	Version: common.Version(),

	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
			Value:   "config.toml",
		},
	},

	Commands: []*cli.Command{
		bot.Command,
		migrate.Command,
		commands.Command,
	},
}

func Run() error {
	return app.Run(os.Args)
}
