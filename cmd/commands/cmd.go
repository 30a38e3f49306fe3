package commands

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/urfave/cli/v2"

	"github.com/easysystem/assistant/commands/embedlink"
	"github.com/easysystem/assistant/commands/meta"
	"github.com/easysystem/assistant/commands/update"
	"github.com/easysystem/assistant/common/log"
)

var Command = &cli.Command{
	Name:   "commands",
	Usage:  "Synchronize slash commands",
	Action: run,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "token",
			Usage:    "The bot's token",
			EnvVars:  []string{"TOKEN"},
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "global",
			Usage: "Synchronize slash commands globally (mutually exclusive with --guild)",
		},
		&cli.Uint64Flag{
			Name:  "guild",
			Usage: "Synchronize slash commands to a specific guild",
		},
	},
}

// Commands returns every slash command the bot registers.
func Commands() []api.CreateCommandData {
	var cmds []api.CreateCommandData
	cmds = append(cmds, embedlink.Commands...)
	cmds = append(cmds, update.Commands...)
	cmds = append(cmds, meta.Commands...)
	return cmds
}

func run(c *cli.Context) error {
	global := c.Bool("global")
	guild := c.Uint64("guild")
	if global && guild != 0 {
		return cli.Exit("`global` and `guild` are mutually exclusive", 1)
	}
	if !global && guild == 0 {
		return cli.Exit("Neither `global` nor `guild` were set", 1)
	}

	client := api.NewClient("Bot " + c.String("token"))

	app, err := client.CurrentApplication()
	if err != nil {
		return cli.Exit("Error fetching application: "+err.Error(), 1)
	}

	if global {
		_, err = client.BulkOverwriteCommands(app.ID, Commands())
		if err != nil {
			return cli.Exit("Error overwriting commands: "+err.Error(), 1)
		}

		log.Info("Wrote global commands!")
		return nil
	}

	_, err = client.BulkOverwriteGuildCommands(app.ID, discord.GuildID(guild), Commands())
	if err != nil {
		return cli.Exit("Error overwriting commands: "+err.Error(), 1)
	}

	log.Infof("Wrote guild commands in %v!", guild)
	return nil
}
