package update

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/embed"
	"github.com/easysystem/assistant/wizard"
)

const commandName = "update"

// runTimeout bounds a whole run, so a stuck gateway can't keep it registered forever.
const runTimeout = time.Hour

func (bot *Bot) update(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	var opts struct {
		Channel discord.ChannelID `discord:"channel?"`
		Mention int               `discord:"mention?"`
	}
	if err := data.Options.Unmarshal(&opts); err != nil {
		return bot.ReportError(data.Event, err)
	}
	ev := data.Event
	mention := parseMention(opts.Mention)

	if bot.Wizards.Running(ev.SenderID(), commandName) {
		return bot.Fail("You already have an update in progress. Finish or cancel it first.")
	}

	var choices []wizard.Choice
	if opts.Channel.IsValid() {
		if mention == MentionRole {
			cs, err := bot.store.Channel(ctx, ev.GuildID, opts.Channel)
			if err != nil {
				return bot.ReportError(ev, err)
			}
			if !cs.RoleID.IsValid() {
				return bot.Fail("You selected to mention a role but no role is set for the channel.")
			}
		}
	} else {
		ids, err := bot.eligibleChannels(ctx, ev.GuildID, mention)
		if err != nil {
			return bot.ReportError(ev, err)
		}
		if len(ids) == 0 {
			if mention == MentionRole {
				return bot.Fail("No update channel has a mention role set. Use `/update-settings role` to set one.")
			}
			return bot.Fail("There are no update channels set up. Use `/update-settings` to set one up, or give a channel.")
		}
		choices = channelChoices(ids)
	}

	w := newWizard(choices, opts.Channel, func(ctx context.Context, channelID discord.ChannelID, e embed.Embed) error {
		_, err := bot.deliver.Deliver(ctx, ev.GuildID, channelID, mention, e)
		return err
	})

	inv := wizard.Invocation{
		GuildID:   ev.GuildID,
		ChannelID: ev.ChannelID,
		UserID:    ev.SenderID(),
		Command:   commandName,
	}
	go bot.run(inv, w)

	return bot.Ephemeral("Follow the instructions below to write your update.")
}

// eligibleChannels returns the configured update channels that can be used with mention.
func (bot *Bot) eligibleChannels(ctx context.Context, guildID discord.GuildID, mention Mention) ([]discord.ChannelID, error) {
	ids, err := bot.store.Channels(ctx, guildID)
	if err != nil || mention != MentionRole {
		return ids, err
	}

	var out []discord.ChannelID
	for _, id := range ids {
		cs, err := bot.store.Channel(ctx, guildID, id)
		if err != nil {
			return nil, err
		}
		if cs.RoleID.IsValid() {
			out = append(out, id)
		}
	}
	return out, nil
}

func (bot *Bot) run(inv wizard.Invocation, w wizard.Wizard) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	out, err := bot.Wizards.Run(ctx, inv, w)
	if err != nil {
		if errors.Is(err, wizard.ErrAlreadyRunning) {
			return
		}
		log.Errorf("Error running update assistant for %v in %v: %v", inv.UserID, inv.GuildID, err)
		return
	}
	log.Debugf("Update assistant for %v in %v finished: %v", inv.UserID, inv.GuildID, out.State)
}
