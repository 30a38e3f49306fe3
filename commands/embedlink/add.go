package embedlink

import (
	"context"
	"fmt"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/links"
	"github.com/easysystem/assistant/messaging"
)

// userMessages maps registry errors to what the user is told.
var userMessages = []struct {
	err error
	msg string
}{
	{links.ErrEmptyName, "A message link needs a name."},
	{links.ErrDuplicateOrigin, "The origin message is already linked."},
	{links.ErrAmbiguousTarget, "You can't provide both a target message and a target channel."},
	{links.ErrForeignTarget, "The target message has to be sent by the bot."},
	{links.ErrDuplicateName, "A message link with that name already exists."},
	{links.ErrDuplicateTarget, "The target message is already linked."},
	{links.ErrUnknownLink, "If you don't provide a target message or channel, you have to provide the name of an existing message link to append a new origin message to."},
	{links.ErrOriginNotFound, "The origin message could not be found. Enter a message link, or message ID (in the same channel)."},
	{links.ErrTargetNotFound, "The target message could not be found. Enter a message link, or message ID (in the same channel)."},
}

// userMessage returns the message for a registry error, or false if err is unexpected.
func userMessage(err error) (string, bool) {
	var vErr *links.VanishedError
	if errors.As(err, &vErr) {
		return vErr.Message(), true
	}

	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg, true
		}
	}

	if messaging.IsForbidden(err) {
		return "I don't have permission to do that in one of those channels.", true
	}
	return "", false
}

func (bot *Bot) fail(ev *discord.InteractionEvent, err error) *api.InteractionResponseData {
	if msg, ok := userMessage(err); ok {
		return bot.Fail(msg)
	}
	return bot.ReportError(ev, err)
}

// parseRef parses a message reference given as a command option. Links to other servers are rejected.
func parseRef(s string, ev *discord.InteractionEvent) (messaging.Ref, bool) {
	ref, guildID, err := messaging.ParseRef(s, ev.ChannelID)
	if err != nil {
		return ref, false
	}
	if guildID.IsValid() && guildID != ev.GuildID {
		return ref, false
	}
	return ref, true
}

func (bot *Bot) add(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	var opts struct {
		Name          string            `discord:"name"`
		Origin        string            `discord:"origin-message"`
		TargetMessage string            `discord:"target-message?"`
		TargetChannel discord.ChannelID `discord:"target-channel?"`
	}
	if err := data.Options.Unmarshal(&opts); err != nil {
		return bot.ReportError(data.Event, err)
	}

	req := links.AddRequest{
		GuildID: data.Event.GuildID,
		Name:    opts.Name,
		Channel: opts.TargetChannel,
	}

	var ok bool
	req.Origin, ok = parseRef(opts.Origin, data.Event)
	if !ok {
		return bot.fail(data.Event, links.ErrOriginNotFound)
	}

	if opts.TargetMessage != "" {
		target, ok := parseRef(opts.TargetMessage, data.Event)
		if !ok {
			return bot.fail(data.Event, links.ErrTargetNotFound)
		}
		req.Target = &target
	}

	res, err := bot.Links.Add(ctx, req)
	if err != nil {
		return bot.fail(data.Event, err)
	}

	var msg string
	if res.Appended {
		msg = "Successfully appended new origin message."
	} else {
		msg = "Successfully linked messages."
	}
	if !res.Rendered {
		msg += " The origin messages don't contain any directives yet, use `/embed-link template` to see them."
	}
	msg += fmt.Sprintf("\nTarget: %v", res.Record.Target().Link(data.Event.GuildID))

	return bot.Success(msg)
}

func (bot *Bot) remove(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	var opts struct {
		Name string `discord:"name"`
	}
	if err := data.Options.Unmarshal(&opts); err != nil {
		return bot.ReportError(data.Event, err)
	}

	_, err := bot.Links.Remove(ctx, data.Event.GuildID, opts.Name)
	if err != nil {
		if errors.Is(err, links.ErrUnknownLink) {
			return bot.Fail("No message link with that name exists.")
		}
		return bot.ReportError(data.Event, err)
	}

	return bot.Success("Successfully unlinked message.")
}
