package update

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/common"
)

var customEmojiRe = regexp.MustCompile(`^<a?:(\w+):(\d{15,20})>$`)

// parseEmoji accepts a custom emoji as sent in a message, or a single unicode emoji.
func parseEmoji(s string) (discord.APIEmoji, bool) {
	s = strings.TrimSpace(s)
	if groups := customEmojiRe.FindStringSubmatch(s); groups != nil {
		return discord.APIEmoji(groups[1] + ":" + groups[2]), true
	}

	if strings.ContainsFunc(s, unicode.IsSpace) || !strings.ContainsFunc(s, func(r rune) bool { return r > unicode.MaxASCII }) {
		return "", false
	}
	return discord.APIEmoji(s), true
}

// formatEmoji shows an emoji stored by parseEmoji in a message.
func formatEmoji(e discord.APIEmoji) string {
	if name, id, ok := strings.Cut(string(e), ":"); ok {
		return "<:" + name + ":" + id + ">"
	}
	return string(e)
}

func (bot *Bot) setRole(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	var opts struct {
		Channel discord.ChannelID `discord:"channel"`
		Role    discord.RoleID    `discord:"role"`
	}
	if err := data.Options.Unmarshal(&opts); err != nil {
		return bot.ReportError(data.Event, err)
	}

	_, err := bot.store.Update(ctx, data.Event.GuildID, opts.Channel, func(cs *ChannelSettings) {
		cs.RoleID = opts.Role
	})
	if err != nil {
		return bot.ReportError(data.Event, err)
	}

	return bot.Reply("", discord.Embed{
		Title: "Mention role set",
		Description: fmt.Sprintf("The mention role for the channel has been successfully set.\n> **Channel:** %v\n> **Role:** %v",
			opts.Channel.Mention(), opts.Role.Mention()),
		Color: common.ColourSuccess,
	})
}

func (bot *Bot) setEmoji(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	var opts struct {
		Channel discord.ChannelID `discord:"channel"`
		Emoji   string            `discord:"emoji"`
	}
	if err := data.Options.Unmarshal(&opts); err != nil {
		return bot.ReportError(data.Event, err)
	}

	emoji, ok := parseEmoji(opts.Emoji)
	if !ok {
		return bot.Fail("That is not a valid emoji.")
	}

	_, err := bot.store.Update(ctx, data.Event.GuildID, opts.Channel, func(cs *ChannelSettings) {
		cs.Emoji = emoji
	})
	if err != nil {
		return bot.ReportError(data.Event, err)
	}

	return bot.Reply("", discord.Embed{
		Title: "Emoji set",
		Description: fmt.Sprintf("The emoji has been successfully set.\n> **Channel:** %v\n> **Emoji:** %v",
			opts.Channel.Mention(), formatEmoji(emoji)),
		Color: common.ColourSuccess,
	})
}

func (bot *Bot) clear(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	var opts struct {
		Channel discord.ChannelID `discord:"channel"`
	}
	if err := data.Options.Unmarshal(&opts); err != nil {
		return bot.ReportError(data.Event, err)
	}

	err := bot.store.Clear(ctx, data.Event.GuildID, opts.Channel)
	if err != nil {
		return bot.ReportError(data.Event, err)
	}

	return bot.Reply("", discord.Embed{
		Title:       "Settings cleared",
		Description: "The settings for the update channel have been cleared.\n> **Channel:** " + opts.Channel.Mention(),
		Color:       common.ColourSuccess,
	})
}

func (bot *Bot) list(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	text, err := listText(ctx, bot.store, data.Event.GuildID)
	if err != nil {
		return bot.ReportError(data.Event, err)
	}

	return bot.Reply("", discord.Embed{
		Title:       "Update Channels",
		Description: text,
		Color:       common.ColourSelect,
	})
}

func listText(ctx context.Context, store *Store, guildID discord.GuildID) (string, error) {
	ids, err := store.Channels(ctx, guildID)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "There are no update channels set up.", nil
	}

	var b strings.Builder
	for _, id := range ids {
		cs, err := store.Channel(ctx, guildID, id)
		if err != nil {
			return "", err
		}

		emoji, role := "None", "None"
		if cs.Emoji != "" {
			emoji = formatEmoji(cs.Emoji)
		}
		if cs.RoleID.IsValid() {
			role = cs.RoleID.Mention()
		}
		fmt.Fprintf(&b, "### %v\n> **Emoji:** %v\n> **Role:** %v\n", id.Mention(), emoji, role)
	}
	return b.String(), nil
}
