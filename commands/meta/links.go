package meta

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"

	"github.com/easysystem/assistant/common"
)

const invitePerms = discord.PermissionViewChannel |
	discord.PermissionReadMessageHistory |
	discord.PermissionUseExternalEmojis |
	discord.PermissionEmbedLinks |
	discord.PermissionSendMessages |
	discord.PermissionAddReactions |
	discord.PermissionManageMessages |
	discord.PermissionMentionEveryone

func (bot *Bot) invite(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	me, err := bot.Gateway.Me(ctx)
	if err != nil {
		return bot.ReportError(data.Event, err)
	}

	link := fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%v&permissions=%v&scope=bot%%20applications.commands",
		me.ID, uint64(invitePerms))

	return bot.Ephemeral(fmt.Sprintf("Use this link to invite the bot to your server: <%v>", link))
}

func (bot *Bot) ping(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	t := time.Now()
	_, err := bot.Client.WithContext(ctx).Me()
	if err != nil {
		return bot.ReportError(data.Event, err)
	}
	latency := time.Since(t).Round(time.Millisecond)

	return bot.Ephemeral("", discord.Embed{
		Title: "Pong!",
		Fields: []discord.EmbedField{
			{Name: "API latency", Value: latency.String(), Inline: true},
			{Name: "Up since", Value: humanize.Time(time.Now().Add(-bot.Uptime())), Inline: true},
		},
		Color: common.ColourBlurple,
	})
}
