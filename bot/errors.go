package bot

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/common/log"
)

// ReportError logs err, sends it to Sentry if enabled, and returns a response showing the user an error code.
func (bot *Bot) ReportError(ev *discord.InteractionEvent, err error) *api.InteractionResponseData {
	log.Errorf("Internal error in interaction %v: %v", ev.ID, err)

	support := ""
	if bot.Config.Info.SupportServer != "" {
		support = fmt.Sprintf(" If this issue persists, please contact the developer "+
			"in the [support server](%v).", bot.Config.Info.SupportServer)
	}

	if bot.Config.Auth.Sentry == "" {
		return bot.Ephemeral("", discord.Embed{
			Title:       "Internal error occurred",
			Description: "An internal error has occurred." + support,
			Color:       common.ColourFail,
			Timestamp:   discord.NowTimestamp(),
		})
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		if id := ev.SenderID(); id.IsValid() {
			scope.SetUser(sentry.User{ID: id.String()})
		}
		scope.SetTag("guild", ev.GuildID.String())
	})

	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Data: map[string]any{
			"user":    ev.SenderID(),
			"channel": ev.ChannelID,
		},
		Level:     sentry.LevelError,
		Timestamp: time.Now().UTC(),
	}, nil)

	id := hub.CaptureException(err)
	if id == nil {
		uid := uuid.New().String()
		id = (*sentry.EventID)(&uid)
	}

	return bot.Ephemeral(fmt.Sprintf("Error code: ``%v``", string(*id)), discord.Embed{
		Title:       "Internal error occurred",
		Description: "An internal error has occurred." + support + " Include the error code above.",
		Color:       common.ColourFail,
		Timestamp:   discord.NowTimestamp(),
		Footer: &discord.EmbedFooter{
			Text: string(*id),
		},
	})
}
