package embedlink

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/gateway"

	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/links"
	"github.com/easysystem/assistant/messaging"
)

// messageUpdate re-renders any message link the edited message is an origin of.
func (bot *Bot) messageUpdate(ev *gateway.MessageUpdateEvent) {
	if !ev.GuildID.IsValid() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := bot.Links.OnOriginEdited(ctx, ev.GuildID, messaging.Ref{ChannelID: ev.ChannelID, MessageID: ev.ID})
	if err == nil {
		return
	}

	var vErr *links.VanishedError
	if errors.As(err, &vErr) {
		log.Infof("Message link %q in %v removed after edit: %v", vErr.Link, ev.GuildID, vErr)
		return
	}

	if messaging.IsForbidden(err) {
		log.Debugf("Missing permissions to update message link in %v: %v", ev.GuildID, err)
		return
	}

	log.Errorf("Error updating message link for %v in %v: %v", ev.ID, ev.GuildID, err)
}
