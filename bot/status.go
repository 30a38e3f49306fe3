package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"

	"github.com/easysystem/assistant/common/log"
)

// StatusLoop sets every shard's status to the help command and the server count,
// every 10 minutes until ctx is cancelled.
func (bot *Bot) StatusLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()

	// give the shards time to receive their guilds
	select {
	case <-ctx.Done():
		return
	case <-time.After(15 * time.Second):
	}

	for {
		bot.updateStatus(ctx)

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (bot *Bot) updateStatus(ctx context.Context) {
	guildCount := 0
	bot.Manager.ForEach(func(s shard.Shard) {
		guilds, _ := s.(*state.State).GuildStore.Guilds()
		guildCount += len(guilds)
	})

	str := "/help"
	if guildCount != 0 {
		str += fmt.Sprintf(" | in %v servers", guildCount)
	}

	shardNumber := 0
	bot.Manager.ForEach(func(s shard.Shard) {
		i := shardNumber
		shardNumber++

		status := str
		if bot.Manager.NumShards() > 1 {
			status = fmt.Sprintf("%v | shard #%v", status, i)
		}

		err := s.(*state.State).Gateway().Send(ctx, &gateway.UpdatePresenceCommand{
			Status: discord.OnlineStatus,
			Activities: []discord.Activity{{
				Name: status,
				Type: discord.GameActivity,
			}},
		})
		if err != nil {
			log.Errorf("Error setting status for shard #%v: %v", i, err)
		}
	})
	log.Debugf("Updated status, in %v servers", guildCount)
}
