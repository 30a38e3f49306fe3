// Package settings defines a scoped key-value store for guild and channel settings.
// Values are stored as JSON. There are no transactions across keys: the last write wins.
package settings

import (
	"context"
	"fmt"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
)

const ErrNotFound = errors.Sentinel("value not found in store")

// Scope is the guild, and optionally the channel, a value belongs to.
type Scope struct {
	GuildID   discord.GuildID
	ChannelID discord.ChannelID
}

// Guild returns a guild-wide scope.
func Guild(id discord.GuildID) Scope {
	return Scope{GuildID: id}
}

// Channel returns a scope for a single channel in a guild.
func Channel(guildID discord.GuildID, channelID discord.ChannelID) Scope {
	return Scope{GuildID: guildID, ChannelID: channelID}
}

func (s Scope) String() string {
	if !s.ChannelID.IsValid() {
		return s.GuildID.String()
	}
	return fmt.Sprintf("%v:%v", s.GuildID, s.ChannelID)
}

type Store interface {
	// Get decodes the value at key into v. It returns ErrNotFound if the key is unset.
	Get(ctx context.Context, scope Scope, key string, v any) error
	Set(ctx context.Context, scope Scope, key string, v any) error
	Delete(ctx context.Context, scope Scope, key string) error
}
