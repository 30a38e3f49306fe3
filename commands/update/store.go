package update

import (
	"context"
	"sync"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/settings"
)

const (
	// channelKey holds a ChannelSettings in channel scope.
	channelKey = "update"
	// channelsKey holds the list of configured update channels in guild scope.
	channelsKey = "update_channels"
)

// ChannelSettings configures how updates are sent to one channel.
type ChannelSettings struct {
	RoleID discord.RoleID   `json:"role_id,omitempty"`
	Emoji  discord.APIEmoji `json:"emoji,omitempty"`
}

// Store keeps update channel settings.
type Store struct {
	settings settings.Store
	mu       sync.Mutex
}

func NewStore(s settings.Store) *Store {
	return &Store{settings: s}
}

// Channels returns the guild's configured update channels, in the order they were added.
func (s *Store) Channels(ctx context.Context, guildID discord.GuildID) ([]discord.ChannelID, error) {
	var ids []discord.ChannelID
	err := s.settings.Get(ctx, settings.Guild(guildID), channelsKey, &ids)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return nil, errors.Wrap(err, "getting update channels")
	}
	return ids, nil
}

// Channel returns the settings for a channel. An unconfigured channel has zero settings.
func (s *Store) Channel(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (ChannelSettings, error) {
	var cs ChannelSettings
	err := s.settings.Get(ctx, settings.Channel(guildID, channelID), channelKey, &cs)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return cs, errors.Wrapf(err, "getting update settings for %v", channelID)
	}
	return cs, nil
}

// Update applies fn to a channel's settings and adds the channel to the guild's update channels.
func (s *Store) Update(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID, fn func(*ChannelSettings)) (ChannelSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.Channel(ctx, guildID, channelID)
	if err != nil {
		return cs, err
	}
	fn(&cs)

	err = s.settings.Set(ctx, settings.Channel(guildID, channelID), channelKey, cs)
	if err != nil {
		return cs, errors.Wrapf(err, "setting update settings for %v", channelID)
	}

	ids, err := s.Channels(ctx, guildID)
	if err != nil {
		return cs, err
	}
	if common.Contains(ids, channelID) {
		return cs, nil
	}

	err = s.settings.Set(ctx, settings.Guild(guildID), channelsKey, append(ids, channelID))
	return cs, errors.Wrap(err, "setting update channels")
}

// Clear removes a channel's settings and removes it from the guild's update channels.
func (s *Store) Clear(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.settings.Delete(ctx, settings.Channel(guildID, channelID), channelKey)
	if err != nil {
		return errors.Wrapf(err, "clearing update settings for %v", channelID)
	}

	ids, err := s.Channels(ctx, guildID)
	if err != nil {
		return err
	}
	if !common.Contains(ids, channelID) {
		return nil
	}

	err = s.settings.Set(ctx, settings.Guild(guildID), channelsKey, common.Without(ids, func(id discord.ChannelID) bool { return id == channelID }))
	return errors.Wrap(err, "setting update channels")
}
