// Package messaging is the bot's view of the chat platform: fetching, sending and editing
// addressable messages and managing their reactions.
package messaging

import (
	"context"
	"net/http"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"

	"github.com/easysystem/assistant/embed"
)

// Errors returned by Gateway implementations. Implementations may also return raw
// *httputil.HTTPError values, which IsNotFound and IsForbidden classify as well.
const (
	ErrNotFound  = errors.Sentinel("message or channel not found")
	ErrForbidden = errors.Sentinel("missing permissions")
)

// Content is what a message is sent or edited to show.
type Content struct {
	Text  string
	Embed *embed.Embed

	// AllowedMentions is only honoured on Send. If nil, no mentions are allowed.
	AllowedMentions *api.AllowedMentions
}

// Gateway is the set of message operations the bot modules need.
type Gateway interface {
	// Me returns the bot's own user.
	Me(ctx context.Context) (*discord.User, error)

	Channel(ctx context.Context, channelID discord.ChannelID) (*discord.Channel, error)
	Message(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) (*discord.Message, error)

	Send(ctx context.Context, channelID discord.ChannelID, c Content) (*discord.Message, error)
	Edit(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID, c Content) (*discord.Message, error)
	Delete(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) error

	React(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID, emoji discord.APIEmoji) error
	Unreact(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID, userID discord.UserID, emoji discord.APIEmoji) error
	ClearReactions(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) error

	// Publish crossposts a message in an announcement channel.
	Publish(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) error
}

// IsNotFound returns true if err means the referenced channel or message no longer exists.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}

	var httpErr *httputil.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == http.StatusNotFound
	}
	return false
}

// IsForbidden returns true if err means the bot lacks permission for the action.
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) {
		return true
	}

	var httpErr *httputil.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == http.StatusForbidden
	}
	return false
}
