package messaging

import (
	"context"
	"sync"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
)

// Discord implements Gateway over the REST API.
type Discord struct {
	client *api.Client

	meMu sync.Mutex
	me   *discord.User
}

var _ Gateway = (*Discord)(nil)

// NewDiscord returns a Gateway using client for every request.
func NewDiscord(client *api.Client) *Discord {
	return &Discord{client: client}
}

func (d *Discord) c(ctx context.Context) *api.Client {
	return d.client.WithContext(ctx)
}

// SetMe caches the bot user, usually from the ready event.
func (d *Discord) SetMe(u discord.User) {
	d.meMu.Lock()
	d.me = &u
	d.meMu.Unlock()
}

func (d *Discord) Me(ctx context.Context) (*discord.User, error) {
	d.meMu.Lock()
	defer d.meMu.Unlock()

	if d.me != nil {
		return d.me, nil
	}

	u, err := d.c(ctx).Me()
	if err != nil {
		return nil, errors.Wrap(err, "fetching current user")
	}
	d.me = u
	return u, nil
}

func (d *Discord) Channel(ctx context.Context, channelID discord.ChannelID) (*discord.Channel, error) {
	ch, err := d.c(ctx).Channel(channelID)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching channel %v", channelID)
	}
	return ch, nil
}

func (d *Discord) Message(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) (*discord.Message, error) {
	msg, err := d.c(ctx).Message(channelID, messageID)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching message %v", messageID)
	}
	return msg, nil
}

func (d *Discord) Send(ctx context.Context, channelID discord.ChannelID, c Content) (*discord.Message, error) {
	data := api.SendMessageData{
		Content:         c.Text,
		AllowedMentions: c.AllowedMentions,
	}
	if data.AllowedMentions == nil {
		data.AllowedMentions = &api.AllowedMentions{}
	}
	if c.Embed != nil {
		data.Embeds = []discord.Embed{c.Embed.Discord()}
	}

	msg, err := d.c(ctx).SendMessageComplex(channelID, data)
	if err != nil {
		return nil, errors.Wrapf(err, "sending message to %v", channelID)
	}
	return msg, nil
}

// Edit replaces both the text and the embeds of a message.
func (d *Discord) Edit(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID, c Content) (*discord.Message, error) {
	embeds := []discord.Embed{}
	if c.Embed != nil {
		embeds = append(embeds, c.Embed.Discord())
	}

	msg, err := d.c(ctx).EditMessageComplex(channelID, messageID, api.EditMessageData{
		Content:         option.NewNullableString(c.Text),
		Embeds:          &embeds,
		AllowedMentions: &api.AllowedMentions{},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "editing message %v", messageID)
	}
	return msg, nil
}

func (d *Discord) Delete(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) error {
	return errors.Wrapf(d.c(ctx).DeleteMessage(channelID, messageID, ""), "deleting message %v", messageID)
}

func (d *Discord) React(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID, emoji discord.APIEmoji) error {
	return errors.Wrapf(d.c(ctx).React(channelID, messageID, emoji), "reacting to %v", messageID)
}

func (d *Discord) Unreact(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID, userID discord.UserID, emoji discord.APIEmoji) error {
	return errors.Wrapf(d.c(ctx).DeleteUserReaction(channelID, messageID, userID, emoji), "removing reaction from %v", messageID)
}

func (d *Discord) ClearReactions(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) error {
	return errors.Wrapf(d.c(ctx).DeleteAllReactions(channelID, messageID), "clearing reactions on %v", messageID)
}

func (d *Discord) Publish(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) error {
	_, err := d.c(ctx).CrosspostMessage(channelID, messageID)
	return errors.Wrapf(err, "publishing message %v", messageID)
}
