// Package messagingtest provides an in-memory messaging.Gateway for tests.
package messagingtest

import (
	"context"
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/messaging"
)

// BotID is the user ID of the fake bot.
const BotID discord.UserID = 1

// Call is one recorded mutating call.
type Call struct {
	Method    string
	ChannelID discord.ChannelID
	MessageID discord.MessageID
	UserID    discord.UserID
	Emoji     discord.APIEmoji
	Content   messaging.Content
}

// Gateway stores channels and messages in memory.
// Fetching an unknown channel or message returns messaging.ErrNotFound.
type Gateway struct {
	mu       sync.Mutex
	nextID   discord.Snowflake
	channels map[discord.ChannelID]*discord.Channel
	messages map[discord.MessageID]*discord.Message
	calls    []Call

	// Forbidden makes the named methods fail with messaging.ErrForbidden.
	Forbidden map[string]bool
}

var _ messaging.Gateway = (*Gateway)(nil)

func New() *Gateway {
	return &Gateway{
		nextID:    1000,
		channels:  make(map[discord.ChannelID]*discord.Channel),
		messages:  make(map[discord.MessageID]*discord.Message),
		Forbidden: make(map[string]bool),
	}
}

func (g *Gateway) id() discord.Snowflake {
	g.nextID++
	return g.nextID
}

// AddChannel creates a channel of the given type.
func (g *Gateway) AddChannel(id discord.ChannelID, typ discord.ChannelType) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels[id] = &discord.Channel{ID: id, Type: typ}
}

// AddMessage creates a message authored by author and returns its reference.
func (g *Gateway) AddMessage(channelID discord.ChannelID, author discord.UserID, content string) messaging.Ref {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.channels[channelID]; !ok {
		g.channels[channelID] = &discord.Channel{ID: channelID, Type: discord.GuildText}
	}

	id := discord.MessageID(g.id())
	g.messages[id] = &discord.Message{
		ID:        id,
		ChannelID: channelID,
		Author:    discord.User{ID: author},
		Content:   content,
	}
	return messaging.Ref{ChannelID: channelID, MessageID: id}
}

// SetContent changes a message's text, as if the author edited it.
func (g *Gateway) SetContent(ref messaging.Ref, content string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages[ref.MessageID].Content = content
}

func (g *Gateway) RemoveChannel(id discord.ChannelID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.channels, id)
	for mid, m := range g.messages {
		if m.ChannelID == id {
			delete(g.messages, mid)
		}
	}
}

func (g *Gateway) RemoveMessage(ref messaging.Ref) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.messages, ref.MessageID)
}

// Last returns the last content a message was sent or edited with.
func (g *Gateway) Last(ref messaging.Ref) (messaging.Content, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := len(g.calls) - 1; i >= 0; i-- {
		c := g.calls[i]
		if (c.Method == "Send" || c.Method == "Edit") && c.MessageID == ref.MessageID {
			return c.Content, true
		}
	}
	return messaging.Content{}, false
}

// Calls returns every recorded call with the given method, or all calls if method is empty.
func (g *Gateway) Calls(method string) []Call {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Call
	for _, c := range g.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (g *Gateway) record(c Call) error {
	g.calls = append(g.calls, c)
	if g.Forbidden[c.Method] {
		return messaging.ErrForbidden
	}
	return nil
}

func (g *Gateway) Me(context.Context) (*discord.User, error) {
	return &discord.User{ID: BotID, Username: "assistant", Bot: true}, nil
}

func (g *Gateway) Channel(_ context.Context, channelID discord.ChannelID) (*discord.Channel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.channels[channelID]
	if !ok {
		return nil, messaging.ErrNotFound
	}
	cp := *ch
	return &cp, nil
}

func (g *Gateway) Message(_ context.Context, channelID discord.ChannelID, messageID discord.MessageID) (*discord.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.messages[messageID]
	if !ok || m.ChannelID != channelID {
		return nil, messaging.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (g *Gateway) Send(_ context.Context, channelID discord.ChannelID, c messaging.Content) (*discord.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.channels[channelID]; !ok {
		return nil, messaging.ErrNotFound
	}

	id := discord.MessageID(g.id())
	if err := g.record(Call{Method: "Send", ChannelID: channelID, MessageID: id, Content: c}); err != nil {
		return nil, err
	}

	m := &discord.Message{ID: id, ChannelID: channelID, Author: discord.User{ID: BotID}, Content: c.Text}
	g.messages[id] = m
	cp := *m
	return &cp, nil
}

func (g *Gateway) Edit(_ context.Context, channelID discord.ChannelID, messageID discord.MessageID, c messaging.Content) (*discord.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.messages[messageID]
	if !ok || m.ChannelID != channelID {
		return nil, messaging.ErrNotFound
	}
	if err := g.record(Call{Method: "Edit", ChannelID: channelID, MessageID: messageID, Content: c}); err != nil {
		return nil, err
	}

	m.Content = c.Text
	cp := *m
	return &cp, nil
}

func (g *Gateway) Delete(_ context.Context, channelID discord.ChannelID, messageID discord.MessageID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.record(Call{Method: "Delete", ChannelID: channelID, MessageID: messageID}); err != nil {
		return err
	}
	if _, ok := g.messages[messageID]; !ok {
		return messaging.ErrNotFound
	}
	delete(g.messages, messageID)
	return nil
}

func (g *Gateway) React(_ context.Context, channelID discord.ChannelID, messageID discord.MessageID, emoji discord.APIEmoji) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.record(Call{Method: "React", ChannelID: channelID, MessageID: messageID, Emoji: emoji})
}

func (g *Gateway) Unreact(_ context.Context, channelID discord.ChannelID, messageID discord.MessageID, userID discord.UserID, emoji discord.APIEmoji) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.record(Call{Method: "Unreact", ChannelID: channelID, MessageID: messageID, UserID: userID, Emoji: emoji})
}

func (g *Gateway) ClearReactions(_ context.Context, channelID discord.ChannelID, messageID discord.MessageID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.record(Call{Method: "ClearReactions", ChannelID: channelID, MessageID: messageID})
}

func (g *Gateway) Publish(_ context.Context, channelID discord.ChannelID, messageID discord.MessageID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.record(Call{Method: "Publish", ChannelID: channelID, MessageID: messageID})
}
