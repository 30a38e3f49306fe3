package update

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easysystem/assistant/embed"
	"github.com/easysystem/assistant/messaging"
	"github.com/easysystem/assistant/messaging/messagingtest"
	"github.com/easysystem/assistant/settings"
	"github.com/easysystem/assistant/wizard"
)

const (
	guildID   discord.GuildID   = 10
	commandCh discord.ChannelID = 20
	newsCh    discord.ChannelID = 30
	textCh    discord.ChannelID = 40
	userID    discord.UserID    = 50
	roleID    discord.RoleID    = 60
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore(settings.NewMemory())

	ids, err := s.Channels(ctx, guildID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = s.Update(ctx, guildID, newsCh, func(cs *ChannelSettings) { cs.RoleID = roleID })
	require.NoError(t, err)
	cs, err := s.Update(ctx, guildID, newsCh, func(cs *ChannelSettings) { cs.Emoji = "👍" })
	require.NoError(t, err)
	assert.Equal(t, ChannelSettings{RoleID: roleID, Emoji: "👍"}, cs)

	_, err = s.Update(ctx, guildID, textCh, func(cs *ChannelSettings) { cs.Emoji = "news:123456789012345678" })
	require.NoError(t, err)

	ids, err = s.Channels(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []discord.ChannelID{newsCh, textCh}, ids)

	require.NoError(t, s.Clear(ctx, guildID, newsCh))
	ids, err = s.Channels(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []discord.ChannelID{textCh}, ids)

	cs, err = s.Channel(ctx, guildID, newsCh)
	require.NoError(t, err)
	assert.Zero(t, cs)

	// clearing an unconfigured channel is fine
	require.NoError(t, s.Clear(ctx, guildID, 999))
}

func TestListText(t *testing.T) {
	ctx := context.Background()
	s := NewStore(settings.NewMemory())

	text, err := listText(ctx, s, guildID)
	require.NoError(t, err)
	assert.Equal(t, "There are no update channels set up.", text)

	_, err = s.Update(ctx, guildID, newsCh, func(cs *ChannelSettings) { cs.RoleID = roleID })
	require.NoError(t, err)

	text, err = listText(ctx, s, guildID)
	require.NoError(t, err)
	assert.Equal(t, "### <#30>\n> **Emoji:** None\n> **Role:** <@&60>\n", text)
}

func TestParseEmoji(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want discord.APIEmoji
	}{
		{"<:news:123456789012345678>", "news:123456789012345678"},
		{"<a:wave:123456789012345678>", "wave:123456789012345678"},
		{"👍", "👍"},
		{" 1️⃣ ", "1️⃣"},
	} {
		got, ok := parseEmoji(tc.in)
		assert.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{"", "abc", ":news:", "👍 👍"} {
		_, ok := parseEmoji(in)
		assert.False(t, ok, in)
	}

	assert.Equal(t, "<:news:123456789012345678>", formatEmoji("news:123456789012345678"))
	assert.Equal(t, "👍", formatEmoji("👍"))
}

func TestMentionContent(t *testing.T) {
	text, am, err := mentionContent(MentionNone, ChannelSettings{RoleID: roleID})
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, &api.AllowedMentions{}, am)

	_, _, err = mentionContent(MentionRole, ChannelSettings{})
	assert.ErrorIs(t, err, ErrNoRole)

	text, am, err = mentionContent(MentionRole, ChannelSettings{RoleID: roleID})
	require.NoError(t, err)
	assert.Equal(t, "<@&60>", text)
	assert.Equal(t, []discord.RoleID{roleID}, am.Roles)

	text, am, err = mentionContent(MentionEveryone, ChannelSettings{})
	require.NoError(t, err)
	assert.Equal(t, "@everyone", text)
	assert.Equal(t, []api.AllowedMentionType{api.AllowEveryoneMention}, am.Parse)

	assert.Equal(t, MentionNone, parseMention(7))
}

func newDeliverer(t *testing.T) (Deliverer, *messagingtest.Gateway) {
	t.Helper()

	gw := messagingtest.New()
	gw.AddChannel(commandCh, discord.GuildText)
	gw.AddChannel(newsCh, discord.GuildNews)
	gw.AddChannel(textCh, discord.GuildText)

	s := NewStore(settings.NewMemory())
	_, err := s.Update(context.Background(), guildID, newsCh, func(cs *ChannelSettings) {
		cs.RoleID = roleID
		cs.Emoji = "👍"
	})
	require.NoError(t, err)

	return Deliverer{Gateway: gw, Store: s}, gw
}

func TestDeliverNews(t *testing.T) {
	d, gw := newDeliverer(t)

	msg, err := d.Deliver(context.Background(), guildID, newsCh, MentionRole, updateEmbed("Patch notes", "Fixed things", ""))
	require.NoError(t, err)

	c, ok := gw.Last(messaging.Ref{ChannelID: newsCh, MessageID: msg.ID})
	require.True(t, ok)
	assert.Equal(t, "<@&60>", c.Text)
	require.NotNil(t, c.Embed)
	assert.Equal(t, "Patch notes", c.Embed.Title)
	assert.Equal(t, "Fixed things", c.Embed.Description)

	reacts := gw.Calls("React")
	require.Len(t, reacts, 1)
	assert.Equal(t, discord.APIEmoji("👍"), reacts[0].Emoji)
	assert.Len(t, gw.Calls("Publish"), 1)
}

func TestDeliverIgnoresForbidden(t *testing.T) {
	d, gw := newDeliverer(t)
	gw.Forbidden["React"] = true
	gw.Forbidden["Publish"] = true

	_, err := d.Deliver(context.Background(), guildID, newsCh, MentionNone, updateEmbed("Hi", "", ""))
	require.NoError(t, err)
	assert.Len(t, gw.Calls("Send"), 1)
}

func TestDeliverText(t *testing.T) {
	d, gw := newDeliverer(t)

	_, err := d.Deliver(context.Background(), guildID, textCh, MentionNone, updateEmbed("Hi", "", ""))
	require.NoError(t, err)
	assert.Empty(t, gw.Calls("React"))
	assert.Empty(t, gw.Calls("Publish"))

	_, err = d.Deliver(context.Background(), guildID, textCh, MentionRole, updateEmbed("Hi", "", ""))
	assert.ErrorIs(t, err, ErrNoRole)
}

// queue hands out events in order, then blocks until the context is done.
type queue struct {
	mu     sync.Mutex
	events []func() any
}

func (q *queue) WaitFor(ctx context.Context, filter func(any) bool) any {
	for {
		q.mu.Lock()
		if len(q.events) == 0 {
			q.mu.Unlock()
			<-ctx.Done()
			return nil
		}
		next := q.events[0]
		q.events = q.events[1:]
		q.mu.Unlock()

		if ev := next(); filter(ev) {
			return ev
		}
	}
}

func say(content string) func() any {
	return func() any {
		return &gateway.MessageCreateEvent{Message: discord.Message{
			ID:        999,
			ChannelID: commandCh,
			Author:    discord.User{ID: userID},
			Content:   content,
		}}
	}
}

func reactPrompt(gw *messagingtest.Gateway, emoji string) func() any {
	return func() any {
		p := gw.Calls("Send")[0]
		return &gateway.MessageReactionAddEvent{
			UserID:    userID,
			ChannelID: p.ChannelID,
			MessageID: p.MessageID,
			Emoji:     discord.Emoji{Name: emoji},
		}
	}
}

func TestAssistant(t *testing.T) {
	d, gw := newDeliverer(t)

	q := &queue{}
	q.events = []func() any{
		reactPrompt(gw, "1️⃣"),
		say("Patch notes"),
		say("Fixed things\nand more"),
		say("none"),
		reactPrompt(gw, "✅"),
	}
	e := wizard.NewEngine(gw, wizard.Static(q), wizard.WithDefaultTimeout(time.Second))

	w := newWizard(channelChoices([]discord.ChannelID{newsCh, textCh}), 0, func(ctx context.Context, channelID discord.ChannelID, e embed.Embed) error {
		_, err := d.Deliver(ctx, guildID, channelID, MentionNone, e)
		return err
	})

	out, err := e.Run(context.Background(), wizard.Invocation{
		GuildID:   guildID,
		ChannelID: commandCh,
		UserID:    userID,
		Command:   commandName,
	}, w)
	require.NoError(t, err)
	assert.Equal(t, wizard.Succeeded, out.State)
	assert.Equal(t, []string{newsCh.String(), "Patch notes", "Fixed things\nand more", "", wizard.ConfirmPayload}, out.Results)

	var sent []messagingtest.Call
	for _, c := range gw.Calls("Send") {
		if c.ChannelID == newsCh {
			sent = append(sent, c)
		}
	}
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].Content.Embed)
	assert.Equal(t, "Patch notes", sent[0].Content.Embed.Title)
	assert.Equal(t, "Fixed things\nand more", sent[0].Content.Embed.Description)
	assert.Empty(t, sent[0].Content.Embed.Image)
}

func TestAssistantFixedChannel(t *testing.T) {
	w := newWizard(nil, textCh, func(context.Context, discord.ChannelID, embed.Embed) error { return nil })

	require.Len(t, w.Steps, 4)
	assert.Equal(t, wizard.Text, w.Steps[0].Kind)
	assert.Equal(t, wizard.Confirm, w.Steps[3].Kind)
	require.NotNil(t, w.Steps[3].Render)
	assert.Equal(t, updateEmbed("a", "b", "c"), w.Steps[3].Render([]string{"a", "b", "c"}))
	assert.Equal(t, "The update was sent to <#40>.", w.Success.Body.Resolve(nil))
}

func TestAssistantKeepsDirectiveText(t *testing.T) {
	d, gw := newDeliverer(t)
	description := "Links now support\n#title# in origin messages\n#image# for pictures"

	q := &queue{}
	q.events = []func() any{
		say("Patch 1.2"),
		say(description),
		say("none"),
		func() any {
			c, ok := gw.Last(messaging.Ref{ChannelID: commandCh, MessageID: gw.Calls("Send")[0].MessageID})
			require.True(t, ok)
			require.NotNil(t, c.Embed)
			assert.Equal(t, "Patch 1.2", c.Embed.Title)
			assert.Equal(t, description, c.Embed.Description)
			assert.Empty(t, c.Embed.Image)
			return nil
		},
		reactPrompt(gw, "✅"),
	}
	e := wizard.NewEngine(gw, wizard.Static(q), wizard.WithDefaultTimeout(time.Second))

	w := newWizard(nil, textCh, func(ctx context.Context, channelID discord.ChannelID, e embed.Embed) error {
		_, err := d.Deliver(ctx, guildID, channelID, MentionNone, e)
		return err
	})

	out, err := e.Run(context.Background(), wizard.Invocation{
		GuildID:   guildID,
		ChannelID: commandCh,
		UserID:    userID,
		Command:   commandName,
	}, w)
	require.NoError(t, err)
	require.Equal(t, wizard.Succeeded, out.State)

	var sent *embed.Embed
	for _, c := range gw.Calls("Send") {
		if c.ChannelID == textCh {
			sent = c.Content.Embed
		}
	}
	require.NotNil(t, sent)
	assert.Equal(t, "Patch 1.2", sent.Title)
	assert.Equal(t, description, sent.Description)
	assert.Empty(t, sent.Image)
	require.NotNil(t, sent.Colour)
	assert.Equal(t, embed.Colour(0x006266), *sent.Colour)
}

func TestChannelChoicesCapped(t *testing.T) {
	ids := make([]discord.ChannelID, 30)
	for i := range ids {
		ids[i] = discord.ChannelID(i + 1)
	}

	choices := channelChoices(ids)
	assert.Len(t, choices, len(choiceEmoji))
	assert.Equal(t, "1", choices[0].Payload)
	assert.Equal(t, "<#1>", choices[0].Label)
}
