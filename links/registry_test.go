package links

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easysystem/assistant/messaging"
	"github.com/easysystem/assistant/messaging/messagingtest"
	"github.com/easysystem/assistant/settings"
)

const (
	guildID   discord.GuildID   = 10
	source    discord.ChannelID = 20
	announce  discord.ChannelID = 30
	otherUser discord.UserID    = 40
)

type counter map[string]int

func (c counter) RegisterEvent(name string) { c[name]++ }

func setup(t *testing.T) (*Registry, *messagingtest.Gateway, settings.Store, counter) {
	t.Helper()

	gw := messagingtest.New()
	gw.AddChannel(source, discord.GuildText)
	gw.AddChannel(announce, discord.GuildNews)

	store := settings.NewMemory()
	stats := counter{}
	return NewRegistry(store, gw, WithRecorder(stats)), gw, store, stats
}

func stored(t *testing.T, store settings.Store) []Record {
	t.Helper()

	var rs []Record
	err := store.Get(context.Background(), settings.Guild(guildID), SettingsKey, &rs)
	if errors.Is(err, settings.ErrNotFound) {
		return nil
	}
	require.NoError(t, err)
	return rs
}

func TestAddToChannel(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, stats := setup(t)

	origin := gw.AddMessage(source, otherUser, "#title# Rules\n#description# Be nice.")

	res, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "rules", Origin: origin, Channel: announce})
	require.NoError(t, err)
	assert.False(t, res.Appended)
	assert.True(t, res.Rendered)

	sends := gw.Calls("Send")
	require.Len(t, sends, 1)
	require.NotNil(t, sends[0].Content.Embed)
	assert.Equal(t, "Rules", sends[0].Content.Embed.Title)
	assert.Equal(t, "Be nice.", sends[0].Content.Embed.Description)

	rs := stored(t, store)
	require.Len(t, rs, 1)
	assert.Equal(t, "rules", rs[0].Name)
	assert.Equal(t, []messaging.Ref{origin}, rs[0].Origins)
	assert.Equal(t, announce, rs[0].TargetChannelID)
	assert.Equal(t, sends[0].MessageID, rs[0].TargetID)
	assert.Equal(t, 1, stats["link_render"])
}

func TestAddFreshTargetWithoutDirectives(t *testing.T) {
	ctx := context.Background()
	reg, gw, _, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "no directives here")

	res, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "empty", Origin: origin, Channel: announce})
	require.NoError(t, err)
	assert.False(t, res.Rendered)

	sends := gw.Calls("Send")
	require.Len(t, sends, 1)
	assert.Equal(t, Placeholder, sends[0].Content.Text)
	assert.Nil(t, sends[0].Content.Embed)
}

func TestAddDuplicateOrigin(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "#title# a")
	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Channel: announce})
	require.NoError(t, err)

	target := gw.AddMessage(announce, messagingtest.BotID, "")
	for _, req := range []AddRequest{
		{Name: "a"},
		{Name: "b", Channel: announce},
		{Name: "c", Target: &target},
		{Name: "d", Target: &target, Channel: announce},
	} {
		req.GuildID, req.Origin = guildID, origin

		_, err := reg.Add(ctx, req)
		assert.ErrorIs(t, err, ErrDuplicateOrigin, req.Name)
	}

	assert.Len(t, stored(t, store), 1)
	assert.Len(t, gw.Calls("Send"), 1)
	assert.Empty(t, gw.Calls("Edit"))
}

func TestAddAmbiguousTarget(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "#title# a")
	target := gw.AddMessage(announce, messagingtest.BotID, "")

	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Target: &target, Channel: announce})
	assert.ErrorIs(t, err, ErrAmbiguousTarget)
	assert.Empty(t, stored(t, store))
	assert.Empty(t, gw.Calls(""))
}

func TestAddForeignTarget(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "#title# a")
	target := gw.AddMessage(announce, otherUser, "not ours")

	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Target: &target})
	assert.ErrorIs(t, err, ErrForeignTarget)
	assert.Empty(t, stored(t, store))
	assert.Empty(t, gw.Calls(""))
}

func TestAddToExistingMessage(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "#title# attached")
	target := gw.AddMessage(announce, messagingtest.BotID, "old content")

	res, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Target: &target})
	require.NoError(t, err)
	assert.True(t, res.Rendered)

	c, ok := gw.Last(target)
	require.True(t, ok)
	require.NotNil(t, c.Embed)
	assert.Equal(t, "attached", c.Embed.Title)

	rs := stored(t, store)
	require.Len(t, rs, 1)
	assert.Equal(t, target, rs[0].Target())
}

func TestAddToExistingMessageWithoutDirectives(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "plain text")
	target := gw.AddMessage(announce, messagingtest.BotID, "keep me")

	res, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Target: &target})
	require.NoError(t, err)
	assert.False(t, res.Rendered)
	assert.Empty(t, gw.Calls("Edit"))
	assert.Len(t, stored(t, store), 1)
}

func TestAddDuplicateNameAndTarget(t *testing.T) {
	ctx := context.Background()
	reg, gw, _, _ := setup(t)

	target := gw.AddMessage(announce, messagingtest.BotID, "")
	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "Rules", Origin: gw.AddMessage(source, otherUser, "#title# a"), Target: &target})
	require.NoError(t, err)

	_, err = reg.Add(ctx, AddRequest{GuildID: guildID, Name: "rules", Origin: gw.AddMessage(source, otherUser, "#title# b"), Channel: announce})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = reg.Add(ctx, AddRequest{GuildID: guildID, Name: "other", Origin: gw.AddMessage(source, otherUser, "#title# c"), Target: &target})
	assert.ErrorIs(t, err, ErrDuplicateTarget)
}

func TestAddMissingMessages(t *testing.T) {
	ctx := context.Background()
	reg, gw, _, _ := setup(t)

	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: messaging.Ref{ChannelID: source, MessageID: 1}, Channel: announce})
	assert.ErrorIs(t, err, ErrOriginNotFound)

	origin := gw.AddMessage(source, otherUser, "#title# a")
	target := messaging.Ref{ChannelID: announce, MessageID: 1}
	_, err = reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Target: &target})
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = reg.Add(ctx, AddRequest{GuildID: guildID, Name: "  ", Origin: origin, Channel: announce})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestAppendRendersInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	first := gw.AddMessage(source, otherUser, "#title# Changelog\n#description# first part")
	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "changelog", Origin: first, Channel: announce})
	require.NoError(t, err)

	second := gw.AddMessage(source, otherUser, "second part\n#footer.text# end")
	res, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "CHANGELOG", Origin: second})
	require.NoError(t, err)
	assert.True(t, res.Appended)
	assert.Equal(t, []messaging.Ref{first, second}, res.Record.Origins)

	c, ok := gw.Last(res.Record.Target())
	require.True(t, ok)
	require.NotNil(t, c.Embed)
	assert.Equal(t, "first part\nsecond part", c.Embed.Description)
	require.NotNil(t, c.Embed.Footer)
	assert.Equal(t, "end", c.Embed.Footer.Text)

	rs := stored(t, store)
	require.Len(t, rs, 1)
	assert.Equal(t, []messaging.Ref{first, second}, rs[0].Origins)
}

func TestAppendUnknownName(t *testing.T) {
	reg, gw, _, _ := setup(t)

	_, err := reg.Add(context.Background(), AddRequest{GuildID: guildID, Name: "missing", Origin: gw.AddMessage(source, otherUser, "x")})
	assert.ErrorIs(t, err, ErrUnknownLink)
}

func TestAppendSelfHeals(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, stats := setup(t)

	const gone discord.ChannelID = 31
	gw.AddChannel(gone, discord.GuildText)

	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "news", Origin: gw.AddMessage(source, otherUser, "#title# a"), Channel: gone})
	require.NoError(t, err)

	gw.RemoveChannel(gone)

	next := gw.AddMessage(source, otherUser, "#title# b")
	_, err = reg.Add(ctx, AddRequest{GuildID: guildID, Name: "news", Origin: next})

	var vErr *VanishedError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, TargetChannel, vErr.Resource)
	assert.Equal(t, "The target channel is no longer available. Removing the message link.", vErr.Message())
	assert.Empty(t, stored(t, store))
	assert.Equal(t, 1, stats["link_heal"])

	// the name is free again: appending fails, creating works
	_, err = reg.Add(ctx, AddRequest{GuildID: guildID, Name: "news", Origin: next})
	assert.ErrorIs(t, err, ErrUnknownLink)

	res, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "news", Origin: next, Channel: announce})
	require.NoError(t, err)
	assert.False(t, res.Appended)
	assert.Len(t, stored(t, store), 1)
}

func TestAppendSelfHealsOnVanishedOrigin(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "#title# a")
	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Channel: announce})
	require.NoError(t, err)

	gw.RemoveMessage(origin)

	_, err = reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: gw.AddMessage(source, otherUser, "b")})
	var vErr *VanishedError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, OriginMessage, vErr.Resource)
	assert.Equal(t, origin, vErr.Ref)
	assert.Empty(t, stored(t, store))
}

func TestOnOriginEdited(t *testing.T) {
	ctx := context.Background()
	reg, gw, _, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "#title# before")
	res, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Channel: announce})
	require.NoError(t, err)

	gw.SetContent(origin, "#title# after")
	require.NoError(t, reg.OnOriginEdited(ctx, guildID, origin))

	c, ok := gw.Last(res.Record.Target())
	require.True(t, ok)
	require.NotNil(t, c.Embed)
	assert.Equal(t, "after", c.Embed.Title)

	// directives removed: target keeps its last rendering
	gw.SetContent(origin, "nothing")
	require.NoError(t, reg.OnOriginEdited(ctx, guildID, origin))
	assert.Len(t, gw.Calls("Edit"), 1)
}

func TestOnOriginEditedUntracked(t *testing.T) {
	reg, gw, _, _ := setup(t)

	untracked := gw.AddMessage(source, otherUser, "#title# hi")
	require.NoError(t, reg.OnOriginEdited(context.Background(), guildID, untracked))
	assert.Empty(t, gw.Calls(""))
}

func TestOnOriginEditedSelfHeals(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	origin := gw.AddMessage(source, otherUser, "#title# a")
	res, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: origin, Channel: announce})
	require.NoError(t, err)

	gw.RemoveMessage(res.Record.Target())

	err = reg.OnOriginEdited(ctx, guildID, origin)
	var vErr *VanishedError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, TargetMessage, vErr.Resource)
	assert.Empty(t, stored(t, store))
}

func TestRemoveAndList(t *testing.T) {
	ctx := context.Background()
	reg, gw, _, _ := setup(t)

	for _, name := range []string{"one", "two", "three"} {
		_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: name, Origin: gw.AddMessage(source, otherUser, "#title# "+name), Channel: announce})
		require.NoError(t, err)
	}

	removed, err := reg.Remove(ctx, guildID, "TWO")
	require.NoError(t, err)
	assert.Equal(t, "two", removed.Name)

	_, err = reg.Remove(ctx, guildID, "two")
	assert.ErrorIs(t, err, ErrUnknownLink)

	rs, err := reg.List(ctx, guildID)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "one", rs[0].Name)
	assert.Equal(t, "three", rs[1].Name)

	rec, err := reg.Find(ctx, guildID, "Three")
	require.NoError(t, err)
	assert.Equal(t, "three", rec.Name)
}

func TestGatewayFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	reg, gw, store, _ := setup(t)

	gw.Forbidden["Send"] = true
	_, err := reg.Add(ctx, AddRequest{GuildID: guildID, Name: "a", Origin: gw.AddMessage(source, otherUser, "#title# a"), Channel: announce})
	require.Error(t, err)
	assert.True(t, messaging.IsForbidden(err))
	assert.Empty(t, stored(t, store))
}
