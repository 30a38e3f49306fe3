package embed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easysystem/assistant/directive"
)

func TestBuildPatchNotes(t *testing.T) {
	e := Build(directive.Parse("#colour# #ff0000\n#title# Patch Notes\n#description# Fixed bugs."))

	require.NotNil(t, e.Colour)
	assert.Equal(t, Colour(0xff0000), *e.Colour)
	assert.Equal(t, "Patch Notes", e.Title)
	assert.Equal(t, "Fixed bugs.", e.Description)

	assert.Nil(t, e.Author)
	assert.Nil(t, e.Footer)
	assert.Nil(t, e.Timestamp)
	assert.Empty(t, e.Fields)
	assert.Empty(t, e.Image)
	assert.Empty(t, e.Thumbnail)
}

func TestBuildSingleField(t *testing.T) {
	e := Build(directive.Parse("#field.1.name# Name\n#field.1.value# Value"))

	require.Len(t, e.Fields, 1)
	assert.Equal(t, Field{Name: "Name", Value: "Value", Inline: true}, e.Fields[0])
}

func TestBuildSparseFields(t *testing.T) {
	e := Build(directive.Parse("#field.2.name# Second\n#field.2.value# only"))

	require.Len(t, e.Fields, 1)
	assert.Equal(t, "Second", e.Fields[0].Name)
}

func TestBuildFieldOrderAndCompleteness(t *testing.T) {
	e := Build(directive.Parse(
		"#field.10.name# ten\n#field.10.value# 10\n#field.10.inline# no\n" +
			"#field.3.name# three\n#field.3.value# 3\n" +
			"#field.5.name# name without value",
	))

	require.Len(t, e.Fields, 2)
	assert.Equal(t, "three", e.Fields[0].Name)
	assert.True(t, e.Fields[0].Inline)
	assert.Equal(t, "ten", e.Fields[1].Name)
	assert.False(t, e.Fields[1].Inline)
}

func TestBuildAuthorNeedsName(t *testing.T) {
	e := Build(directive.Parse("#author.url# https://example.com\n#author.icon# https://example.com/i.png"))
	assert.Nil(t, e.Author)

	e = Build(directive.Parse("#author.name# Staff\n#author.icon# https://example.com/i.png"))
	require.NotNil(t, e.Author)
	assert.Equal(t, Author{Name: "Staff", Icon: "https://example.com/i.png"}, *e.Author)
}

func TestBuildFooterNeedsText(t *testing.T) {
	e := Build(directive.Parse("#footer.icon# https://example.com/i.png"))
	assert.Nil(t, e.Footer)

	e = Build(directive.Parse("#footer.text# bye"))
	require.NotNil(t, e.Footer)
	assert.Equal(t, "bye", e.Footer.Text)
}

func TestBuildTimestamp(t *testing.T) {
	e := Build(directive.Parse("#timestamp# 1700000000"))
	require.NotNil(t, e.Timestamp)
	assert.True(t, e.Timestamp.Equal(time.Unix(1700000000, 0)))
	assert.Equal(t, time.UTC, e.Timestamp.Location())

	e = Build(directive.Parse("#timestamp# yesterday"))
	assert.Nil(t, e.Timestamp)
}

func TestBuildInvalidColourIsUnset(t *testing.T) {
	e := Build(directive.Parse("#colour# reddish\n#title# t"))
	assert.Nil(t, e.Colour)
	assert.Equal(t, "t", e.Title)
}

func TestParseColour(t *testing.T) {
	for in, want := range map[string]Colour{
		"#ff0000":           0xff0000,
		"0x00FF00":          0x00ff00,
		"0x#0000ff":         0x0000ff,
		" #5865F2 ":         0x5865f2,
		"rgb(0, 98, 102)":   0x006266,
		"RGB(255,255,255)":  0xffffff,
		"rgb(100%, 0%, 0%)": 0xff0000,
		"#f00":              0xff0000,
		"0xF0a":             0xff00aa,
		"0x#0f0":            0x00ff00,
		"#ff":               0x0000ff,
	} {
		got, ok := ParseColour(in)
		if assert.True(t, ok, in) {
			assert.Equal(t, want, got, in)
		}
	}

	for _, in := range []string{"", "red", "#", "#1234567", "f00", "ff0000", "#gg0000", "rgb(256, 0, 0)", "rgb(1, 2)"} {
		_, ok := ParseColour(in)
		assert.False(t, ok, in)
	}
}

func TestParseInline(t *testing.T) {
	for _, s := range []string{"", "true", "yes", "maybe", "1", "TRUE"} {
		assert.True(t, ParseInline(s), s)
	}
	for _, s := range []string{"false", "No", " off ", "0"} {
		assert.False(t, ParseInline(s), s)
	}
}

func TestDiscordConversion(t *testing.T) {
	e := Build(directive.Parse("#title# t\n#image# https://example.com/a.png\n#colour# #006266"))
	d := e.Discord()

	assert.Equal(t, "t", d.Title)
	require.NotNil(t, d.Image)
	assert.Equal(t, "https://example.com/a.png", d.Image.URL)
	assert.Nil(t, d.Thumbnail)
	assert.EqualValues(t, 0x006266, d.Color)
}
