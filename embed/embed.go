// Package embed builds display embeds from parsed directive documents.
package embed

import (
	"strconv"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/directive"
)

// Embed is a rendered document. Unset attributes are empty strings or nil pointers.
type Embed struct {
	Title       string
	Description string
	URL         string

	Author *Author
	Footer *Footer

	Thumbnail string
	Image     string

	Colour    *Colour
	Timestamp *time.Time

	Fields []Field
}

type Author struct {
	Name string
	URL  string
	Icon string
}

type Footer struct {
	Text string
	Icon string
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Build renders doc. Directives set to an empty value are treated as unset.
func Build(doc *directive.Document) Embed {
	get := func(k directive.Key) string {
		v, _ := doc.Get(k)
		return v
	}

	e := Embed{
		Title:       get(directive.Title),
		Description: get(directive.Description),
		Thumbnail:   get(directive.Thumbnail),
		Image:       get(directive.Image),
	}

	if c, ok := ParseColour(get(directive.Colour)); ok {
		e.Colour = &c
	}

	if name := get(directive.AuthorName); name != "" {
		e.Author = &Author{
			Name: name,
			URL:  get(directive.AuthorURL),
			Icon: get(directive.AuthorIcon),
		}
	}

	if text := get(directive.FooterText); text != "" {
		e.Footer = &Footer{
			Text: text,
			Icon: get(directive.FooterIcon),
		}
	}

	if ts, err := strconv.ParseInt(strings.TrimSpace(get(directive.Timestamp)), 10, 64); err == nil {
		t := time.Unix(ts, 0).UTC()
		e.Timestamp = &t
	}

	for i := 1; i <= directive.MaxFields; i++ {
		f, ok := doc.Field(i)
		if !ok || f[directive.FieldName] == "" || f[directive.FieldValue] == "" {
			continue
		}

		e.Fields = append(e.Fields, Field{
			Name:   f[directive.FieldName],
			Value:  f[directive.FieldValue],
			Inline: ParseInline(f[directive.FieldInline]),
		})
	}

	return e
}

// ParseInline parses a boolean-like string. Anything it doesn't recognise, including
// the empty string, is true.
func ParseInline(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "f", "no", "n", "off", "0":
		return false
	default:
		return true
	}
}

// IsZero returns true if e would display nothing.
func (e Embed) IsZero() bool {
	return e.Title == "" && e.Description == "" && e.Author == nil && e.Footer == nil &&
		e.Thumbnail == "" && e.Image == "" && len(e.Fields) == 0
}

// Discord converts e to an arikawa embed.
func (e Embed) Discord() discord.Embed {
	out := discord.Embed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
	}

	if e.Colour != nil {
		out.Color = discord.Color(*e.Colour)
	}
	if e.Timestamp != nil {
		out.Timestamp = discord.NewTimestamp(*e.Timestamp)
	}
	if e.Author != nil {
		out.Author = &discord.EmbedAuthor{Name: e.Author.Name, URL: e.Author.URL, Icon: e.Author.Icon}
	}
	if e.Footer != nil {
		out.Footer = &discord.EmbedFooter{Text: e.Footer.Text, Icon: e.Footer.Icon}
	}
	if e.Thumbnail != "" {
		out.Thumbnail = &discord.EmbedThumbnail{URL: e.Thumbnail}
	}
	if e.Image != "" {
		out.Image = &discord.EmbedImage{URL: e.Image}
	}

	for _, f := range e.Fields {
		out.Fields = append(out.Fields, discord.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return out
}
