package embedlink

import (
	"context"
	"fmt"
	"strings"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/directive"
	"github.com/easysystem/assistant/messaging"
)

func (bot *Bot) list(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	recs, err := bot.Links.List(ctx, data.Event.GuildID)
	if err != nil {
		return bot.ReportError(data.Event, err)
	}

	if len(recs) == 0 {
		return bot.Fail("No messages are linked.")
	}

	var b strings.Builder
	for _, rec := range recs {
		fmt.Fprintf(&b, "### %v\n- **Target:** %v\n", rec.Name, bot.describe(ctx, data.Event.GuildID, rec.Target()))
		for i, origin := range rec.Origins {
			fmt.Fprintf(&b, "- **Origin %d:** %v\n", i+1, bot.describe(ctx, data.Event.GuildID, origin))
		}
	}

	desc := []rune(b.String())
	if len(desc) > 4000 {
		desc = append(desc[:4000], []rune("...")...)
	}

	return bot.Ephemeral("", discord.Embed{
		Title:       "Linked Messages",
		Description: string(desc),
		Color:       common.ColourSelect,
	})
}

// describe links to ref if it still exists.
func (bot *Bot) describe(ctx context.Context, guildID discord.GuildID, ref messaging.Ref) string {
	_, err := bot.Gateway.Message(ctx, ref.ChannelID, ref.MessageID)
	if err != nil {
		return "Not found"
	}
	return fmt.Sprintf("[Link](%v) (%v)", ref.Link(guildID), ref.ChannelID.Mention())
}

func (bot *Bot) template(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
	return bot.Ephemeral(templateHelp())
}

var keyHelp = map[directive.Key]string{
	directive.Colour:      "Embed colour as `#RRGGBB`, `0xRRGGBB` or `rgb(R, G, B)`",
	directive.AuthorName:  "Embed author name",
	directive.AuthorURL:   "Embed author URL (requires `author.name`)",
	directive.AuthorIcon:  "Embed author icon URL (requires `author.name`)",
	directive.Title:       "Embed title",
	directive.Description: "Embed description",
	directive.Thumbnail:   "Embed thumbnail URL",
	directive.Image:       "Embed image URL",
	directive.FooterText:  "Embed footer text",
	directive.FooterIcon:  "Embed footer icon URL (requires `footer.text`)",
	directive.Timestamp:   "Embed timestamp as Unix timestamp",
}

func templateHelp() string {
	var b strings.Builder
	for _, k := range directive.Keys {
		if help, ok := keyHelp[k]; ok {
			fmt.Fprintf(&b, "`#%v#` %v\n", k, help)
		}
	}
	fmt.Fprintf(&b, "`#field.x.name#` Embed field name. (Replace x with a number between 1 and %d)\n", directive.MaxFields)
	b.WriteString("`#field.x.value#` Embed field value (fields require `field.x.name` and `field.x.value` to be set)\n")
	b.WriteString("`#field.x.inline#` Embed field inline (defaults to `true`)\n")
	b.WriteString("\nA directive's value continues on the following lines until the next directive.")
	return b.String()
}
