package update

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/embed"
	"github.com/easysystem/assistant/messaging"
	"github.com/easysystem/assistant/wizard"
)

// Mention is who an update pings.
type Mention int

const (
	MentionNone Mention = iota
	MentionRole
	MentionEveryone
)

const (
	wizardName         = "Update assistant"
	descriptionTimeout = 10 * time.Minute
)

// ErrNoRole is returned when a role mention is requested for a channel without a mention role.
const ErrNoRole = errors.Sentinel("no mention role is set for the channel")

// choiceEmoji are used for channel choices, in order. The cancel emoji takes the last of 20 reaction slots.
var choiceEmoji = []discord.APIEmoji{
	"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟",
	"🇦", "🇧", "🇨", "🇩", "🇪", "🇫", "🇬", "🇭", "🇮",
}

// channelChoices returns one choice per channel, up to len(choiceEmoji).
func channelChoices(ids []discord.ChannelID) []wizard.Choice {
	if len(ids) > len(choiceEmoji) {
		ids = ids[:len(choiceEmoji)]
	}

	choices := make([]wizard.Choice, 0, len(ids))
	for i, id := range ids {
		choices = append(choices, wizard.Choice{
			Emoji:   choiceEmoji[i],
			Label:   id.Mention(),
			Payload: id.String(),
		})
	}
	return choices
}

// updateEmbed is the embed of an update. The values are used as typed, never parsed as directives.
func updateEmbed(title, description, image string) embed.Embed {
	colour := embed.Colour(common.ColourSelect)
	return embed.Embed{
		Title:       title,
		Description: description,
		Image:       image,
		Colour:      &colour,
	}
}

// resultsEmbed builds the update from the title, description and image results starting at offset.
func resultsEmbed(results []string, offset int) embed.Embed {
	at := func(i int) string {
		if i < len(results) {
			return results[i]
		}
		return ""
	}
	return updateEmbed(at(offset), at(offset+1), at(offset+2))
}

// Sender delivers a finished update.
type Sender func(ctx context.Context, channelID discord.ChannelID, e embed.Embed) error

// newWizard builds the update assistant. If fixed is valid the channel is not asked for and choices is ignored.
func newWizard(choices []wizard.Choice, fixed discord.ChannelID, send Sender) wizard.Wizard {
	var steps []wizard.Step
	offset := 0

	if !fixed.IsValid() {
		steps = append(steps, wizard.Step{
			Kind: wizard.Reaction,
			Prompt: wizard.Prompt{
				Title: wizard.Literal("Select a channel"),
				Body:  wizard.Literal("Which channel should the update be sent to?"),
			},
			Choices: choices,
		})
		offset = 1
	}

	steps = append(steps,
		wizard.Step{
			Kind: wizard.Text,
			Prompt: wizard.Prompt{
				Title: wizard.Literal("Enter a title"),
				Body:  wizard.Literal("What should the title of the update be?"),
			},
		},
		wizard.Step{
			Kind: wizard.Text,
			Prompt: wizard.Prompt{
				Title: wizard.Literal("Enter a description"),
				Body:  wizard.Format("What should the update **%s** say?", offset),
			},
			Timeout: descriptionTimeout,
		},
		wizard.Step{
			Kind: wizard.Text,
			Prompt: wizard.Prompt{
				Title: wizard.Literal("Enter an image URL"),
				Body:  wizard.Literal("Which image should be shown below the update?"),
			},
			None: "none",
		},
		wizard.Step{
			Kind: wizard.Confirm,
			Prompt: wizard.Prompt{
				Title: wizard.Literal("Is this correct?"),
			},
			Render: func(results []string) embed.Embed {
				return resultsEmbed(results, offset)
			},
		},
	)

	success := wizard.Prompt{Title: wizard.Literal("Update sent!")}
	if fixed.IsValid() {
		success.Body = wizard.Literal("The update was sent to " + fixed.Mention() + ".")
	} else {
		success.Body = wizard.Format("The update was sent to <#%s>.", 0)
	}

	return wizard.Wizard{
		Name:    wizardName,
		Steps:   steps,
		Success: success,
		Action: func(ctx context.Context, results []string) error {
			channelID := fixed
			if !channelID.IsValid() {
				sf, err := discord.ParseSnowflake(results[0])
				if err != nil {
					return errors.Wrap(err, "parsing channel choice")
				}
				channelID = discord.ChannelID(sf)
			}
			return send(ctx, channelID, resultsEmbed(results, offset))
		},
	}
}

// mentionContent returns the message content and allowed mentions for an update.
func mentionContent(m Mention, cs ChannelSettings) (string, *api.AllowedMentions, error) {
	switch m {
	case MentionRole:
		if !cs.RoleID.IsValid() {
			return "", nil, ErrNoRole
		}
		return cs.RoleID.Mention(), &api.AllowedMentions{Roles: []discord.RoleID{cs.RoleID}}, nil
	case MentionEveryone:
		return "@everyone", &api.AllowedMentions{Parse: []api.AllowedMentionType{api.AllowEveryoneMention}}, nil
	default:
		return "", &api.AllowedMentions{}, nil
	}
}

// Deliverer sends finished updates.
type Deliverer struct {
	Gateway messaging.Gateway
	Store   *Store
}

// Deliver sends e to channelID, then reacts with the channel's emoji
// and publishes it in announcement channels. Missing permissions for the last two are ignored.
func (d Deliverer) Deliver(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID, m Mention, e embed.Embed) (*discord.Message, error) {
	cs, err := d.Store.Channel(ctx, guildID, channelID)
	if err != nil {
		return nil, err
	}

	content, mentions, err := mentionContent(m, cs)
	if err != nil {
		return nil, err
	}

	msg, err := d.Gateway.Send(ctx, channelID, messaging.Content{
		Text:            content,
		Embed:           &e,
		AllowedMentions: mentions,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sending update")
	}

	if cs.Emoji != "" {
		err = d.Gateway.React(ctx, channelID, msg.ID, cs.Emoji)
		if err != nil && !messaging.IsForbidden(err) {
			return msg, errors.Wrap(err, "reacting to update")
		}
	}

	ch, err := d.Gateway.Channel(ctx, channelID)
	if err != nil {
		return msg, errors.Wrap(err, "fetching update channel")
	}
	if ch.Type == discord.GuildNews {
		err = d.Gateway.Publish(ctx, channelID, msg.ID)
		if err != nil {
			if !messaging.IsForbidden(err) {
				return msg, errors.Wrap(err, "publishing update")
			}
			log.Debugf("Missing permissions to publish update in %v", channelID)
		}
	}

	return msg, nil
}

func parseMention(i int) Mention {
	switch m := Mention(i); m {
	case MentionRole, MentionEveryone:
		return m
	default:
		return MentionNone
	}
}

func (m Mention) String() string {
	switch m {
	case MentionRole:
		return "role"
	case MentionEveryone:
		return "everyone"
	default:
		return "none"
	}
}
