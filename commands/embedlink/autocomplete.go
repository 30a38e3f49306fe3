package embedlink

import (
	"context"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/sahilm/fuzzy"

	"github.com/easysystem/assistant/common/log"
)

// maxChoices is the most autocomplete choices Discord accepts.
const maxChoices = 25

func (bot *Bot) completeName(ctx context.Context, data cmdroute.AutocompleteData) api.AutocompleteChoices {
	recs, err := bot.Links.List(ctx, data.Event.GuildID)
	if err != nil {
		log.Errorf("Error listing message links for autocomplete in %v: %v", data.Event.GuildID, err)
		return nil
	}

	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		names = append(names, rec.Name)
	}

	query := ""
	if opt := data.Options.Find("name"); opt.Focused {
		query = opt.String()
	}

	ranked := rankNames(query, names)
	choices := make(api.AutocompleteStringChoices, 0, len(ranked))
	for _, name := range ranked {
		choices = append(choices, discord.StringChoice{Name: name, Value: name})
	}
	return choices
}

// rankNames orders names by how well they fuzzily match query, best first.
// An empty query keeps the stored order.
func rankNames(query string, names []string) []string {
	if query == "" {
		if len(names) > maxChoices {
			names = names[:maxChoices]
		}
		return names
	}

	matches := fuzzy.Find(query, names)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(out) == maxChoices {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
