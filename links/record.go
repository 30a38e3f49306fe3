package links

import (
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/easysystem/assistant/messaging"
)

// SettingsKey is the guild-scoped settings key all of a guild's links are stored under.
const SettingsKey = "linked_messages"

// Record links one or more origin messages to a single bot-authored target message.
type Record struct {
	Name            string            `json:"name"`
	Origins         []messaging.Ref   `json:"origins"`
	TargetChannelID discord.ChannelID `json:"target_channel_id"`
	TargetID        discord.MessageID `json:"target_id"`
}

func (r Record) Target() messaging.Ref {
	return messaging.Ref{ChannelID: r.TargetChannelID, MessageID: r.TargetID}
}

func (r Record) hasOrigin(ref messaging.Ref) bool {
	for _, o := range r.Origins {
		if o.MessageID == ref.MessageID {
			return true
		}
	}
	return false
}

// records is every link in one guild, in creation order.
type records []Record

func (rs records) byName(name string) int {
	for i := range rs {
		if strings.EqualFold(rs[i].Name, name) {
			return i
		}
	}
	return -1
}

func (rs records) byOrigin(ref messaging.Ref) int {
	for i := range rs {
		if rs[i].hasOrigin(ref) {
			return i
		}
	}
	return -1
}

func (rs records) byTarget(ref messaging.Ref) int {
	for i := range rs {
		if rs[i].TargetID == ref.MessageID {
			return i
		}
	}
	return -1
}

// without returns a copy of rs without the record at i.
func (rs records) without(i int) records {
	out := make(records, 0, len(rs)-1)
	out = append(out, rs[:i]...)
	return append(out, rs[i+1:]...)
}
