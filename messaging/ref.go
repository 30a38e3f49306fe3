package messaging

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
)

const ErrInvalidRef = errors.Sentinel("not a message link or ID")

// Ref addresses a single message.
type Ref struct {
	ChannelID discord.ChannelID `json:"channel_id"`
	MessageID discord.MessageID `json:"id"`
}

func (r Ref) IsValid() bool {
	return r.ChannelID.IsValid() && r.MessageID.IsValid()
}

// Link returns the jump URL for r in the given guild.
func (r Ref) Link(guildID discord.GuildID) string {
	return fmt.Sprintf("https://discord.com/channels/%v/%v/%v", guildID, r.ChannelID, r.MessageID)
}

func (r Ref) String() string {
	return r.ChannelID.String() + "-" + r.MessageID.String()
}

var linkRe = regexp.MustCompile(`^https?://(?:(?:ptb|canary|www)\.)?discord(?:app)?\.com/channels/(\d{15,20}|@me)/(\d{15,20})/(\d{15,20})/?$`)

// ParseRef parses a message link, a "channelID-messageID" pair, or a bare message ID.
// A bare ID is resolved against fallback, the channel the command was used in.
// guildID is only set for message links.
func ParseRef(s string, fallback discord.ChannelID) (ref Ref, guildID discord.GuildID, err error) {
	s = strings.TrimSpace(s)

	if groups := linkRe.FindStringSubmatch(s); groups != nil {
		if groups[1] != "@me" {
			g, _ := strconv.ParseUint(groups[1], 10, 64)
			guildID = discord.GuildID(g)
		}
		c, _ := strconv.ParseUint(groups[2], 10, 64)
		m, _ := strconv.ParseUint(groups[3], 10, 64)
		return Ref{ChannelID: discord.ChannelID(c), MessageID: discord.MessageID(m)}, guildID, nil
	}

	if ch, msg, ok := strings.Cut(s, "-"); ok {
		c, cErr := strconv.ParseUint(ch, 10, 64)
		m, mErr := strconv.ParseUint(msg, 10, 64)
		if cErr != nil || mErr != nil {
			return ref, 0, ErrInvalidRef
		}
		ref = Ref{ChannelID: discord.ChannelID(c), MessageID: discord.MessageID(m)}
		if !ref.IsValid() {
			return Ref{}, 0, ErrInvalidRef
		}
		return ref, 0, nil
	}

	m, err := strconv.ParseUint(s, 10, 64)
	if err != nil || m == 0 || !fallback.IsValid() {
		return ref, 0, ErrInvalidRef
	}
	return Ref{ChannelID: fallback, MessageID: discord.MessageID(m)}, 0, nil
}
