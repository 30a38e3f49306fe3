package stats

import "regexp"

var (
	versionRegexp = regexp.MustCompile(`/api/v\d+`)

	channelsRegexp             = regexp.MustCompile(`/channels/\d+`)
	messagesRegexp             = regexp.MustCompile(`/messages/\d+`)
	userReactionsRegexp        = regexp.MustCompile(`/reactions/[^{/]+/(?:\d+|@me)`)
	reactionsRegexp            = regexp.MustCompile(`/reactions/[^{/]+`)
	usersRegexp                = regexp.MustCompile(`/users/\d+`)
	guildsRegexp               = regexp.MustCompile(`/guilds/\d+`)
	applicationsRegexp         = regexp.MustCompile(`/applications/\d+`)
	interactionsResponseRegexp = regexp.MustCompile(`/interactions/\d+/[^{/]+`)
	webhooksExecRegexp         = regexp.MustCompile(`/webhooks/\d+/[^{/]+`)

	snowflakeRegexp = regexp.MustCompile(`\d{15,}`)
)

// NormalizePath replaces IDs, tokens and emoji in a REST path with placeholders,
// so requests to the same route are counted together.
func NormalizePath(path string) string {
	path = versionRegexp.ReplaceAllLiteralString(path, "")

	path = channelsRegexp.ReplaceAllLiteralString(path, "/channels/{channel_id}")
	path = messagesRegexp.ReplaceAllLiteralString(path, "/messages/{message_id}")
	path = userReactionsRegexp.ReplaceAllLiteralString(path, "/reactions/{emoji}/{user_id}")
	path = reactionsRegexp.ReplaceAllLiteralString(path, "/reactions/{emoji}")
	path = usersRegexp.ReplaceAllLiteralString(path, "/users/{user_id}")
	path = guildsRegexp.ReplaceAllLiteralString(path, "/guilds/{guild_id}")
	path = applicationsRegexp.ReplaceAllLiteralString(path, "/applications/{application_id}")
	path = interactionsResponseRegexp.ReplaceAllLiteralString(path, "/interactions/{interaction_id}/{interaction_token}")
	path = webhooksExecRegexp.ReplaceAllLiteralString(path, "/webhooks/{webhook_id}/{webhook_token}")

	return snowflakeRegexp.ReplaceAllLiteralString(path, "{snowflake}")
}
