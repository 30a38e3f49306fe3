package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easysystem/assistant/links"
	"github.com/easysystem/assistant/messaging"
)

type fakeLinks map[discord.GuildID][]links.Record

func (f fakeLinks) List(_ context.Context, guildID discord.GuildID) ([]links.Record, error) {
	if guildID == 666 {
		return nil, errors.New("store unavailable")
	}
	return f[guildID], nil
}

func newServer(token string) http.Handler {
	return New(fakeLinks{
		1: {{
			Name:            "rules",
			Origins:         []messaging.Ref{{ChannelID: 2, MessageID: 3}},
			TargetChannelID: 4,
			TargetID:        5,
		}},
	}, token, time.Now().Add(-time.Minute)).Router()
}

func do(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(""), "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, resp.Uptime, 60.0)
	assert.NotEmpty(t, resp.Version)
	assert.Positive(t, resp.Goroutines)
}

func TestGuildLinks(t *testing.T) {
	h := newServer("secret")

	rec := do(t, h, "/guilds/1/links", "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"name": "rules",
		"target": {"channel_id": "4", "id": "5"},
		"origins": [{"channel_id": "2", "id": "3"}]
	}]`, rec.Body.String())

	rec = do(t, h, "/guilds/9/links", "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGuildLinksErrors(t *testing.T) {
	h := newServer("secret")

	assert.Equal(t, http.StatusUnauthorized, do(t, h, "/guilds/1/links", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "/guilds/1/links", "wrong").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "/guilds/abc/links", "secret").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, h, "/guilds/666/links", "secret").Code)

	assert.Equal(t, http.StatusForbidden, do(t, newServer(""), "/guilds/1/links", "").Code)
}
