package db

import (
	"context"
	"encoding/json"

	"emperror.dev/errors"
	"github.com/georgysavva/scany/pgxscan"

	"github.com/easysystem/assistant/settings"
)

var _ settings.Store = (*DB)(nil)

func scopeArgs(scope settings.Scope) (guildID, channelID int64) {
	return int64(scope.GuildID), int64(scope.ChannelID)
}

func (db *DB) Get(ctx context.Context, scope settings.Scope, key string, v any) error {
	guildID, channelID := scopeArgs(scope)

	sql, args, err := sq.Select("value").From("settings").
		Where("guild_id = ?", guildID).
		Where("channel_id = ?", channelID).
		Where("key = ?", key).ToSql()
	if err != nil {
		return errors.Wrap(err, "building sql")
	}

	var raw []byte
	err = pgxscan.Get(ctx, db, &raw, sql, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return settings.ErrNotFound
		}
		return errors.Wrap(err, "getting setting")
	}

	return errors.Wrap(json.Unmarshal(raw, v), "unmarshaling setting")
}

func (db *DB) Set(ctx context.Context, scope settings.Scope, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling setting")
	}

	guildID, channelID := scopeArgs(scope)

	sql, args, err := sq.Insert("settings").
		Columns("guild_id", "channel_id", "key", "value").
		Values(guildID, channelID, key, string(b)).
		Suffix("ON CONFLICT (guild_id, channel_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building sql")
	}

	_, err = db.Exec(ctx, sql, args...)
	return errors.Wrap(err, "setting setting")
}

func (db *DB) Delete(ctx context.Context, scope settings.Scope, key string) error {
	guildID, channelID := scopeArgs(scope)

	sql, args, err := sq.Delete("settings").
		Where("guild_id = ?", guildID).
		Where("channel_id = ?", channelID).
		Where("key = ?", key).ToSql()
	if err != nil {
		return errors.Wrap(err, "building sql")
	}

	_, err = db.Exec(ctx, sql, args...)
	return errors.Wrap(err, "deleting setting")
}
