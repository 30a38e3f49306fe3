// Package redis stores settings in Redis, one hash per scope.
package redis

import (
	"context"
	"encoding/json"

	"emperror.dev/errors"
	"github.com/mediocregopher/radix/v4"

	"github.com/easysystem/assistant/settings"
)

var _ settings.Store = (*Store)(nil)

type Store struct {
	client radix.Client
}

func New(ctx context.Context, url string) (*Store, error) {
	client, err := (&radix.PoolConfig{}).New(ctx, "tcp", url)
	if err != nil {
		return nil, errors.Wrap(err, "creating radix client")
	}

	return &Store{client: client}, nil
}

func hashKey(scope settings.Scope) string {
	return "settings:" + scope.String()
}

func (s *Store) Get(ctx context.Context, scope settings.Scope, key string, v any) error {
	var raw []byte
	mb := radix.Maybe{Rcv: &raw}

	err := s.client.Do(ctx, radix.Cmd(&mb, "HGET", hashKey(scope), key))
	if err != nil {
		return errors.Wrap(err, "getting value")
	}

	if mb.Null {
		return settings.ErrNotFound
	}

	return errors.Wrap(json.Unmarshal(raw, v), "unmarshaling value")
}

func (s *Store) Set(ctx context.Context, scope settings.Scope, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling value")
	}

	return errors.Wrap(
		s.client.Do(ctx, radix.Cmd(nil, "HSET", hashKey(scope), key, string(b))),
		"setting value",
	)
}

func (s *Store) Delete(ctx context.Context, scope settings.Scope, key string) error {
	return errors.Wrap(
		s.client.Do(ctx, radix.Cmd(nil, "HDEL", hashKey(scope), key)),
		"deleting value",
	)
}

func (s *Store) Close() error {
	return s.client.Close()
}
