package services

import (
	"context"

	"todomaster/internal/snapshot"
)

// DefaultSessionKey is the KV key holding the CLI session token
const DefaultSessionKey = "session"

// KVTokenStore keeps the session token in a key-value store
type KVTokenStore struct {
	kv  snapshot.KVStore
	key string
}

// NewKVTokenStore creates a token store under key, or DefaultSessionKey when key is empty
func NewKVTokenStore(kv snapshot.KVStore, key string) *KVTokenStore {
	if key == "" {
		key = DefaultSessionKey
	}
	return &KVTokenStore{kv: kv, key: key}
}

func (s *KVTokenStore) Load(ctx context.Context) (string, bool, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil || !found || len(raw) == 0 {
		return "", false, err
	}
	return string(raw), true, nil
}

func (s *KVTokenStore) Save(ctx context.Context, token string) error {
	return s.kv.Set(ctx, s.key, []byte(token))
}

func (s *KVTokenStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}
