// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/internal/platform/constants"
)

// RedisSessionStore keeps refresh sessions in Redis with a TTL.
//
// Expiry is delegated entirely to Redis: a key that outlives its TTL simply
// disappears, which reads back as the signed-out state.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed SessionStore.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Save persists record under the token hash for ttl.
func (store *RedisSessionStore) Save(context context.Context, tokenHash string, record *SessionRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("session_encode_failed: %w", err)
	}

	if err := store.client.Set(context, store.key(tokenHash), payload, ttl).Err(); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("session_save: %w", err))
	}
	return nil
}

// Find returns the record stored under the token hash, or (nil, nil) when
// the session does not exist or has expired.
func (store *RedisSessionStore) Find(context context.Context, tokenHash string) (*SessionRecord, error) {
	payload, err := store.client.Get(context, store.key(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.StoreUnavailable(fmt.Errorf("session_find: %w", err))
	}

	var record SessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("session_decode_failed: %w", err)
	}
	return &record, nil
}

// Delete revokes the session under the token hash. Deleting an absent key
// is a no-op, which keeps sign-out idempotent.
func (store *RedisSessionStore) Delete(context context.Context, tokenHash string) error {
	if err := store.client.Del(context, store.key(tokenHash)).Err(); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("session_delete: %w", err))
	}
	return nil
}

func (store *RedisSessionStore) key(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}
