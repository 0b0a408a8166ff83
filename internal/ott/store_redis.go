// Copyright (c) 2026 HiSudoku. All rights reserved.

package ott

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hisudoku/hisudoku-api/internal/platform/constants"
)

// redisExpiryGrace keeps an expired token resolvable for a short window after
// its logical lifetime, so the first redeem attempt can be answered with
// "expired" instead of the generic "not found". After the grace window Redis
// evicts the key and the distinction is lost, which is acceptable.
const redisExpiryGrace = 10 * time.Minute

// RedisStore is a [Store] shared across instances via Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed token store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

/*
Put stores the token as a JSON payload with a TTL.

Parameters:
  - context: context.Context
  - token: *Token

Returns:
  - error: Serialization or storage failures
*/
func (store *RedisStore) Put(context context.Context, token *Token) error {

	// Use constants for key prefix
	key := constants.RedisPrefixOneTimeToken + token.Value

	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("redis_ott_marshal_failed: %w", err)
	}

	ttl := time.Until(token.ExpiresAt) + redisExpiryGrace

	// Set the token with TTL
	if err := store.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_ott_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Take atomically removes and returns the token for the given value.

Description: GETDEL performs the read and the delete as one Redis command,
so concurrent redeemers of the same value race inside Redis and exactly one
of them receives the payload.

Parameters:
  - context: context.Context
  - value: string

Returns:
  - *Token: The removed token
  - error: ErrNotFound, or connectivity/decoding errors
*/
func (store *RedisStore) Take(context context.Context, value string) (*Token, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixOneTimeToken + value

	payload, err := store.client.GetDel(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis_ott_getdel_failed: %w", err)
	}

	token := &Token{}
	if err := json.Unmarshal([]byte(payload), token); err != nil {
		return nil, fmt.Errorf("redis_ott_unmarshal_failed: %w", err)
	}

	// Return the token
	return token, nil
}
