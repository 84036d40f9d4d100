package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix  = "otp:"
	redisMaxRetries = 5
	// Keys outlive the challenge TTL so an expired challenge is still seen
	// and reported as expired rather than missing. Past this retention a
	// Verify reports ErrNotFound.
	redisGrace = 24 * time.Hour
)

// RedisStore keeps challenges in Redis so they survive restarts and are shared
// across instances. Update uses WATCH/MULTI optimistic transactions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(email string) string {
	return redisKeyPrefix + email
}

func (s *RedisStore) Put(ctx context.Context, email string, ch Challenge) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode challenge: %w", err)
	}
	return s.client.Set(ctx, s.key(email), data, s.ttl+redisGrace).Err()
}

func (s *RedisStore) Update(ctx context.Context, email string, fn func(ch *Challenge) Action) error {
	key := s.key(email)

	txf := func(tx *redis.Tx) error {
		var current *Challenge

		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var ch Challenge
			if err := json.Unmarshal(raw, &ch); err != nil {
				return fmt.Errorf("failed to decode challenge: %w", err)
			}
			current = &ch
		}

		action := fn(current)
		if action == Keep || (action == Save && current == nil) {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if action == Delete {
				pipe.Del(ctx, key)
				return nil
			}
			data, err := json.Marshal(current)
			if err != nil {
				return err
			}
			pipe.Set(ctx, key, data, redis.KeepTTL)
			return nil
		})
		return err
	}

	for i := 0; i < redisMaxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return errors.New("otp challenge update: too much contention")
}
