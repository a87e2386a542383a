package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/cart"
)

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

const (
	defaultKeyPrefix  = "cart:"
	defaultMaxRetries = 10
)

// RedisStore keeps carts as JSON values with a sliding TTL. Update runs an
// optimistic WATCH/MULTI transaction and retries when another request for
// the same session wrote in between.
type RedisStore struct {
	client     *redis.Client
	policy     cart.Policy
	ttl        time.Duration
	keyPrefix  string
	maxRetries int
}

func NewRedisStore(client *redis.Client, policy cart.Policy, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		policy:     policy,
		ttl:        ttl,
		keyPrefix:  defaultKeyPrefix,
		maxRetries: defaultMaxRetries,
	}
}

func (s *RedisStore) key(id string) string {
	return s.keyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*cart.Cart, error) {
	return s.read(ctx, s.client, s.key(id))
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	key := s.key(id)
	var result *cart.Cart

	txf := func(tx *redis.Tx) error {
		c, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		c.Touch()
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			result = c
		}
		return err
	}

	for i := 0; i < s.maxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update cart %s: %w", id, apperr.ErrConflict)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) read(ctx context.Context, r getter, key string) (*cart.Cart, error) {
	data, err := r.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(s.policy), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	c := cart.New(s.policy)
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	// carts written under an earlier CART_POLICY follow the current one
	c.ApplyPolicy(s.policy)
	return c, nil
}
