package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharpeagle50/AI-Research-Assistant/entitlement"
)

// Store is the Redis-backed twin of the in-memory entitlement store, for
// deployments that already run Redis. Sessions are JSON values with a TTL
// equal to their validity; counters are plain INCR keys cleared on reset.
type Store struct {
	rdb   *redis.Client
	keyNS string
}

// New constructs a store on an existing client. The client remains owned
// by the caller. If keyPrefix is empty a default namespace is used.
func New(rdb *redis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = "assistant:"
	}
	return &Store{rdb: rdb, keyNS: keyPrefix}
}

func (s *Store) sessionKey(token string) string { return s.keyNS + "session:" + token }
func (s *Store) usageKey(token string) string   { return s.keyNS + "usage:" + token }

func (s *Store) Issue(ctx context.Context, plan entitlement.Plan, validity time.Duration) (entitlement.Session, error) {
	token, err := entitlement.NewToken()
	if err != nil {
		return entitlement.Session{}, err
	}
	now := time.Now()
	sess := entitlement.Session{
		Token:     token,
		Plan:      plan,
		CreatedAt: now,
		ExpiresAt: now.Add(validity),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return entitlement.Session{}, err
	}
	if err := s.rdb.Set(ctx, s.sessionKey(token), b, validity).Err(); err != nil {
		return entitlement.Session{}, err
	}
	return sess, nil
}

func (s *Store) Lookup(ctx context.Context, token string) (entitlement.Session, bool, error) {
	val, err := s.rdb.Get(ctx, s.sessionKey(token)).Bytes()
	if err == redis.Nil {
		return entitlement.Session{}, false, nil
	}
	if err != nil {
		return entitlement.Session{}, false, err
	}
	var sess entitlement.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return entitlement.Session{}, false, err
	}
	return sess, true, nil
}

func (s *Store) Usage(ctx context.Context, token string) (int, error) {
	n, err := s.rdb.Get(ctx, s.usageKey(token)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) RecordUsage(ctx context.Context, token string) (int, error) {
	n, err := s.rdb.Incr(ctx, s.usageKey(token)).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// SweepExpired is a no-op here: session keys carry a TTL and Redis evicts
// them natively. Orphaned counters are dropped by the next ResetUsage.
func (s *Store) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	_ = ctx
	_ = now
	return 0, nil
}

func (s *Store) ResetUsage(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.keyNS+"usage:*", 100).Iterator()
	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.rdb.Del(ctx, keys...).Err()
	}
	return nil
}

func (s *Store) Close() error { return nil }
