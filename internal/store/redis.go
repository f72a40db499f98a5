package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Sessions stores login session records in redis keyed by session id.
// A token whose session record is gone is treated as revoked.
type Sessions struct {
	client *redis.Client
	prefix string
}

// NewSessions creates a session store over an existing redis client.
func NewSessions(r *Redis, prefix string) *Sessions {
	if prefix == "" {
		prefix = "homework:session:"
	}
	return &Sessions{client: r.Client, prefix: prefix}
}

// Save writes a session record with the token's remaining lifetime.
func (s *Sessions) Save(ctx context.Context, sessionID, username string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+sessionID, username, ttl).Err()
}

// Live reports whether the session record still exists.
func (s *Sessions) Live(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete revokes a session before its token expires.
func (s *Sessions) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}
