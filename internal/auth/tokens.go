package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "meridian:token:"

// TokenStore keeps the active-token fast path in Redis. Entries expire with
// the TTL; Postgres holds the durable record.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

// NewToken generates an opaque 40-hex-char credential.
func NewToken() string {
	buf := make([]byte, 20)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Put stores token → user id with the configured TTL.
func (s *TokenStore) Put(ctx context.Context, token string, userID int64) error {
	return s.client.Set(ctx, tokenKeyPrefix+token, userID, s.ttl).Err()
}

// PutUntil stores the mapping with an explicit remaining lifetime, used when
// re-priming from the durable record.
func (s *TokenStore) PutUntil(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return nil
	}
	return s.client.Set(ctx, tokenKeyPrefix+token, userID, remaining).Err()
}

// Get resolves a token to a user id. A miss returns (0, false, nil).
func (s *TokenStore) Get(ctx context.Context, token string) (int64, bool, error) {
	val, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
