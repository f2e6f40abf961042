package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carrental/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedVerifier memoizes successful verifications in Redis for a short TTL.
// Cache failures are non-fatal: the wrapped verifier is the source of truth.
type CachedVerifier struct {
	inner  Verifier
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedVerifier(inner Verifier, client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *CachedVerifier {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "identity-cache").Logger()
	}
	return &CachedVerifier{inner: inner, client: client, ttl: ttl, log: base}
}

func (c *CachedVerifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
	key := cacheKey(token)

	if val, err := c.client.Get(ctx, key).Result(); err == nil {
		var id models.Identity
		if err := json.Unmarshal([]byte(val), &id); err == nil {
			return &id, nil
		}
		c.log.Warn().Str("key", key).Msg("corrupt cache entry, re-verifying")
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("identity cache read failed")
	}

	id, err := c.inner.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(id); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("identity cache write failed")
		}
	}

	return id, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("identity:%s", hex.EncodeToString(sum[:]))
}
