package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"union-quiz-service/internal/domain"
)

const liveKey = "quiz:live"

// LiveLoader fetches the live quiz from the backing store.
type LiveLoader interface {
	LiveQuiz(ctx context.Context) (domain.Quiz, error)
}

// LiveCache keeps the live quiz as a JSON blob in Redis and falls back to
// the loader on a miss. Promotion invalidates the key, so other instances
// sharing the same Redis see the new live quiz on their next poll; an
// instance with an unreachable Redis is bounded by the TTL instead.
type LiveCache struct {
	client *redis.Client
	loader LiveLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewLiveCache(client *redis.Client, loader LiveLoader, ttl time.Duration) *LiveCache {
	return &LiveCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LiveCache) Live(ctx context.Context) (domain.Quiz, error) {
	if quiz, ok := c.cached(ctx); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(liveKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if quiz, ok := c.cached(ctx); ok {
			return quiz, nil
		}

		quiz, err := c.loader.LiveQuiz(ctx)
		if err != nil {
			// Absence is not cached; the next poll asks the store again.
			return domain.Quiz{}, err
		}

		raw, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("marshal live quiz: %w", err)
		}
		_ = c.client.Set(ctx, liveKey, raw, c.ttlWithJitter()).Err()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *LiveCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, liveKey).Err()
}

func (c *LiveCache) cached(ctx context.Context) (domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, liveKey).Bytes()
	if err != nil || len(raw) == 0 {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (c *LiveCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
