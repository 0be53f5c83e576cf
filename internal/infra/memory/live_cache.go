package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"union-quiz-service/internal/domain"
)

// LiveLoader fetches the live quiz from the backing store.
type LiveLoader interface {
	LiveQuiz(ctx context.Context) (domain.Quiz, error)
}

// LiveCache caches the live quiz with a TTL to absorb taker polling without
// hitting the store on every page load. Absence is not cached: when nothing
// is live, every poll goes through to the loader.
type LiveCache struct {
	loader LiveLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	quiz      domain.Quiz
	cached    bool
	expiresAt time.Time
}

func NewLiveCache(loader LiveLoader, ttl time.Duration) *LiveCache {
	return &LiveCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LiveCache) Live(ctx context.Context) (domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if c.cached && c.expiresAt.After(now) {
		quiz := c.quiz
		c.mu.RUnlock()
		return quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("live", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.cached && c.expiresAt.After(now) {
			quiz := c.quiz
			c.mu.RUnlock()
			return quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.loader.LiveQuiz(ctx)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		c.quiz = quiz
		c.cached = true
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *LiveCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.cached = false
	c.mu.Unlock()
	return nil
}

func (c *LiveCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
