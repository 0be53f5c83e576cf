package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"union-quiz-service/internal/domain"
)

type countingLoader struct {
	calls int
	quiz  domain.Quiz
	err   error
}

func (l *countingLoader) LiveQuiz(context.Context) (domain.Quiz, error) {
	l.calls++
	return l.quiz, l.err
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func liveQuizFixture() domain.Quiz {
	return domain.Quiz{
		ID:     "quiz-1",
		Title:  "GK",
		IsLive: true,
		Questions: []domain.Question{
			{ID: "q1", Text: "2+2?", Options: []string{"3", "4"}, Answer: 1},
		},
	}
}

func TestLiveCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{quiz: liveQuizFixture()}
	cache := NewLiveCache(newClient(mr), loader, time.Minute)

	quiz, err := cache.Live(context.Background())
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if quiz.Title != "GK" || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second poll is served from Redis.
	quiz, err = cache.Live(context.Background())
	if err != nil {
		t.Fatalf("live 2: %v", err)
	}
	if quiz.Questions[0].Answer != 1 {
		t.Fatalf("quiz mangled by round trip: %+v", quiz)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	if !mr.Exists(liveKey) {
		t.Fatalf("expected %s to be set", liveKey)
	}
}

func TestLiveCacheInvalidateForcesReload(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{quiz: liveQuizFixture()}
	cache := NewLiveCache(newClient(mr), loader, time.Minute)

	if _, err := cache.Live(context.Background()); err != nil {
		t.Fatalf("live: %v", err)
	}

	next := liveQuizFixture()
	next.ID = "quiz-2"
	next.Title = "Science"
	loader.quiz = next

	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists(liveKey) {
		t.Fatalf("expected %s deleted", liveKey)
	}

	quiz, err := cache.Live(context.Background())
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if quiz.Title != "Science" {
		t.Fatalf("stale quiz after invalidate: %+v", quiz)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload, loader calls=%d", loader.calls)
	}
}

func TestLiveCacheDoesNotCacheAbsence(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{err: domain.ErrQuizNotFound}
	cache := NewLiveCache(newClient(mr), loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.Live(context.Background()); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("expected ErrQuizNotFound, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("absence must not be cached, loader calls=%d", loader.calls)
	}
	if mr.Exists(liveKey) {
		t.Fatalf("no key should be written when nothing is live")
	}
}

func TestLiveCacheExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{quiz: liveQuizFixture()}
	cache := NewLiveCache(newClient(mr), loader, time.Minute)

	if _, err := cache.Live(context.Background()); err != nil {
		t.Fatalf("live: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.Live(context.Background()); err != nil {
		t.Fatalf("live after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", loader.calls)
	}
}
