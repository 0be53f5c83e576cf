package memory

import (
	"context"
	"errors"
	"testing"
	"time"

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

func TestLiveCacheCaches(t *testing.T) {
	loader := &countingLoader{quiz: sampleQuiz("a", "First")}
	cache := NewLiveCache(loader, time.Minute)

	for i := 0; i < 3; i++ {
		quiz, err := cache.Live(context.Background())
		if err != nil {
			t.Fatalf("live: %v", err)
		}
		if quiz.Title != "First" {
			t.Fatalf("unexpected quiz: %+v", quiz)
		}
	}
	if loader.calls != 1 {
		t.Fatalf("expected one loader call, got %d", loader.calls)
	}
}

func TestLiveCacheInvalidate(t *testing.T) {
	loader := &countingLoader{quiz: sampleQuiz("a", "First")}
	cache := NewLiveCache(loader, time.Minute)

	if _, err := cache.Live(context.Background()); err != nil {
		t.Fatalf("live: %v", err)
	}

	loader.quiz = sampleQuiz("b", "Second")
	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	quiz, err := cache.Live(context.Background())
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if quiz.Title != "Second" {
		t.Fatalf("stale quiz after invalidate: %+v", quiz)
	}
	if loader.calls != 2 {
		t.Fatalf("expected two loader calls, got %d", loader.calls)
	}
}

func TestLiveCacheDoesNotCacheAbsence(t *testing.T) {
	loader := &countingLoader{err: domain.ErrQuizNotFound}
	cache := NewLiveCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.Live(context.Background()); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("expected ErrQuizNotFound, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("absence must not be cached, loader calls %d", loader.calls)
	}

	// Once a quiz goes live the very next poll sees it.
	loader.err = nil
	loader.quiz = sampleQuiz("a", "First")
	quiz, err := cache.Live(context.Background())
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if quiz.ID != "a" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestLiveCacheExpires(t *testing.T) {
	loader := &countingLoader{quiz: sampleQuiz("a", "First")}
	cache := NewLiveCache(loader, 10*time.Millisecond)

	if _, err := cache.Live(context.Background()); err != nil {
		t.Fatalf("live: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := cache.Live(context.Background()); err != nil {
		t.Fatalf("live: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, got %d calls", loader.calls)
	}
}
