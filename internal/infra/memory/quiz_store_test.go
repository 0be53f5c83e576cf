package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"union-quiz-service/internal/domain"
)

func sampleQuiz(id, title string) domain.Quiz {
	return domain.Quiz{
		ID:         id,
		Title:      title,
		Difficulty: "Easy",
		Date:       "2025-06-01",
		Time:       "10:00",
		Questions: []domain.Question{
			{ID: id + "-q1", Text: "2+2?", Options: []string{"3", "4"}, Answer: 1},
		},
	}
}

func TestQuizStoreCRUD(t *testing.T) {
	store := NewQuizStore()
	ctx := context.Background()

	if err := store.CreateQuiz(ctx, sampleQuiz("a", "First")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateQuiz(ctx, sampleQuiz("b", "Second")); err != nil {
		t.Fatalf("create: %v", err)
	}

	quizzes, err := store.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 2 || quizzes[0].Title != "First" || quizzes[1].Title != "Second" {
		t.Fatalf("unexpected list: %+v", quizzes)
	}

	quiz, err := store.GetQuiz(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(quiz.Questions))
	}

	if err := store.DeleteQuiz(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetQuiz(ctx, "a"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if err := store.DeleteQuiz(ctx, "a"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound on repeat delete, got %v", err)
	}
}

func TestQuizStoreReturnsCopies(t *testing.T) {
	store := NewQuizStore()
	ctx := context.Background()
	if err := store.CreateQuiz(ctx, sampleQuiz("a", "First")); err != nil {
		t.Fatalf("create: %v", err)
	}

	quiz, err := store.GetQuiz(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	quiz.Questions[0].Options[0] = "mutated"
	quiz.Questions[0].Text = "mutated"

	again, err := store.GetQuiz(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Questions[0].Text != "2+2?" || again.Questions[0].Options[0] != "3" {
		t.Fatalf("store leaked internal state: %+v", again.Questions[0])
	}
}

func TestQuizStoreSetLive(t *testing.T) {
	store := NewQuizStore()
	ctx := context.Background()
	for _, q := range []domain.Quiz{sampleQuiz("a", "First"), sampleQuiz("b", "Second")} {
		if err := store.CreateQuiz(ctx, q); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if _, err := store.LiveQuiz(ctx); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected no live quiz, got %v", err)
	}

	if err := store.SetLive(ctx, "a", nil); err != nil {
		t.Fatalf("set live: %v", err)
	}
	if err := store.SetLive(ctx, "b", nil); err != nil {
		t.Fatalf("set live: %v", err)
	}

	live, err := store.LiveQuiz(ctx)
	if err != nil {
		t.Fatalf("live quiz: %v", err)
	}
	if live.ID != "b" {
		t.Fatalf("expected quiz b live, got %s", live.ID)
	}
	assertSingleLive(t, store)

	if err := store.SetLive(ctx, "missing", nil); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizStoreSetLiveReplacesQuestions(t *testing.T) {
	store := NewQuizStore()
	ctx := context.Background()
	if err := store.CreateQuiz(ctx, sampleQuiz("a", "First")); err != nil {
		t.Fatalf("create: %v", err)
	}

	replacement := []domain.Question{
		{ID: "r1", Text: "new?", Options: []string{"x", "y"}, Answer: 0},
		{ID: "r2", Text: "newer?", Options: []string{"x", "y"}, Answer: 1},
	}
	if err := store.SetLive(ctx, "a", replacement); err != nil {
		t.Fatalf("set live: %v", err)
	}

	live, err := store.LiveQuiz(ctx)
	if err != nil {
		t.Fatalf("live quiz: %v", err)
	}
	if len(live.Questions) != 2 || live.Questions[0].ID != "r1" {
		t.Fatalf("replacement not applied: %+v", live.Questions)
	}
}

func TestQuizStoreConcurrentSetLive(t *testing.T) {
	store := NewQuizStore()
	ctx := context.Background()
	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		if err := store.CreateQuiz(ctx, sampleQuiz(id, id)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = store.SetLive(ctx, id, nil)
		}(ids[i%len(ids)])
	}
	wg.Wait()

	assertSingleLive(t, store)
}

func assertSingleLive(t *testing.T, store *QuizStore) {
	t.Helper()
	quizzes, err := store.ListQuizzes(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	live := 0
	for _, quiz := range quizzes {
		if quiz.IsLive {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("expected exactly one live quiz, got %d", live)
	}
}

func TestQuizStoreQuestionOps(t *testing.T) {
	store := NewQuizStore()
	ctx := context.Background()
	if err := store.CreateQuiz(ctx, domain.Quiz{ID: "a", Title: "First"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, q := range []domain.Question{
		{ID: "q1", Text: "one?", Options: []string{"a", "b"}, Answer: 0},
		{ID: "q2", Text: "two?", Options: []string{"a", "b"}, Answer: 1},
		{ID: "q3", Text: "three?", Options: []string{"a", "b"}, Answer: 0},
	} {
		if err := store.AddQuestion(ctx, "a", q); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}

	if err := store.UpdateQuestion(ctx, domain.Question{ID: "q2", Text: "updated?", Options: []string{"x", "y", "z"}, Answer: 2}); err != nil {
		t.Fatalf("update question: %v", err)
	}
	if err := store.UpdateQuestion(ctx, domain.Question{ID: "nope"}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	if err := store.ReorderQuestions(ctx, "a", []string{"q3", "q1", "q2"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	questions, err := store.Questions(ctx, "a")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if questions[0].ID != "q3" || questions[1].ID != "q1" || questions[2].ID != "q2" {
		t.Fatalf("unexpected order: %+v", questions)
	}
	if questions[2].Text != "updated?" {
		t.Fatalf("update lost in reorder: %+v", questions[2])
	}

	if err := store.DeleteQuestion(ctx, "q1"); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	questions, err = store.Questions(ctx, "a")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if err := store.DeleteQuestion(ctx, "q1"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}
