package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"union-quiz-service/internal/domain"
)

// Option count bounds mirror the admin form: a question needs a real choice
// and the form caps out at six fields.
const (
	minOptions = 2
	maxOptions = 6
)

// QuizStore abstracts durable quiz storage (Postgres, in-memory, etc).
// Implementations must make SetLive atomic: unsetting the previous live quiz
// and setting the new one happen in a single transaction.
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	LiveQuiz(ctx context.Context) (domain.Quiz, error)
	SetLive(ctx context.Context, id string, replacement []domain.Question) error
	Questions(ctx context.Context, quizID string) ([]domain.Question, error)
	AddQuestion(ctx context.Context, quizID string, question domain.Question) error
	UpdateQuestion(ctx context.Context, question domain.Question) error
	DeleteQuestion(ctx context.Context, questionID string) error
	ReorderQuestions(ctx context.Context, quizID string, orderedIDs []string) error
}

// LiveProvider serves the live quiz, typically through a cache in front of
// the store. Returns domain.ErrQuizNotFound when no quiz is live.
type LiveProvider interface {
	Live(ctx context.Context) (domain.Quiz, error)
	Invalidate(ctx context.Context) error
}

// QuizService contains the quiz lifecycle use cases: quiz CRUD, the embedded
// question collection, and promotion of the single live quiz.
type QuizService struct {
	store QuizStore
	live  LiveProvider
	now   func() time.Time
}

func NewQuizService(store QuizStore, live LiveProvider) *QuizService {
	return &QuizService{store: store, live: live, now: time.Now}
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(store QuizStore, live LiveProvider, now func() time.Time) *QuizService {
	return &QuizService{store: store, live: live, now: now}
}

// CreateQuiz stores a new quiz with no questions and isLive=false.
func (s *QuizService) CreateQuiz(ctx context.Context, title, difficulty, date, timeOfDay, prize string) (domain.Quiz, error) {
	title = strings.TrimSpace(title)
	difficulty = strings.TrimSpace(difficulty)
	date = strings.TrimSpace(date)
	timeOfDay = strings.TrimSpace(timeOfDay)

	if title == "" || difficulty == "" || date == "" || timeOfDay == "" {
		return domain.Quiz{}, fmt.Errorf("%w: title, difficulty, date and time are required", domain.ErrValidation)
	}
	if _, ok := domain.Difficulties[difficulty]; !ok {
		return domain.Quiz{}, fmt.Errorf("%w: unknown difficulty %q", domain.ErrValidation, difficulty)
	}

	quiz := domain.Quiz{
		ID:         uuid.NewString(),
		Title:      title,
		Difficulty: difficulty,
		Date:       date,
		Time:       timeOfDay,
		Prize:      strings.TrimSpace(prize),
		Questions:  []domain.Question{},
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// ListQuizzes returns every quiz with its questions. No server-side ordering
// is applied; clients split upcoming from past by the scheduled slot.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.store.ListQuizzes(ctx)
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	return s.store.GetQuiz(ctx, id)
}

// DeleteQuiz permanently removes a quiz and its questions.
func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	quiz, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	if quiz.IsLive {
		s.invalidateLive(ctx)
	}
	return nil
}

// Questions returns a quiz's question list in presentation order.
func (s *QuizService) Questions(ctx context.Context, quizID string) ([]domain.Question, error) {
	return s.store.Questions(ctx, quizID)
}

// AddQuestion validates and appends a question to the quiz's list.
func (s *QuizService) AddQuestion(ctx context.Context, quizID, text string, options []string, answer int) (domain.Question, error) {
	question := domain.Question{
		ID:      uuid.NewString(),
		Text:    strings.TrimSpace(text),
		Options: options,
		Answer:  answer,
	}
	if err := validateQuestion(question); err != nil {
		return domain.Question{}, err
	}
	if err := s.store.AddQuestion(ctx, quizID, question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// UpdateQuestion rewrites a question in place, keeping its id and position.
func (s *QuizService) UpdateQuestion(ctx context.Context, questionID, text string, options []string, answer int) error {
	question := domain.Question{
		ID:      questionID,
		Text:    strings.TrimSpace(text),
		Options: options,
		Answer:  answer,
	}
	if err := validateQuestion(question); err != nil {
		return err
	}
	return s.store.UpdateQuestion(ctx, question)
}

func (s *QuizService) DeleteQuestion(ctx context.Context, questionID string) error {
	return s.store.DeleteQuestion(ctx, questionID)
}

// ReorderQuestions permutes a quiz's question list. The supplied id set must
// equal the existing one exactly; partial reorders are rejected.
func (s *QuizService) ReorderQuestions(ctx context.Context, quizID string, orderedIDs []string) error {
	existing, err := s.store.Questions(ctx, quizID)
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(existing) {
		return fmt.Errorf("%w: reorder must list all %d questions, got %d", domain.ErrValidation, len(existing), len(orderedIDs))
	}
	current := make(map[string]struct{}, len(existing))
	for _, q := range existing {
		current[q.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate question id %q in reorder", domain.ErrValidation, id)
		}
		seen[id] = struct{}{}
		if _, ok := current[id]; !ok {
			return fmt.Errorf("%w: question %q does not belong to quiz %q", domain.ErrValidation, id, quizID)
		}
	}
	return s.store.ReorderQuestions(ctx, quizID, orderedIDs)
}

// CurrentQuiz returns the live quiz, or the "No live quiz" sentinel when
// none is set. Absence is an expected state, not an error.
func (s *QuizService) CurrentQuiz(ctx context.Context) (domain.Quiz, error) {
	quiz, err := s.live.Live(ctx)
	if errors.Is(err, domain.ErrQuizNotFound) {
		return domain.NoLiveQuiz(), nil
	}
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// Promote marks a quiz as live, optionally replacing its question list
// wholesale. Every question is re-validated even though the collection
// manager already checked it on the way in: promotion is the last gate
// before takers see the quiz, and rows written through other paths (seed
// scripts, migrated data) must not slip past it.
func (s *QuizService) Promote(ctx context.Context, quizID string, replacement []domain.Question) error {
	if len(replacement) == 0 {
		replacement = nil
	}

	questions := replacement
	if questions == nil {
		existing, err := s.store.Questions(ctx, quizID)
		if err != nil {
			return err
		}
		questions = existing
	} else {
		for i := range replacement {
			if replacement[i].ID == "" {
				replacement[i].ID = uuid.NewString()
			}
			replacement[i].Text = strings.TrimSpace(replacement[i].Text)
		}
	}

	if len(questions) == 0 {
		return fmt.Errorf("%w: quiz must have at least one question to be set as live", domain.ErrValidation)
	}
	for _, q := range questions {
		if err := validateQuestion(q); err != nil {
			return err
		}
	}

	if err := s.store.SetLive(ctx, quizID, replacement); err != nil {
		return err
	}
	s.invalidateLive(ctx)
	return nil
}

func (s *QuizService) invalidateLive(ctx context.Context) {
	// Best effort: a failed invalidation only delays visibility until the
	// cache TTL expires.
	if err := s.live.Invalidate(ctx); err != nil {
		log.Printf("live quiz cache invalidation failed: %v", err)
	}
}

func validateQuestion(q domain.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", domain.ErrValidation)
	}
	if len(q.Options) < minOptions || len(q.Options) > maxOptions {
		return fmt.Errorf("%w: question needs between %d and %d options, got %d", domain.ErrValidation, minOptions, maxOptions, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %d is empty", domain.ErrValidation, i)
		}
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return fmt.Errorf("%w: answer index %d out of range [0, %d)", domain.ErrValidation, q.Answer, len(q.Options))
	}
	return nil
}
