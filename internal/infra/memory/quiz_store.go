package memory

import (
	"context"
	"sync"

	"union-quiz-service/internal/domain"
)

// QuizStore is an in-memory app.QuizStore. It backs tests and the dev mode
// of the server when no Postgres URL is configured. A single mutex gives
// every operation, including SetLive, the same atomicity the Postgres store
// gets from its transaction.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]*domain.Quiz
	// order preserves insertion order for ListQuizzes so repeated calls do
	// not shuffle; the contract itself leaves ordering unspecified.
	order []string
}

func NewQuizStore() *QuizStore {
	return &QuizStore{quizzes: make(map[string]*domain.Quiz)}
}

func (s *QuizStore) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := cloneQuiz(quiz)
	s.quizzes[quiz.ID] = &stored
	s.order = append(s.order, quiz.ID)
	return nil
}

func (s *QuizStore) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, id := range s.order {
		if quiz, ok := s.quizzes[id]; ok {
			out = append(out, cloneQuiz(*quiz))
		}
	}
	return out, nil
}

func (s *QuizStore) GetQuiz(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(*quiz), nil
}

func (s *QuizStore) DeleteQuiz(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, id)
	for i, qid := range s.order {
		if qid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *QuizStore) LiveQuiz(_ context.Context) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, quiz := range s.quizzes {
		if quiz.IsLive {
			return cloneQuiz(*quiz), nil
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *QuizStore) SetLive(_ context.Context, id string, replacement []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.quizzes[id]
	if !ok {
		return domain.ErrQuizNotFound
	}
	for _, quiz := range s.quizzes {
		quiz.IsLive = false
	}
	target.IsLive = true
	if replacement != nil {
		target.Questions = cloneQuestions(replacement)
	}
	return nil
}

func (s *QuizStore) Questions(_ context.Context, quizID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return nil, domain.ErrQuizNotFound
	}
	return cloneQuestions(quiz.Questions), nil
}

func (s *QuizStore) AddQuestion(_ context.Context, quizID string, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	quiz.Questions = append(quiz.Questions, cloneQuestion(question))
	return nil
}

func (s *QuizStore) UpdateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, quiz := range s.quizzes {
		for i := range quiz.Questions {
			if quiz.Questions[i].ID == question.ID {
				quiz.Questions[i] = cloneQuestion(question)
				return nil
			}
		}
	}
	return domain.ErrQuestionNotFound
}

func (s *QuizStore) DeleteQuestion(_ context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, quiz := range s.quizzes {
		for i := range quiz.Questions {
			if quiz.Questions[i].ID == questionID {
				quiz.Questions = append(quiz.Questions[:i], quiz.Questions[i+1:]...)
				return nil
			}
		}
	}
	return domain.ErrQuestionNotFound
}

func (s *QuizStore) ReorderQuestions(_ context.Context, quizID string, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	byID := make(map[string]domain.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}
	if len(orderedIDs) != len(byID) {
		return domain.ErrQuestionNotFound
	}
	reordered := make([]domain.Question, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		q, ok := byID[id]
		if !ok {
			return domain.ErrQuestionNotFound
		}
		reordered = append(reordered, q)
	}
	quiz.Questions = reordered
	return nil
}

func cloneQuiz(quiz domain.Quiz) domain.Quiz {
	out := quiz
	out.Questions = cloneQuestions(quiz.Questions)
	return out
}

func cloneQuestions(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	for i, q := range questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q domain.Question) domain.Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	return out
}
