package app

import (
	"errors"

	"union-quiz-service/internal/domain"
)

// TakingState enumerates the states a taker walks through.
type TakingState int

const (
	// StateAwaitingQuiz is the initial state before quiz content arrives.
	StateAwaitingQuiz TakingState = iota
	// StateNoLiveQuiz is terminal: nothing is live right now. It is an
	// expected empty state, not an error.
	StateNoLiveQuiz
	// StatePresenting shows question Index and waits for a selection.
	StatePresenting
	// StateAnswerSubmitted shows per-question correctness before advancing.
	StateAnswerSubmitted
	// StateFinished is terminal; the taker answered every question.
	StateFinished
)

var (
	// ErrNoSelection is returned when submitting without picking an option.
	ErrNoSelection = errors.New("no option selected")
	// ErrBadTransition is returned when an operation does not apply to the
	// session's current state.
	ErrBadTransition = errors.New("operation not allowed in current state")
)

// TakingSession walks a taker through the live quiz one question at a time.
// Correctness is computed locally per question; no score ever leaves the
// session — there is no submission endpoint to send it to.
type TakingSession struct {
	state    TakingState
	quiz     domain.Quiz
	index    int
	selected int
	results  []bool
}

func NewTakingSession() *TakingSession {
	return &TakingSession{state: StateAwaitingQuiz, selected: -1}
}

// Begin loads the fetched quiz into the session. The sentinel quiz (or any
// quiz without questions) lands in the terminal no-live-quiz state.
func (s *TakingSession) Begin(quiz domain.Quiz) error {
	if s.state != StateAwaitingQuiz {
		return ErrBadTransition
	}
	if len(quiz.Questions) == 0 {
		s.state = StateNoLiveQuiz
		return nil
	}
	s.quiz = quiz
	s.index = 0
	s.state = StatePresenting
	return nil
}

func (s *TakingSession) State() TakingState { return s.state }

// Quiz returns the quiz being taken.
func (s *TakingSession) Quiz() domain.Quiz { return s.quiz }

// Question returns the question currently presented and its index.
func (s *TakingSession) Question() (domain.Question, int, bool) {
	if s.state != StatePresenting && s.state != StateAnswerSubmitted {
		return domain.Question{}, 0, false
	}
	return s.quiz.Questions[s.index], s.index, true
}

// Select records the taker's choice. Nothing is scored until Submit.
func (s *TakingSession) Select(option int) error {
	if s.state != StatePresenting {
		return ErrBadTransition
	}
	if option < 0 || option >= len(s.quiz.Questions[s.index].Options) {
		return errors.New("option index out of range")
	}
	s.selected = option
	return nil
}

// Submit locks in the selection and reports whether it was correct.
func (s *TakingSession) Submit() (bool, error) {
	if s.state != StatePresenting {
		return false, ErrBadTransition
	}
	if s.selected < 0 {
		return false, ErrNoSelection
	}
	correct := s.selected == s.quiz.Questions[s.index].Answer
	s.results = append(s.results, correct)
	s.state = StateAnswerSubmitted
	return correct, nil
}

// Advance moves to the next question, or to Finished after the last one.
// The selection is cleared either way.
func (s *TakingSession) Advance() error {
	if s.state != StateAnswerSubmitted {
		return ErrBadTransition
	}
	s.selected = -1
	if s.index < len(s.quiz.Questions)-1 {
		s.index++
		s.state = StatePresenting
		return nil
	}
	s.state = StateFinished
	return nil
}

// Results returns per-question correctness in presentation order.
func (s *TakingSession) Results() []bool {
	out := make([]bool, len(s.results))
	copy(out, s.results)
	return out
}

// Score counts correct answers so far. Local only.
func (s *TakingSession) Score() int {
	score := 0
	for _, ok := range s.results {
		if ok {
			score++
		}
	}
	return score
}
