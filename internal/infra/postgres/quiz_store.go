package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"union-quiz-service/internal/domain"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID         string        `bun:"id,pk"`
	Title      string        `bun:"title,notnull"`
	Difficulty string        `bun:"difficulty,notnull"`
	Date       string        `bun:"quiz_date,notnull"`
	Time       string        `bun:"quiz_time,notnull"`
	Prize      string        `bun:"prize,notnull"`
	IsLive     bool          `bun:"is_live,notnull"`
	CreatedAt  time.Time     `bun:"created_at,notnull"`
	Questions  []questionRow `bun:"rel:has-many,join:id=quiz_id"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:qn"`

	ID       string   `bun:"id,pk"`
	QuizID   string   `bun:"quiz_id,notnull"`
	Text     string   `bun:"text,notnull"`
	Options  []string `bun:"options,array"`
	Answer   int      `bun:"answer,notnull"`
	Position int      `bun:"position,notnull"`
}

// QuizStore is the bun-backed app.QuizStore. Questions live in their own
// table with an indexed id and a foreign key to the owning quiz, so
// question-level operations never scan across quizzes. The single-live-quiz
// invariant is enforced twice: SetLive runs in one transaction, and a
// partial unique index on is_live rejects a second live row outright.
type QuizStore struct {
	db *bun.DB
}

func NewQuizStore(db *bun.DB) *QuizStore {
	return &QuizStore{db: db}
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	row := quizRowFromDomain(quiz)
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var rows []quizRow
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Questions", orderedQuestions).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	out := make([]domain.Quiz, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *QuizStore) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	var row quizRow
	err := s.db.NewSelect().
		Model(&row).
		Relation("Questions", orderedQuestions).
		Where("q.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return row.toDomain(), nil
}

func (s *QuizStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Model((*quizRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	// Questions go with the quiz via ON DELETE CASCADE.
	return requireAffected(res, domain.ErrQuizNotFound)
}

func (s *QuizStore) LiveQuiz(ctx context.Context) (domain.Quiz, error) {
	var row quizRow
	err := s.db.NewSelect().
		Model(&row).
		Relation("Questions", orderedQuestions).
		Where("q.is_live").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("live quiz: %w", err)
	}
	return row.toDomain(), nil
}

// SetLive promotes one quiz in a single transaction. The unset must run
// before the set: the partial unique index on is_live would reject the new
// live row while the old one still holds the flag.
func (s *QuizStore) SetLive(ctx context.Context, id string, replacement []domain.Question) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model((*quizRow)(nil)).
			Set("is_live = FALSE").
			Where("is_live").
			Exec(ctx); err != nil {
			return fmt.Errorf("unset live: %w", err)
		}

		res, err := tx.NewUpdate().
			Model((*quizRow)(nil)).
			Set("is_live = TRUE").
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("set live: %w", err)
		}
		if err := requireAffected(res, domain.ErrQuizNotFound); err != nil {
			return err
		}

		if replacement == nil {
			return nil
		}
		if _, err := tx.NewDelete().
			Model((*questionRow)(nil)).
			Where("quiz_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		rows := make([]questionRow, 0, len(replacement))
		for i, q := range replacement {
			rows = append(rows, questionRowFromDomain(id, i, q))
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("replace questions: %w", err)
		}
		return nil
	})
}

func (s *QuizStore) Questions(ctx context.Context, quizID string) ([]domain.Question, error) {
	exists, err := s.db.NewSelect().
		Model((*quizRow)(nil)).
		Where("id = ?", quizID).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check quiz: %w", err)
	}
	if !exists {
		return nil, domain.ErrQuizNotFound
	}

	var rows []questionRow
	err = s.db.NewSelect().
		Model(&rows).
		Where("quiz_id = ?", quizID).
		OrderExpr("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *QuizStore) AddQuestion(ctx context.Context, quizID string, question domain.Question) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*quizRow)(nil)).
			Where("id = ?", quizID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check quiz: %w", err)
		}
		if !exists {
			return domain.ErrQuizNotFound
		}

		var next int
		if err := tx.NewSelect().
			Model((*questionRow)(nil)).
			ColumnExpr("COALESCE(MAX(position) + 1, 0)").
			Where("quiz_id = ?", quizID).
			Scan(ctx, &next); err != nil {
			return fmt.Errorf("next position: %w", err)
		}

		row := questionRowFromDomain(quizID, next, question)
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		return nil
	})
}

func (s *QuizStore) UpdateQuestion(ctx context.Context, question domain.Question) error {
	res, err := s.db.NewUpdate().
		Model((*questionRow)(nil)).
		Set("text = ?", question.Text).
		Set("options = ?", pgdialect.Array(question.Options)).
		Set("answer = ?", question.Answer).
		Where("id = ?", question.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return requireAffected(res, domain.ErrQuestionNotFound)
}

func (s *QuizStore) DeleteQuestion(ctx context.Context, questionID string) error {
	// Positions of the remaining questions are left alone; order only has
	// to be stable, not dense.
	res, err := s.db.NewDelete().
		Model((*questionRow)(nil)).
		Where("id = ?", questionID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return requireAffected(res, domain.ErrQuestionNotFound)
}

func (s *QuizStore) ReorderQuestions(ctx context.Context, quizID string, orderedIDs []string) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*questionRow)(nil)).
			Where("quiz_id = ?", quizID).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("count questions: %w", err)
		}
		if count != len(orderedIDs) {
			// The service validated against a snapshot; the set changed
			// underneath it.
			return fmt.Errorf("%w: question set changed during reorder", domain.ErrValidation)
		}
		for i, id := range orderedIDs {
			res, err := tx.NewUpdate().
				Model((*questionRow)(nil)).
				Set("position = ?", i).
				Where("id = ? AND quiz_id = ?", id, quizID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("reposition question: %w", err)
			}
			if err := requireAffected(res, fmt.Errorf("%w: question %q does not belong to quiz %q", domain.ErrValidation, id, quizID)); err != nil {
				return err
			}
		}
		return nil
	})
}

func orderedQuestions(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("qn.position ASC")
}

func requireAffected(res sql.Result, missing error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return missing
	}
	return nil
}

func quizRowFromDomain(quiz domain.Quiz) quizRow {
	return quizRow{
		ID:         quiz.ID,
		Title:      quiz.Title,
		Difficulty: quiz.Difficulty,
		Date:       quiz.Date,
		Time:       quiz.Time,
		Prize:      quiz.Prize,
		IsLive:     quiz.IsLive,
		CreatedAt:  quiz.CreatedAt,
	}
}

func questionRowFromDomain(quizID string, position int, q domain.Question) questionRow {
	return questionRow{
		ID:       q.ID,
		QuizID:   quizID,
		Text:     q.Text,
		Options:  q.Options,
		Answer:   q.Answer,
		Position: position,
	}
}

func (r quizRow) toDomain() domain.Quiz {
	questions := make([]domain.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, q.toDomain())
	}
	return domain.Quiz{
		ID:         r.ID,
		Title:      r.Title,
		Difficulty: r.Difficulty,
		Date:       r.Date,
		Time:       r.Time,
		Prize:      r.Prize,
		IsLive:     r.IsLive,
		Questions:  questions,
		CreatedAt:  r.CreatedAt,
	}
}

func (r questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:      r.ID,
		Text:    r.Text,
		Options: r.Options,
		Answer:  r.Answer,
	}
}
