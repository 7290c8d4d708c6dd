package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kalambet/qaboard/internal/qa"
)

// SQLiteAnswers owns the answer table.
type SQLiteAnswers struct {
	db  *sqlx.DB
	now func() time.Time
}

type answerRow struct {
	ID         int64  `db:"id"`
	Body       string `db:"body"`
	QuestionID int64  `db:"question_id"`
	CreatedAt  string `db:"created_at"`
}

func (s *SQLiteAnswers) CreateAnswer(ctx context.Context, body string, questionID int64) (qa.Answer, error) {
	if err := qa.ValidateAnswer(body); err != nil {
		return qa.Answer{}, err
	}

	createdAt := s.now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO answer (body, question_id, created_at) VALUES (?, ?, ?)`,
		body, questionID, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return qa.Answer{}, fmt.Errorf("inserting answer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return qa.Answer{}, fmt.Errorf("reading answer id: %w", err)
	}

	return qa.Answer{ID: id, Body: body, QuestionID: questionID, CreatedAt: createdAt}, nil
}

func (s *SQLiteAnswers) ListAnswersForQuestion(ctx context.Context, questionID int64) ([]qa.Answer, error) {
	var rows []answerRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, body, question_id, created_at FROM answer WHERE question_id = ? ORDER BY id ASC`, questionID,
	); err != nil {
		return nil, fmt.Errorf("listing answers for question %d: %w", questionID, err)
	}

	answers := make([]qa.Answer, 0, len(rows))
	for _, r := range rows {
		t, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for answer %d: %w", r.ID, err)
		}
		answers = append(answers, qa.Answer{ID: r.ID, Body: r.Body, QuestionID: r.QuestionID, CreatedAt: t})
	}
	return answers, nil
}
