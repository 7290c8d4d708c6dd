package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kalambet/qaboard/internal/qa"
)

// SQLiteQuestions owns the question table.
type SQLiteQuestions struct {
	db  *sqlx.DB
	now func() time.Time
}

type questionRow struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	CreatedAt   string `db:"created_at"`
}

func (r questionRow) question() (qa.Question, error) {
	t, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return qa.Question{}, fmt.Errorf("parsing created_at for question %d: %w", r.ID, err)
	}
	return qa.Question{ID: r.ID, Title: r.Title, Description: r.Description, CreatedAt: t}, nil
}

func (s *SQLiteQuestions) CreateQuestion(ctx context.Context, title, description string) (qa.Question, error) {
	if err := qa.ValidateQuestion(title, description); err != nil {
		return qa.Question{}, err
	}

	createdAt := s.now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO question (title, description, created_at) VALUES (?, ?, ?)`,
		title, description, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return qa.Question{}, fmt.Errorf("inserting question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return qa.Question{}, fmt.Errorf("reading question id: %w", err)
	}

	return qa.Question{ID: id, Title: title, Description: description, CreatedAt: createdAt}, nil
}

func (s *SQLiteQuestions) ListQuestions(ctx context.Context) ([]qa.Question, error) {
	var rows []questionRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, title, description, created_at FROM question ORDER BY id DESC`,
	); err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}

	questions := make([]qa.Question, 0, len(rows))
	for _, r := range rows {
		q, err := r.question()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (s *SQLiteQuestions) GetQuestion(ctx context.Context, id int64) (qa.Question, error) {
	var row questionRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, title, description, created_at FROM question WHERE id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return qa.Question{}, qa.ErrNotFound
	}
	if err != nil {
		return qa.Question{}, fmt.Errorf("getting question %d: %w", id, err)
	}
	return row.question()
}
