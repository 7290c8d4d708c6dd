// Package qa holds the question and answer records shared by the stores,
// the HTTP router and the MCP server.
package qa

import (
	"context"
	"time"
)

// Question is a user-submitted topic that others can answer.
type Question struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Answer is a response body attached to exactly one question.
type Answer struct {
	ID         int64     `json:"id"`
	Body       string    `json:"body"`
	QuestionID int64     `json:"questionId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// QuestionStore persists questions. Questions are append-only.
type QuestionStore interface {
	// CreateQuestion inserts a question and returns it with its generated id.
	// It fails with a *ValidationError if title or description is blank.
	CreateQuestion(ctx context.Context, title, description string) (Question, error)
	// ListQuestions returns every question, newest (highest id) first.
	ListQuestions(ctx context.Context) ([]Question, error)
	// GetQuestion returns ErrNotFound when no question has the given id.
	GetQuestion(ctx context.Context, id int64) (Question, error)
}

// AnswerStore persists answers. It does not check that questionID exists.
type AnswerStore interface {
	CreateAnswer(ctx context.Context, body string, questionID int64) (Answer, error)
	ListAnswersForQuestion(ctx context.Context, questionID int64) ([]Answer, error)
}
