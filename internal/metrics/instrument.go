package metrics

import (
	"context"

	"github.com/kalambet/qaboard/internal/qa"
)

type questions struct {
	qa.QuestionStore
	rec *Recorder
}

// InstrumentQuestions counts successful CreateQuestion calls on s.
func InstrumentQuestions(s qa.QuestionStore, rec *Recorder) qa.QuestionStore {
	if rec == nil {
		return s
	}
	return &questions{QuestionStore: s, rec: rec}
}

func (s *questions) CreateQuestion(ctx context.Context, title, description string) (qa.Question, error) {
	q, err := s.QuestionStore.CreateQuestion(ctx, title, description)
	if err == nil {
		s.rec.QuestionCreated(ctx)
	}
	return q, err
}

type answers struct {
	qa.AnswerStore
	rec *Recorder
}

// InstrumentAnswers counts successful CreateAnswer calls on s.
func InstrumentAnswers(s qa.AnswerStore, rec *Recorder) qa.AnswerStore {
	if rec == nil {
		return s
	}
	return &answers{AnswerStore: s, rec: rec}
}

func (s *answers) CreateAnswer(ctx context.Context, body string, questionID int64) (qa.Answer, error) {
	a, err := s.AnswerStore.CreateAnswer(ctx, body, questionID)
	if err == nil {
		s.rec.AnswerCreated(ctx)
	}
	return a, err
}
