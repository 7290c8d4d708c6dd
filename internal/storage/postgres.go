package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kalambet/qaboard/internal/qa"
)

type questionModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (questionModel) TableName() string { return "question" }

func (m questionModel) question() qa.Question {
	return qa.Question{ID: m.ID, Title: m.Title, Description: m.Description, CreatedAt: m.CreatedAt}
}

type answerModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Body       string    `gorm:"type:text;not null"`
	QuestionID int64     `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (answerModel) TableName() string { return "answer" }

// Postgres is the GORM-backed persistence client for PostgreSQL.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and creates the question and answer tables
// if they are absent.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.Migrate(); err != nil {
		p.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return p, nil
}

// Migrate creates missing tables and columns. It never drops or rewrites data.
func (p *Postgres) Migrate() error {
	return p.db.AutoMigrate(&questionModel{}, &answerModel{})
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *Postgres) Questions() *PostgresQuestions {
	return &PostgresQuestions{db: p.db}
}

func (p *Postgres) Answers() *PostgresAnswers {
	return &PostgresAnswers{db: p.db}
}

// PostgresQuestions owns the question table.
type PostgresQuestions struct {
	db *gorm.DB
}

func (s *PostgresQuestions) CreateQuestion(ctx context.Context, title, description string) (qa.Question, error) {
	if err := qa.ValidateQuestion(title, description); err != nil {
		return qa.Question{}, err
	}
	m := questionModel{Title: title, Description: description, CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return qa.Question{}, fmt.Errorf("inserting question: %w", err)
	}
	return m.question(), nil
}

func (s *PostgresQuestions) ListQuestions(ctx context.Context) ([]qa.Question, error) {
	var models []questionModel
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	questions := make([]qa.Question, 0, len(models))
	for _, m := range models {
		questions = append(questions, m.question())
	}
	return questions, nil
}

func (s *PostgresQuestions) GetQuestion(ctx context.Context, id int64) (qa.Question, error) {
	var m questionModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return qa.Question{}, qa.ErrNotFound
	}
	if err != nil {
		return qa.Question{}, fmt.Errorf("getting question %d: %w", id, err)
	}
	return m.question(), nil
}

// PostgresAnswers owns the answer table.
type PostgresAnswers struct {
	db *gorm.DB
}

func (s *PostgresAnswers) CreateAnswer(ctx context.Context, body string, questionID int64) (qa.Answer, error) {
	if err := qa.ValidateAnswer(body); err != nil {
		return qa.Answer{}, err
	}
	m := answerModel{Body: body, QuestionID: questionID, CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return qa.Answer{}, fmt.Errorf("inserting answer: %w", err)
	}
	return qa.Answer{ID: m.ID, Body: m.Body, QuestionID: m.QuestionID, CreatedAt: m.CreatedAt}, nil
}

func (s *PostgresAnswers) ListAnswersForQuestion(ctx context.Context, questionID int64) ([]qa.Answer, error) {
	var models []answerModel
	if err := s.db.WithContext(ctx).Where("question_id = ?", questionID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing answers for question %d: %w", questionID, err)
	}
	answers := make([]qa.Answer, 0, len(models))
	for _, m := range models {
		answers = append(answers, qa.Answer{ID: m.ID, Body: m.Body, QuestionID: m.QuestionID, CreatedAt: m.CreatedAt})
	}
	return answers, nil
}
