package qa

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name        string
		title, desc string
		wantFields  []string
	}{
		{"valid", "T", "D", nil},
		{"empty title", "", "D", []string{FieldTitle}},
		{"blank description", "T", "  \n\t", []string{FieldDescription}},
		{"both empty", "", "", []string{FieldTitle, FieldDescription}},
		{"title at limit", strings.Repeat("é", MaxTitleLength), "D", nil},
		{"title too long", strings.Repeat("x", MaxTitleLength+1), "D", []string{FieldTitle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(tt.title, tt.desc)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			fields := FieldErrors(err)
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", fields, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := fields[f]; !ok {
					t.Errorf("missing field %q in %v", f, fields)
				}
			}
		})
	}
}

func TestValidateAnswer(t *testing.T) {
	if err := ValidateAnswer("A1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidateAnswer(" ")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if FieldErrors(err)[FieldBody] == "" {
		t.Errorf("expected a message for %q", FieldBody)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidateQuestion("", "")
	got := err.Error()
	want := "validation failed: description is required; title is required"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFieldErrors_NonValidation(t *testing.T) {
	if got := FieldErrors(errors.New("boom")); got != nil {
		t.Errorf("FieldErrors = %v, want nil", got)
	}
	if got := FieldErrors(nil); got != nil {
		t.Errorf("FieldErrors(nil) = %v, want nil", got)
	}
}

type countingStore struct {
	questions map[int64]Question
	gets      int
	nextID    int64
}

func (s *countingStore) CreateQuestion(_ context.Context, title, description string) (Question, error) {
	if err := ValidateQuestion(title, description); err != nil {
		return Question{}, err
	}
	s.nextID++
	q := Question{ID: s.nextID, Title: title, Description: description, CreatedAt: time.Now()}
	s.questions[q.ID] = q
	return q, nil
}

func (s *countingStore) ListQuestions(context.Context) ([]Question, error) {
	return nil, nil
}

func (s *countingStore) GetQuestion(_ context.Context, id int64) (Question, error) {
	s.gets++
	q, ok := s.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func TestCachedQuestions_ReadThrough(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{questions: map[int64]Question{
		7: {ID: 7, Title: "cached"},
	}}
	cq := NewCachedQuestions(store, time.Minute)

	for i := 0; i < 3; i++ {
		q, err := cq.GetQuestion(ctx, 7)
		if err != nil {
			t.Fatalf("GetQuestion: %v", err)
		}
		if q.Title != "cached" {
			t.Errorf("Title = %q, want cached", q.Title)
		}
	}
	if store.gets != 1 {
		t.Errorf("underlying gets = %d, want 1", store.gets)
	}
}

func TestCachedQuestions_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{questions: map[int64]Question{}}
	cq := NewCachedQuestions(store, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cq.GetQuestion(ctx, 1); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if store.gets != 2 {
		t.Errorf("underlying gets = %d, want 2", store.gets)
	}
}

func TestCachedQuestions_CreatePrimesCache(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{questions: map[int64]Question{}}
	cq := NewCachedQuestions(store, 0)

	q, err := cq.CreateQuestion(ctx, "T", "D")
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	got, err := cq.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if got.Title != "T" {
		t.Errorf("Title = %q, want T", got.Title)
	}
	if store.gets != 0 {
		t.Errorf("underlying gets = %d, want 0", store.gets)
	}

	if _, err := cq.CreateQuestion(ctx, "", "D"); !strings.Contains(err.Error(), "title is required") {
		t.Errorf("err = %v, want title validation", err)
	}
}
