package command

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kalambet/qaboard/internal/qa"
)

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	return r
}

func TestBindAskQuestion_Form(t *testing.T) {
	r := formRequest(url.Values{"title": {"T"}, "description": {"D"}})
	cmd, err := BindAskQuestion(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(AskQuestion{Title: "T", Description: "D"}, cmd); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestBindAskQuestion_JSON(t *testing.T) {
	r := jsonRequest(`{"title":"T","description":"D"}`)
	cmd, err := BindAskQuestion(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Title != "T" || cmd.Description != "D" {
		t.Errorf("cmd = %+v", cmd)
	}
}

func TestBindAskQuestion_Blank(t *testing.T) {
	r := formRequest(url.Values{"title": {"   "}, "description": {""}})
	cmd, err := BindAskQuestion(httptest.NewRecorder(), r)
	if !errors.Is(err, qa.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	want := map[string]string{
		"title":       "title is required",
		"description": "description is required",
	}
	if diff := cmp.Diff(want, qa.FieldErrors(err)); diff != "" {
		t.Errorf("field errors (-want +got):\n%s", diff)
	}
	if cmd.Title != "   " {
		t.Errorf("submitted values should be kept, got %+v", cmd)
	}
}

func TestBindAskQuestion_TitleTooLong(t *testing.T) {
	r := formRequest(url.Values{"title": {strings.Repeat("x", 256)}, "description": {"D"}})
	_, err := BindAskQuestion(httptest.NewRecorder(), r)
	if !errors.Is(err, qa.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	want := map[string]string{"title": "title must be at most 255 characters"}
	if diff := cmp.Diff(want, qa.FieldErrors(err)); diff != "" {
		t.Errorf("field errors (-want +got):\n%s", diff)
	}

	r = formRequest(url.Values{"title": {strings.Repeat("é", 255)}, "description": {"D"}})
	if _, err := BindAskQuestion(httptest.NewRecorder(), r); err != nil {
		t.Errorf("255 character title rejected: %v", err)
	}
}

func TestBindAskQuestion_MalformedJSON(t *testing.T) {
	_, err := BindAskQuestion(httptest.NewRecorder(), jsonRequest(`{"title":`))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestBindAnswerQuestion(t *testing.T) {
	tests := []struct {
		name    string
		req     *http.Request
		want    AnswerQuestion
		wantErr map[string]string
	}{
		{
			name: "form",
			req:  formRequest(url.Values{"body": {"A1"}, "questionId": {"1"}}),
			want: AnswerQuestion{Body: "A1", QuestionID: 1},
		},
		{
			name: "json number",
			req:  jsonRequest(`{"body":"A1","questionId":7}`),
			want: AnswerQuestion{Body: "A1", QuestionID: 7},
		},
		{
			name: "json string",
			req:  jsonRequest(`{"body":"A1","questionId":"7"}`),
			want: AnswerQuestion{Body: "A1", QuestionID: 7},
		},
		{
			name:    "blank body",
			req:     formRequest(url.Values{"body": {" "}, "questionId": {"3"}}),
			want:    AnswerQuestion{Body: " ", QuestionID: 3},
			wantErr: map[string]string{"body": "body is required"},
		},
		{
			name:    "bad id",
			req:     formRequest(url.Values{"body": {"A"}, "questionId": {"abc"}}),
			want:    AnswerQuestion{Body: "A"},
			wantErr: map[string]string{"questionId": "questionId must be a positive integer"},
		},
		{
			name:    "missing id",
			req:     jsonRequest(`{"body":"A"}`),
			want:    AnswerQuestion{Body: "A"},
			wantErr: map[string]string{"questionId": "questionId must be a positive integer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BindAnswerQuestion(httptest.NewRecorder(), tt.req)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("command mismatch (-want +got):\n%s", diff)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if diff := cmp.Diff(tt.wantErr, qa.FieldErrors(err)); diff != "" {
				t.Errorf("field errors (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
	for _, s := range []string{"", "0", "-1", "x", "1.5"} {
		if _, err := ParseID(s); err == nil {
			t.Errorf("ParseID(%q) succeeded, want error", s)
		}
	}
}
