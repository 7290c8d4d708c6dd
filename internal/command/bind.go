package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"github.com/kalambet/qaboard/internal/qa"
)

// maxBodyBytes bounds every decoded request body.
const maxBodyBytes = 1 << 20

// BindAskQuestion reads title and description from a form-encoded or JSON
// body and validates them.
func BindAskQuestion(w http.ResponseWriter, r *http.Request) (AskQuestion, error) {
	var cmd AskQuestion
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isJSON(r) {
		if err := render.DecodeJSON(r.Body, &cmd); err != nil {
			return cmd, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return cmd, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		cmd.Title = r.PostForm.Get(qa.FieldTitle)
		cmd.Description = r.PostForm.Get(qa.FieldDescription)
	}
	return cmd, Validate(cmd)
}

// BindAnswerQuestion reads body and questionId from a form-encoded or JSON
// body and validates them. questionId may be a JSON number or a numeric
// string.
func BindAnswerQuestion(w http.ResponseWriter, r *http.Request) (AnswerQuestion, error) {
	var (
		cmd AnswerQuestion
		raw string
	)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isJSON(r) {
		var p struct {
			Body       string `json:"body"`
			QuestionID flexID `json:"questionId"`
		}
		if err := render.DecodeJSON(r.Body, &p); err != nil {
			return cmd, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		cmd.Body = p.Body
		raw = string(p.QuestionID)
	} else {
		if err := r.ParseForm(); err != nil {
			return cmd, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		cmd.Body = r.PostForm.Get(qa.FieldBody)
		raw = r.PostForm.Get(qa.FieldQuestionID)
	}

	id, idErr := ParseID(raw)
	cmd.QuestionID = id

	err := Validate(cmd)
	if idErr != nil {
		// An unparsable id replaces the generic gt=0 message.
		ve, _ := err.(*qa.ValidationError)
		if ve == nil {
			ve = &qa.ValidationError{}
		}
		delete(ve.Fields, qa.FieldQuestionID)
		ve.Add(qa.FieldQuestionID, qa.FieldQuestionID+" must be a positive integer")
		err = ve
	}
	return cmd, err
}

// ParseID parses a positive decimal record id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", s)
	}
	return id, nil
}

func isJSON(r *http.Request) bool {
	return render.GetRequestContentType(r) == render.ContentTypeJSON
}

// flexID accepts a JSON number or string and keeps its textual form.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}
