package qa

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title, in characters, a question may carry.
const MaxTitleLength = 255

// Field names as they appear in forms, JSON bodies and error maps.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldBody        = "body"
	FieldQuestionID  = "questionId"
)

// ValidateQuestion checks the non-empty and title length constraints of a
// question.
func ValidateQuestion(title, description string) error {
	var ve ValidationError
	switch {
	case strings.TrimSpace(title) == "":
		ve.Add(FieldTitle, "title is required")
	case utf8.RuneCountInString(title) > MaxTitleLength:
		ve.Add(FieldTitle, fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
	if strings.TrimSpace(description) == "" {
		ve.Add(FieldDescription, "description is required")
	}
	return ve.Err()
}

// ValidateAnswer checks the non-empty constraint of an answer body.
func ValidateAnswer(body string) error {
	var ve ValidationError
	if strings.TrimSpace(body) == "" {
		ve.Add(FieldBody, "body is required")
	}
	return ve.Err()
}
