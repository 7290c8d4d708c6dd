// Package command binds HTTP request bodies to typed, validated commands.
package command

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/kalambet/qaboard/internal/qa"
)

// ErrMalformed is returned when a request body cannot be decoded at all.
var ErrMalformed = errors.New("malformed request body")

// AskQuestion is the input of the submit-question operation.
type AskQuestion struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"required,notblank"`
}

// AnswerQuestion is the input of the submit-answer operation.
type AnswerQuestion struct {
	Body       string `json:"body" validate:"required,notblank"`
	QuestionID int64  `json:"questionId" validate:"gt=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("registering notblank: %v", err))
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cmd's struct tags and reports failures as a
// *qa.ValidationError keyed by JSON field name.
func Validate(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var ve qa.ValidationError
	for _, fe := range verrs {
		ve.Add(fe.Field(), message(fe))
	}
	return ve.Err()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be a positive integer"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}
