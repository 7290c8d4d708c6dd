package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/kalambet/qaboard/internal/command"
	"github.com/kalambet/qaboard/internal/logging"
	"github.com/kalambet/qaboard/internal/qa"
)

// NewJSONHandler returns the JSON mirror of the question and answer
// routes. Mount it under /api.
func NewJSONHandler(questions qa.QuestionStore, answers qa.AnswerStore) http.Handler {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/questions", handleListQuestions(questions))
	r.Post("/questions", handleCreateQuestion(questions))
	r.Get("/questions/{id}", handleGetQuestion(questions, answers))
	r.Post("/answers", handleCreateAnswer(questions, answers))

	return r
}

// QuestionDetail is a question together with its answers.
type QuestionDetail struct {
	Question qa.Question `json:"question"`
	Answers  []qa.Answer `json:"answers"`
}

func handleListQuestions(questions qa.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := questions.ListQuestions(r.Context())
		if err != nil {
			respondError(w, r, ErrInternal(err))
			return
		}
		render.JSON(w, r, list)
	}
}

func handleCreateQuestion(questions qa.QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := command.BindAskQuestion(w, r)
		if err != nil {
			respondError(w, r, errFromBind(err))
			return
		}

		q, err := questions.CreateQuestion(r.Context(), cmd.Title, cmd.Description)
		if err != nil {
			respondError(w, r, errFromStore(err))
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, q)
	}
}

func handleGetQuestion(questions qa.QuestionStore, answers qa.AnswerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := command.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, r, ErrNotFound)
			return
		}

		q, err := questions.GetQuestion(r.Context(), id)
		if err != nil {
			respondError(w, r, errFromStore(err))
			return
		}

		list, err := answers.ListAnswersForQuestion(r.Context(), q.ID)
		if err != nil {
			respondError(w, r, ErrInternal(err))
			return
		}

		render.JSON(w, r, QuestionDetail{Question: q, Answers: list})
	}
}

func handleCreateAnswer(questions qa.QuestionStore, answers qa.AnswerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := command.BindAnswerQuestion(w, r)
		if err != nil {
			respondError(w, r, errFromBind(err))
			return
		}

		if _, err := questions.GetQuestion(r.Context(), cmd.QuestionID); err != nil {
			respondError(w, r, errFromStore(err))
			return
		}

		a, err := answers.CreateAnswer(r.Context(), cmd.Body, cmd.QuestionID)
		if err != nil {
			respondError(w, r, errFromStore(err))
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, a)
	}
}

// ErrResponse renders every JSON API error.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string            `json:"status"`
	ErrorText  string            `json:"error,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Validation failed.",
		Errors:         qa.FieldErrors(err),
	}
}

func ErrInternal(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}

func errFromBind(err error) *ErrResponse {
	if errors.Is(err, command.ErrMalformed) {
		return ErrInvalidRequest(err)
	}
	return errFromStore(err)
}

func errFromStore(err error) *ErrResponse {
	switch {
	case errors.Is(err, qa.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, qa.ErrValidation):
		return ErrValidation(err)
	default:
		return ErrInternal(err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, e *ErrResponse) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("api request failed",
			zap.String("path", r.URL.Path),
			zap.Error(e.Err),
		)
	}
	if err := render.Render(w, r, e); err != nil {
		logging.FromContext(r.Context()).Error("rendering error response", zap.Error(err))
	}
}
