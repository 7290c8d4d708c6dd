package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kalambet/qaboard/internal/command"
	"github.com/kalambet/qaboard/internal/logging"
	"github.com/kalambet/qaboard/internal/qa"
	"github.com/kalambet/qaboard/internal/web/view"
)

func handleHome(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := deps.Questions.ListQuestions(r.Context())
		if err != nil {
			serverError(deps, w, r, fmt.Errorf("listing questions: %w", err))
			return
		}
		render(deps, w, r, http.StatusOK, view.PageHome, view.HomePage{Questions: list})
	}
}

func handleAsk(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(deps, w, r, http.StatusOK, view.PageAsk, view.AskPage{})
	}
}

func handleSubmitQuestion(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := command.BindAskQuestion(w, r)
		if err == nil {
			_, err = deps.Questions.CreateQuestion(r.Context(), cmd.Title, cmd.Description)
		}
		switch {
		case err == nil:
			http.Redirect(w, r, "/", http.StatusFound)
		case errors.Is(err, qa.ErrValidation):
			render(deps, w, r, http.StatusUnprocessableEntity, view.PageAsk, view.AskPage{
				Title:       cmd.Title,
				Description: cmd.Description,
				Errors:      qa.FieldErrors(err),
			})
		case errors.Is(err, command.ErrMalformed):
			clientError(deps, w, r, http.StatusBadRequest, "The submitted form could not be read.")
		default:
			serverError(deps, w, r, err)
		}
	}
}

func handleQuestion(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := command.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		q, err := deps.Questions.GetQuestion(r.Context(), id)
		if errors.Is(err, qa.ErrNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if err != nil {
			serverError(deps, w, r, fmt.Errorf("getting question %d: %w", id, err))
			return
		}

		answers, err := deps.Answers.ListAnswersForQuestion(r.Context(), q.ID)
		if err != nil {
			serverError(deps, w, r, fmt.Errorf("listing answers for question %d: %w", id, err))
			return
		}

		render(deps, w, r, http.StatusOK, view.PageQuestion, view.QuestionPage{Question: q, Answers: answers})
	}
}

func handleSubmitAnswer(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := command.BindAnswerQuestion(w, r)
		if errors.Is(err, command.ErrMalformed) {
			clientError(deps, w, r, http.StatusBadRequest, "The submitted form could not be read.")
			return
		}
		if _, bad := qa.FieldErrors(err)[qa.FieldQuestionID]; bad {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		q, qerr := deps.Questions.GetQuestion(r.Context(), cmd.QuestionID)
		if errors.Is(qerr, qa.ErrNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if qerr != nil {
			serverError(deps, w, r, fmt.Errorf("getting question %d: %w", cmd.QuestionID, qerr))
			return
		}

		if err == nil {
			_, err = deps.Answers.CreateAnswer(r.Context(), cmd.Body, cmd.QuestionID)
		}
		switch {
		case err == nil:
			http.Redirect(w, r, fmt.Sprintf("/questions/%d", cmd.QuestionID), http.StatusFound)
		case errors.Is(err, qa.ErrValidation):
			answers, lerr := deps.Answers.ListAnswersForQuestion(r.Context(), q.ID)
			if lerr != nil {
				serverError(deps, w, r, fmt.Errorf("listing answers for question %d: %w", q.ID, lerr))
				return
			}
			render(deps, w, r, http.StatusUnprocessableEntity, view.PageQuestion, view.QuestionPage{
				Question: q,
				Answers:  answers,
				Body:     cmd.Body,
				Errors:   qa.FieldErrors(err),
			})
		default:
			serverError(deps, w, r, err)
		}
	}
}

func render(deps Deps, w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := deps.Views.Render(w, status, page, data); err != nil {
		logging.FromContext(r.Context()).Error("rendering page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func clientError(deps Deps, w http.ResponseWriter, r *http.Request, status int, msg string) {
	render(deps, w, r, status, view.PageError, view.ErrorPage{Status: status, Message: msg})
}

func serverError(deps Deps, w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	render(deps, w, r, http.StatusInternalServerError, view.PageError, view.ErrorPage{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong. Please try again later.",
	})
}
