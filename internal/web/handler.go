// Package web serves qaboard's HTML pages.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kalambet/qaboard/internal/api"
	"github.com/kalambet/qaboard/internal/metrics"
	"github.com/kalambet/qaboard/internal/qa"
	"github.com/kalambet/qaboard/internal/web/view"
)

// Deps holds what the web handler needs. Logger, Metrics and SubmitLimiter
// are optional.
type Deps struct {
	Questions     qa.QuestionStore
	Answers       qa.AnswerStore
	Views         *view.Renderer
	Logger        *zap.Logger
	Metrics       *metrics.Recorder
	SubmitLimiter *rate.Limiter
}

// NewHandler returns the full qaboard router: the five HTML routes, static
// assets, /health and the JSON API under /api.
func NewHandler(deps Deps) *chi.Mux {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(requestLogger(deps.Logger, deps.Metrics))
	r.Use(middleware.Recoverer)

	submit := r.With(rateLimit(deps.SubmitLimiter))

	r.Get("/", handleHome(deps))
	r.Get("/ask", handleAsk(deps))
	submit.Post("/questions", handleSubmitQuestion(deps))
	r.Get("/questions/{id}", handleQuestion(deps))
	submit.Post("/answers", handleSubmitAnswer(deps))

	r.Handle("/static/*", http.StripPrefix("/static", view.Static()))
	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimitWrites(deps.SubmitLimiter))
		r.Mount("/", api.NewJSONHandler(deps.Questions, deps.Answers))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
