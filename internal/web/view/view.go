// Package view renders qaboard's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/kalambet/qaboard/internal/qa"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Page names accepted by Render.
const (
	PageHome     = "home"
	PageAsk      = "ask"
	PageQuestion = "question"
	PageError    = "error"
)

// HomePage lists every question, newest first.
type HomePage struct {
	Questions []qa.Question
}

// AskPage is the new-question form. On a failed submission it carries the
// submitted values and per-field messages.
type AskPage struct {
	Title       string
	Description string
	Errors      map[string]string
}

// QuestionPage shows one question, its answers and the answer form.
type QuestionPage struct {
	Question qa.Question
	Answers  []qa.Answer
	Body     string
	Errors   map[string]string
}

type ErrorPage struct {
	Status  int
	Message string
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04 UTC")
	},
	"statusText": http.StatusText,
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageHome, PageAsk, PageQuestion, PageError} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFiles,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with data and status. Nothing is written to w if
// template execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet directory. Mount it with the
// request prefix stripped.
func Static() http.Handler {
	fsys, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(fsys))
}
