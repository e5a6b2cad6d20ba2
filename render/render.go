// Package render turns fetched recommendations into HTML fragments mimicking
// GitHub's own sidebar markup, so the injected blocks blend into the page.
package render

import (
	"html/template"
	"strings"

	"github.com/gitrec/gitrec-companion/model"
)

const rateLimitPrefix = "API rate limit exceeded"

// SimilarView is everything needed to draw the "Related repositories" block
type SimilarView struct {
	Rows        []model.GithubRepository
	Message     string
	HasPrevious bool
	HasNext     bool
}

// ExploreView is everything needed to draw the dashboard explore panel
type ExploreView struct {
	Selected        model.ExplorePreference
	Rows            []model.GithubRepository
	Message         string
	IsAuthenticated bool

	// GitHub's own panel content, drawn instead of recommendations when set
	Native *string
}

type messageView struct {
	Message  string
	LoginURL string
}

type Renderer struct {
	loginURL string
	tmpl     *template.Template
}

// New builds a renderer whose login links point at loginURL
func New(loginURL string) *Renderer {
	funcs := template.FuncMap{
		"languageColor": func(language string) template.CSS {
			return template.CSS(LanguageColor(language))
		},
		"isRateLimit": IsRateLimitMessage,
		"msg": func(message, loginURL string) messageView {
			return messageView{Message: message, LoginURL: loginURL}
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"last": func(i int, rows []model.GithubRepository) bool {
			return i == len(rows)-1
		},
		"raw": func(s *string) template.HTML {
			if s == nil {
				return ""
			}
			return template.HTML(*s)
		},
	}

	return &Renderer{
		loginURL: loginURL,
		tmpl:     template.Must(template.New("render").Funcs(funcs).Parse(templates)),
	}
}

// IsRateLimitMessage reports whether GitHub refused the call because of its rate limit
func IsRateLimitMessage(message string) bool {
	return strings.HasPrefix(message, rateLimitPrefix)
}

func (r *Renderer) Similar(view SimilarView) (string, error) {
	return r.execute("similar", view)
}

func (r *Renderer) Explore(view ExploreView) (string, error) {
	return r.execute("explore", view)
}

func (r *Renderer) execute(name string, view any) (string, error) {
	var b strings.Builder
	err := r.tmpl.ExecuteTemplate(&b, name, struct {
		View     any
		LoginURL string
	}{View: view, LoginURL: r.loginURL})

	if err != nil {
		return "", err
	}

	return b.String(), nil
}
