// Package views renders the portal's server-side pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Dosada05/pickleball-portal/models"
)

//go:embed templates/*.html
var files embed.FS

// PageData is passed to every template: the session user (nil on the public
// auth pages) and an optional form error.
type PageData struct {
	User  *SessionUser
	Error string
}

type SessionUser struct {
	ID       int
	Username string
	Role     string
}

func (u *SessionUser) IsAdmin() bool {
	return u != nil && u.Role == models.RoleAdmin
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse view templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w http.ResponseWriter, name string, data PageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return r.tmpl.ExecuteTemplate(w, name, data)
}
