// Package view renders the portal's server-side HTML.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"medlink-portal/internal/delivery/http/flash"
	"medlink-portal/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// User is what the layout needs to know about the visitor.
type User struct {
	ID   string
	Role string
}

// Page is the data every template receives.
type Page struct {
	Title  string
	User   *User
	Flash  *flash.Message
	Errors map[string]string
	// Error is a page-level failure shown instead of the content.
	Error string
	Form  interface{}
	Data  interface{}
}

// FieldError returns the validation message of one field.
func (p *Page) FieldError(field string) string {
	if p == nil || p.Errors == nil {
		return ""
	}
	return p.Errors[field]
}

type Renderer struct {
	pages map[string]*template.Template
	log   *logrus.Logger
}

func NewRenderer(loc *time.Location, log *logrus.Logger) (*Renderer, error) {
	funcs := Funcs(loc)

	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".html")
		if name == "layout" {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, "templates/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, log: log}, nil
}

// Render writes the named page with status. Rendering happens into a buffer
// so a template failure still produces a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) {
	t, ok := r.pages[name]
	if !ok {
		r.log.Errorf("Unknown template %q", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.log.Errorf("Failed to render %s: %+v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Funcs are the helpers available to every template.
func Funcs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"dateTime": func(v entity.LocalDateTime) string {
			t, err := v.In(loc)
			if err != nil {
				return string(v)
			}
			return t.In(loc).Format("02/01/2006 15:04")
		},
		"clock": func(v entity.LocalDateTime) string {
			t, err := v.In(loc)
			if err != nil {
				return string(v)
			}
			return t.In(loc).Format("15:04")
		},
		"specialty": func(v interface{}) string {
			return SpecialtyLabel(entity.Specialty(fmt.Sprint(v)))
		},
		"specialties": func() []entity.Specialty {
			return entity.Specialties
		},
		"statuses": func() []entity.AppointmentStatus {
			return entity.AppointmentStatuses
		},
		"isRole": func(u *User, role string) bool {
			return u != nil && u.Role == role
		},
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"add": func(a, b int) int { return a + b },
	}
}

// SpecialtyLabel turns OFTALMOLOGIA into Oftalmologia.
func SpecialtyLabel(s entity.Specialty) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}
