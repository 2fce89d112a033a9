// Package views renders the server-side HTML pages. Every page template is
// parsed together with the shared layout and executed with a Page wrapping
// the handler's view-model.
package views

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/htmlutil"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/pagination"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile    = "templates/layout.html"
	summaryLength = 160
)

// Page is what every template executes against.
type Page struct {
	// Data is the handler's view-model.
	Data interface{}
	// CurrentUser is nil for anonymous requests.
	CurrentUser *models.User
	// CanEdit reports whether the current user may change the catalog.
	CanEdit bool
}

// Pager feeds the shared pagination partial.
type Pager struct {
	Path string
	Page pagination.Page
}

type Renderer struct {
	templates map[string]*template.Template
}

// New parses every embedded page template.
func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r := &Renderer{templates: map[string]*template.Template{}}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", name)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Has reports whether a page template with the name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}

	var user *models.User
	if c != nil {
		user = auth.CurrentUser(c)
	}
	page := &Page{
		Data:        data,
		CurrentUser: user,
		CanEdit:     auth.Allowed(auth.CategoryCatalogWrite, user),
	}
	return errors.WithStack(t.ExecuteTemplate(w, "layout", page))
}

var funcs = template.FuncMap{
	// stored reverses the input escaping of free text so the template
	// escapes it exactly once.
	"stored": validation.Unescape,
	"excerpt": func(s string) string {
		return htmlutil.Excerpt(s, summaryLength)
	},
	"now": time.Now,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"errorFor": func(errs []validation.FieldError, field string) string {
		for _, e := range errs {
			if e.Field == field {
				return e.Message
			}
		}
		return ""
	},
	"pager": func(p string, page pagination.Page) Pager {
		return Pager{Path: p, Page: page}
	},
}
