package echoweb

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"fmtDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
}

var pageNames = []string{"home", "login", "loading", "dashboard", "announcements", "quizzes", "error"}

// templateRenderer keeps one compiled template tree per page, each sharing
// the base layout.
type templateRenderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil)

func newTemplateRenderer() *templateRenderer {
	r := &templateRenderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		r.pages[name] = template.Must(
			template.New("base.gohtml").
				Funcs(templateFuncs).
				ParseFS(templateFS, "templates/base.gohtml", "templates/"+name+".gohtml"),
		)
	}
	return r
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return page.Execute(w, data)
}
