package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var FS embed.FS

// ParseTemplates parses HTML templates from the embedded filesystem.
// It takes a variadic list of template file names and returns a parsed template
// or an error if parsing fails. Pages execute "base.html", which renders the
// "content" block defined by the page template.
func ParseTemplates(files ...string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"subtract": func(a, b int) int {
			return a - b
		},
	}

	return template.New("").Funcs(funcMap).ParseFS(FS, files...)
}
