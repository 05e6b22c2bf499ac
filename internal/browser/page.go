package browser

import (
	"embed"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData is what the index template renders.
type PageData struct {
	Title     string
	User      string
	Error     string
	Notice    string
	AuthError string
	AuthInfo  string
	Searched  bool
	View     View
	Filters  []Filter
	Sorts    []SortKey
}

// Page renders the UI entry point.
type Page struct {
	tmpl *template.Template
}

func NewPage() (*Page, error) {
	tmpl, err := template.New("index.html").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Page{tmpl: tmpl}, nil
}

func (p *Page) Render(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "Drug Interaction Checker"
	}
	data.Filters = []Filter{FilterAll, FilterHigh, FilterModerate, FilterLow}
	data.Sorts = []SortKey{SortNone, SortName, SortSeverity}
	return p.tmpl.Execute(w, data)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"severityClass": func(s string) string {
			switch SeverityRank(s) {
			case 0:
				return "high"
			case 1:
				return "moderate"
			case 2:
				return "low"
			}
			return "unknown"
		},
		"truncate": func(s string, n int) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return string(r[:n]) + "..."
		},
		"filterLabel": func(f Filter) string {
			switch f {
			case FilterHigh:
				return "High"
			case FilterModerate:
				return "Moderate"
			case FilterLow:
				return "Low / unknown"
			}
			return "All severities"
		},
		"sortLabel": func(k SortKey) string {
			switch k {
			case SortName:
				return "Name"
			case SortSeverity:
				return "Severity"
			}
			return "Relevance"
		},
	}
}
