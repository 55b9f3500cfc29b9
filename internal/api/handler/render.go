package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/edvin/partners/internal/api/request"
	"github.com/edvin/partners/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageLinkView struct {
	Label string
	Link  view.PageLink
}

type modalView struct {
	Modal  view.Modal
	Action string
	Form   view.PartnerForm
	Busy   bool
}

var templateFuncs = template.FuncMap{
	"pageURL": request.PageURL,
	"inc":     func(i int) int { return i + 1 },
	"pageLink": func(label string, link view.PageLink) pageLinkView {
		return pageLinkView{Label: label, Link: link}
	},
	"modalView": func(m view.Modal, action string, form view.PartnerForm, busy bool) modalView {
		return modalView{Modal: m, Action: action, Form: form, Busy: busy}
	},
}

// Renderer turns a table page into HTML.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("partners").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page renders the whole document. Output is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Page(w io.Writer, page view.Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index", page); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
