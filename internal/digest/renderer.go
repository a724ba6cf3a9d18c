// Package digest renders the pending-products email body.
package digest

import (
	"html/template"
	"strings"
	"time"

	"github.com/meridian-crm/meridian/internal/products"
)

const emailTemplate = `<!DOCTYPE html>
<html>
<body>
<h2>Pending products older than {{.Cutoff.Format "2006-01-02"}}</h2>
<table border="1" cellpadding="4" cellspacing="0">
  <tr><th>ISSN</th><th>Name</th><th>Customer</th><th>Created</th></tr>
{{range .Products}}  <tr>
    <td>{{.ISSN}}</td>
    <td>{{.Name}}</td>
    <td>{{if .Customer}}{{.Customer.FirstName}} {{.Customer.LastName}}{{else}}&mdash;{{end}}</td>
    <td>{{.CreatedAt.Format "2006-01-02"}}</td>
  </tr>
{{end}}</table>
<p>{{len .Products}} product(s) have been pending since before the cutoff.</p>
</body>
</html>
`

// Renderer produces the HTML digest body.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the digest template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("pending_digest").Parse(emailTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

type templateData struct {
	Cutoff   time.Time
	Products []products.Product
}

// Render builds the email body for the given pending products.
func (r *Renderer) Render(list []products.Product, cutoff time.Time) (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, templateData{Cutoff: cutoff, Products: list}); err != nil {
		return "", err
	}
	return b.String(), nil
}
