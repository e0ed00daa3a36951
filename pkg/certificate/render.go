package certificate

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Data is the value certificate templates execute against.
type Data struct {
	CertificateID string
	StudentName   string
	StudentNumber string
	HonorName     string
	HonorCode     string
	SchoolYear    string
	Average       string
	IssuedAt      time.Time
	Logo          template.HTML
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"date": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
}

// Parse compiles template content, reporting syntax errors.
func Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("template content is empty")
	}
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse certificate template: %w", err)
	}
	return tmpl, nil
}

// Render parses content and executes it with data.
func Render(name, content string, data Data) ([]byte, error) {
	tmpl, err := Parse(name, content)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute certificate template: %w", err)
	}
	return buf.Bytes(), nil
}
