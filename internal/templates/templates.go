// Package templates renders the lead form pages and htmx fragments.
package templates

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/csg33k/leadform/internal/dialog"
	"github.com/csg33k/leadform/internal/domain"
)

//go:embed html/*.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "html/*.html"))

// Title is shown in the browser tab and the page heading.
const Title = "Student Registration"

// Field is one input of the form as rendered.
type Field struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
}

var fieldMeta = map[string]Field{
	domain.FieldName:    {Label: "Name", Type: "text", Placeholder: "John Doe"},
	domain.FieldRoll:    {Label: "Roll Number", Type: "text", Placeholder: "e.g., 21CS001"},
	domain.FieldBranch:  {Label: "Branch", Type: "text", Placeholder: "Computer Science"},
	domain.FieldCollege: {Label: "College / University", Type: "text", Placeholder: "University of Technology"},
	domain.FieldEmail:   {Label: "Email ID", Type: "email", Placeholder: "you@example.com"},
	domain.FieldMobile:  {Label: "Mobile Number", Type: "tel", Placeholder: "+1 (555) 123-4567"},
}

// NewField returns field with its label and input metadata filled in.
func NewField(name, value, errMsg string) Field {
	f := fieldMeta[name]
	f.Name = name
	f.Value = value
	f.Error = errMsg
	return f
}

// FormView is the state of the form panel.
type FormView struct {
	Fields  []Field
	Notice  string
	Success *SuccessView
}

// NewFormView lays out values and per-field errors in display order.
func NewFormView(values domain.Lead, errors map[string]string) FormView {
	v := FormView{Fields: make([]Field, 0, len(domain.Fields))}
	for _, name := range domain.Fields {
		v.Fields = append(v.Fields, NewField(name, values.Get(name), errors[name]))
	}
	return v
}

// SuccessView feeds the in-page countdown dialog.
type SuccessView struct {
	Name          string
	Countdown     int
	TickMillis    int64
	StaggerMillis int64
	TargetsJSON   string
	DisplayText   string
}

func NewSuccessView(name string, cfg dialog.Config) *SuccessView {
	targets := cfg.Targets
	if targets == nil {
		targets = []string{}
	}
	b, _ := json.Marshal(targets)
	return &SuccessView{
		Name:          name,
		Countdown:     cfg.Countdown,
		TickMillis:    cfg.Tick.Milliseconds(),
		StaggerMillis: cfg.Stagger.Milliseconds(),
		TargetsJSON:   string(b),
		DisplayText:   cfg.DisplayText,
	}
}

type pageData struct {
	Title string
	Form  FormView
}

// Page is the full document around the form panel.
func Page(form FormView) templ.Component {
	return component("page", pageData{Title: Title, Form: form})
}

// Form is the form panel fragment swapped by htmx after a submit.
func Form(form FormView) templ.Component {
	return component("form", form)
}

// FieldError is the message slot under one input.
func FieldError(f Field) templ.Component {
	return component("field-error", f)
}

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}
