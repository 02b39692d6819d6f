// Package form is the schema the form front ends check input against
// before anything is submitted. It reports every failing field at once,
// each with the message shown next to that field.
package form

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/csg33k/leadform/internal/domain"
)

var mobilePattern = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)

type rule struct {
	ok      func(string) bool
	message string
}

func minLen(n int) func(string) bool {
	return func(s string) bool { return utf8.RuneCountInString(s) >= n }
}

// schema holds the rules per field, evaluated in order; the first failing
// rule supplies the field's message.
var schema = map[string][]rule{
	domain.FieldName:    {{minLen(2), "Name must be at least 2 characters."}},
	domain.FieldRoll:    {{minLen(1), "Roll number is required."}},
	domain.FieldBranch:  {{minLen(2), "Branch is required."}},
	domain.FieldCollege: {{minLen(3), "College/University is required."}},
	domain.FieldEmail:   {{domain.ValidEmail, "Please enter a valid email."}},
	domain.FieldMobile: {
		{minLen(10), "Mobile number must be at least 10 digits."},
		{mobilePattern.MatchString, "Invalid phone number format."},
	},
}

// Violation is one field that failed the schema.
type Violation struct {
	Field   string
	Message string
}

// Violations is the aggregate result of validating a form, in field order.
type Violations []Violation

// Valid reports whether no field failed.
func (v Violations) Valid() bool { return len(v) == 0 }

// For returns the message for field, or "" if the field passed.
func (v Violations) For(field string) string {
	for _, x := range v {
		if x.Field == field {
			return x.Message
		}
	}
	return ""
}

// Map returns the violations keyed by field.
func (v Violations) Map() map[string]string {
	m := make(map[string]string, len(v))
	for _, x := range v {
		m[x.Field] = x.Message
	}
	return m
}

func (v Violations) Error() string {
	msgs := make([]string, len(v))
	for i, x := range v {
		msgs[i] = x.Field + ": " + x.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every field of l and collects all violations.
func Validate(l domain.Lead) Violations {
	var out Violations
	for _, f := range domain.Fields {
		if msg := ValidateField(f, l.Get(f)); msg != "" {
			out = append(out, Violation{Field: f, Message: msg})
		}
	}
	return out
}

// ValidateField checks a single value, as done when a field loses focus.
// It returns "" when the value is acceptable or the field is unknown.
func ValidateField(field, value string) string {
	for _, r := range schema[field] {
		if !r.ok(value) {
			return r.message
		}
	}
	return ""
}

// Known reports whether field is one of the form's fields.
func Known(field string) bool {
	_, ok := schema[field]
	return ok
}
