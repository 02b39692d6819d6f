// Package validation checks untrusted submission payloads before they reach
// the store. It is deliberately independent of the form schema the front
// ends use: the service must not assume its caller already validated.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/errs"
)

var mobilePattern = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)

// lead mirrors domain.Lead with the trust-boundary constraints.
type lead struct {
	Name        string `json:"name" validate:"required,min=2"`
	RollNumber  string `json:"roll" validate:"required"`
	Branch      string `json:"branch" validate:"required,min=2"`
	Institution string `json:"college" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email_address"`
	Mobile      string `json:"mobile" validate:"required,min=10,mobile"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	rules := map[string]validator.Func{
		"mobile": func(fl validator.FieldLevel) bool {
			return mobilePattern.MatchString(fl.Field().String())
		},
		"email_address": func(fl validator.FieldLevel) bool {
			return domain.ValidEmail(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %q: %v", tag, err))
		}
	}
	return v
}

// FieldError is one violated constraint.
type FieldError struct {
	Field string
	Rule  string
}

// Error is returned when a payload does not conform to the record shape.
type Error struct {
	Fields []FieldError
	cause  error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		if e.cause != nil {
			return "invalid payload: " + e.cause.Error()
		}
		return "invalid payload"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " failed " + f.Rule
	}
	return "invalid payload: " + strings.Join(parts, ", ")
}

func (e *Error) Unwrap() error { return errs.ErrInvalidPayload }

// Parse decodes an untyped payload into a Lead and validates it. It accepts
// a domain.Lead, string maps, url.Values, raw JSON bytes, or any value that
// marshals to a JSON object with the six string fields.
func Parse(payload any) (domain.Lead, error) {
	in, err := decode(payload)
	if err != nil {
		return domain.Lead{}, &Error{cause: err}
	}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.Lead{}, &Error{cause: err}
		}
		out := &Error{cause: err}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return domain.Lead{}, out
	}
	return domain.Lead(in), nil
}

func decode(payload any) (lead, error) {
	switch p := payload.(type) {
	case nil:
		return lead{}, errors.New("payload is nil")
	case domain.Lead:
		return lead(p), nil
	case *domain.Lead:
		if p == nil {
			return lead{}, errors.New("payload is nil")
		}
		return lead(*p), nil
	case url.Values:
		var l domain.Lead
		for _, f := range domain.Fields {
			l.Set(f, p.Get(f))
		}
		return lead(l), nil
	case map[string]string:
		var l domain.Lead
		for _, f := range domain.Fields {
			l.Set(f, p[f])
		}
		return lead(l), nil
	case json.RawMessage:
		return decodeJSON(p)
	case []byte:
		return decodeJSON(p)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return lead{}, fmt.Errorf("marshal payload: %w", err)
	}
	return decodeJSON(b)
}

func decodeJSON(b []byte) (lead, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return lead{}, fmt.Errorf("decode payload: %w", err)
	}
	if obj == nil {
		return lead{}, errors.New("payload is not an object")
	}
	var l domain.Lead
	for _, f := range domain.Fields {
		raw, ok := obj[f]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return lead{}, fmt.Errorf("field %s: must be a string", f)
		}
		l.Set(f, s)
	}
	return lead(l), nil
}
