package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/a-h/templ"

	"github.com/csg33k/leadform/internal/controller"
	"github.com/csg33k/leadform/internal/dialog"
	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/form"
	"github.com/csg33k/leadform/internal/ports"
	"github.com/csg33k/leadform/internal/submission"
	"github.com/csg33k/leadform/internal/templates"
)

// maxBody bounds the JSON API request body.
const maxBody = 64 << 10

type Handler struct {
	svc    ports.Submitter
	dialog dialog.Config
	logger ports.Logger
}

func New(svc ports.Submitter, d dialog.Config, logger ports.Logger) *Handler {
	return &Handler{svc: svc, dialog: d, logger: logger}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /submit", h.submit)
	mux.HandleFunc("POST /validate/{field}", h.validateField)
	mux.HandleFunc("POST /api/submit", h.apiSubmit)
	mux.HandleFunc("GET /healthz", h.healthz)
	return chain(mux, RequestID(), RecoverPanic(h.logger), AccessLog(h.logger))
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.Page(templates.NewFormView(domain.Lead{}, nil)))
}

// submit runs one form submission and swaps the form panel with the
// outcome: field errors, a failure notice, or a cleared form with the
// success dialog.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctl := controller.New(h.svc)
	ctl.Load(leadFromForm(r.PostForm))

	err := ctl.Submit(r.Context())
	var violations form.Violations
	if errors.As(err, &violations) {
		render(w, r, templates.Form(templates.NewFormView(ctl.Values(), violations.Map())))
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	switch ctl.State() {
	case controller.Success:
		v := templates.NewFormView(ctl.Values(), nil)
		v.Success = templates.NewSuccessView(ctl.SubmittedName(), h.dialog)
		render(w, r, templates.Form(v))
	default:
		v := templates.NewFormView(ctl.Values(), nil)
		v.Notice = ctl.Notice()
		render(w, r, templates.Form(v))
	}
}

// validateField checks one field when it loses focus.
func (h *Handler) validateField(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	if !form.Known(field) {
		http.Error(w, "unknown field", http.StatusNotFound)
		return
	}
	value := r.PostFormValue(field)
	render(w, r, templates.FieldError(templates.NewField(field, value, form.ValidateField(field, value))))
}

// apiSubmit is the JSON form of the submission boundary. The body is passed
// through untouched; the service decides whether it is a valid record.
func (h *Handler) apiSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, domain.Result{Error: err.Error()})
		return
	}
	res := h.svc.Submit(r.Context(), json.RawMessage(body))
	writeJSON(w, resultStatus(res), res)
}

// resultStatus maps a submission outcome onto an HTTP status: rejected
// payloads are the caller's fault, store failures are not.
func resultStatus(res domain.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case res.Error == submission.MsgInvalid:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func leadFromForm(v url.Values) domain.Lead {
	var l domain.Lead
	for _, f := range domain.Fields {
		l.Set(f, v.Get(f))
	}
	return l
}
