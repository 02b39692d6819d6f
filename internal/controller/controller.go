// Package controller holds the form state shared by the web and terminal
// front ends: the entered values, field errors, and the lifecycle of one
// submission attempt.
package controller

import (
	"context"
	"sync"

	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/errs"
	"github.com/csg33k/leadform/internal/form"
	"github.com/csg33k/leadform/internal/ports"
)

// MsgGenericFailure is shown when the service fails without a message.
const MsgGenericFailure = "There was a problem with your request."

type State int

const (
	Idle State = iota
	Pending
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "unknown"
}

type Controller struct {
	svc ports.Submitter

	mu            sync.Mutex
	state         State
	values        domain.Lead
	violations    form.Violations
	notice        string
	submittedName string
}

func New(svc ports.Submitter) *Controller {
	return &Controller{svc: svc}
}

// Load replaces every field value, e.g. from a posted form.
func (c *Controller) Load(l domain.Lead) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = l
}

// SetField updates one value and re-checks it, returning the field's
// current message ("" when valid).
func (c *Controller) SetField(field, value string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values.Set(field, value)
	msg := form.ValidateField(field, value)

	kept := c.violations[:0:0]
	for _, v := range c.violations {
		if v.Field != field {
			kept = append(kept, v)
		}
	}
	if msg != "" {
		kept = append(kept, form.Violation{Field: field, Message: msg})
	}
	c.violations = ordered(kept)
	return msg
}

// Submit validates the current values and, when they pass, hands them to
// the service and waits for its result. It returns the form violations if
// any field fails, or errs.ErrBusy while a previous submit is in flight.
// The outcome of a dispatched submit is read from State and Notice.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Pending {
		c.mu.Unlock()
		return errs.ErrBusy
	}
	v := form.Validate(c.values)
	c.violations = v
	if !v.Valid() {
		c.mu.Unlock()
		return v
	}
	c.state = Pending
	c.notice = ""
	values := c.values
	c.mu.Unlock()

	// Once dispatched a submit cannot be abandoned.
	res := c.svc.Submit(context.WithoutCancel(ctx), values)

	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Success {
		c.state = Success
		c.submittedName = values.Name
		c.values = domain.Lead{}
		c.violations = nil
		return nil
	}
	c.state = Failure
	c.notice = res.Error
	if c.notice == "" {
		c.notice = MsgGenericFailure
	}
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether the submit control should be disabled.
func (c *Controller) Busy() bool {
	return c.State() == Pending
}

func (c *Controller) Values() domain.Lead {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

func (c *Controller) Violations() form.Violations {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(form.Violations(nil), c.violations...)
}

// Notice is the transient failure message of the last attempt.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// SubmittedName is the name entered on the last successful submit.
func (c *Controller) SubmittedName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submittedName
}

func ordered(v form.Violations) form.Violations {
	if len(v) == 0 {
		return nil
	}
	out := make(form.Violations, 0, len(v))
	for _, f := range domain.Fields {
		if msg := v.For(f); msg != "" {
			out = append(out, form.Violation{Field: f, Message: msg})
		}
	}
	return out
}
