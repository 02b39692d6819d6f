package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/errs"
	"github.com/csg33k/leadform/internal/form"
)

type fakeSubmitter struct {
	result  domain.Result
	calls   int
	got     any
	release chan struct{}
	started chan struct{}
	ctxErr  error
}

func (f *fakeSubmitter) Submit(ctx context.Context, payload any) domain.Result {
	f.calls++
	f.got = payload
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	f.ctxErr = ctx.Err()
	return f.result
}

func validLead() domain.Lead {
	return domain.Lead{
		Name: "Al", RollNumber: "21CS001", Branch: "CS",
		Institution: "MIT", Email: "a@b.co", Mobile: "1234567890",
	}
}

func TestSubmit_SuccessResetsForm(t *testing.T) {
	svc := &fakeSubmitter{result: domain.Result{Success: true}}
	c := New(svc)
	c.Load(validLead())
	require.Equal(t, Idle, c.State())

	require.NoError(t, c.Submit(context.Background()))
	require.Equal(t, Success, c.State())
	require.Equal(t, domain.Lead{}, c.Values())
	require.Equal(t, "Al", c.SubmittedName())
	require.Empty(t, c.Notice())
	require.Equal(t, validLead(), svc.got)
}

func TestSubmit_FailureKeepsValues(t *testing.T) {
	svc := &fakeSubmitter{result: domain.Result{Success: false, Error: "PERMISSION_DENIED"}}
	c := New(svc)
	c.Load(validLead())

	require.NoError(t, c.Submit(context.Background()))
	require.Equal(t, Failure, c.State())
	require.Equal(t, "PERMISSION_DENIED", c.Notice())
	require.Equal(t, validLead(), c.Values())
	require.Empty(t, c.SubmittedName())
}

func TestSubmit_FailureWithoutMessageUsesFallback(t *testing.T) {
	c := New(&fakeSubmitter{result: domain.Result{}})
	c.Load(validLead())
	require.NoError(t, c.Submit(context.Background()))
	require.Equal(t, MsgGenericFailure, c.Notice())
}

func TestSubmit_InvalidEmailNeverCallsService(t *testing.T) {
	svc := &fakeSubmitter{result: domain.Result{Success: true}}
	c := New(svc)
	l := validLead()
	l.Email = "not-an-email"
	c.Load(l)

	err := c.Submit(context.Background())
	var v form.Violations
	require.ErrorAs(t, err, &v)
	require.Equal(t, "Please enter a valid email.", v.For(domain.FieldEmail))
	require.Zero(t, svc.calls)
	require.Equal(t, Idle, c.State())
	require.Equal(t, l, c.Values())
}

func TestSubmit_ShortMobile(t *testing.T) {
	c := New(&fakeSubmitter{})
	l := validLead()
	l.Mobile = "123"
	c.Load(l)

	require.Error(t, c.Submit(context.Background()))
	require.Contains(t, c.Violations().For(domain.FieldMobile), "at least 10 digits")
}

func TestSubmit_BusyWhilePending(t *testing.T) {
	svc := &fakeSubmitter{
		result:  domain.Result{Success: true},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	c := New(svc)
	c.Load(validLead())

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-svc.started

	require.True(t, c.Busy())
	require.Equal(t, Pending, c.State())
	require.ErrorIs(t, c.Submit(context.Background()), errs.ErrBusy)

	close(svc.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("submit did not finish")
	}
	require.Equal(t, Success, c.State())
	require.Equal(t, 1, svc.calls)
}

func TestSubmit_NotCancelledByCaller(t *testing.T) {
	svc := &fakeSubmitter{result: domain.Result{Success: true}}
	c := New(svc)
	c.Load(validLead())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, c.Submit(ctx))
	require.NoError(t, svc.ctxErr)
}

func TestSubmit_RestartsAfterTerminalState(t *testing.T) {
	svc := &fakeSubmitter{result: domain.Result{Error: "quota exceeded"}}
	c := New(svc)
	c.Load(validLead())
	require.NoError(t, c.Submit(context.Background()))
	require.Equal(t, Failure, c.State())

	svc.result = domain.Result{Success: true}
	require.NoError(t, c.Submit(context.Background()))
	require.Equal(t, Success, c.State())
	require.Empty(t, c.Notice())
	require.Equal(t, 2, svc.calls)
}

func TestSetField(t *testing.T) {
	c := New(&fakeSubmitter{})
	require.Equal(t, "Name must be at least 2 characters.", c.SetField(domain.FieldName, "A"))
	require.Equal(t, "Please enter a valid email.", c.SetField(domain.FieldEmail, "x"))
	require.Len(t, c.Violations(), 2)

	require.Empty(t, c.SetField(domain.FieldName, "Ada"))
	v := c.Violations()
	require.Len(t, v, 1)
	require.Equal(t, domain.FieldEmail, v[0].Field)
	require.Equal(t, "Ada", c.Values().Name)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "pending", Pending.String())
	require.Equal(t, "success", Success.String())
	require.Equal(t, "failure", Failure.String())
	require.Equal(t, "unknown", State(9).String())
}
