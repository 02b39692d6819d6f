package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gookit/color"

	"github.com/csg33k/leadform/internal/controller"
	"github.com/csg33k/leadform/internal/dialog"
	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/form"
	"github.com/csg33k/leadform/internal/ports"
	"github.com/csg33k/leadform/internal/templates"
)

// session is one interactive run of the terminal form.
type session struct {
	in     *bufio.Scanner
	out    io.Writer
	svc    ports.Submitter
	dialog dialog.Config
	opener ports.Opener
	logger ports.Logger
	colors bool
}

var (
	styleOK    = color.New(color.FgGreen, color.OpBold)
	styleError = color.New(color.FgRed)
	styleHint  = color.New(color.FgGray)
)

func (s *session) paint(st color.Style, text string) string {
	if !s.colors {
		return text
	}
	return st.Render(text)
}

func (s *session) run(ctx context.Context) error {
	ctl := controller.New(s.svc)
	for {
		if err := s.collect(ctl); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Submitting...")
		err := ctl.Submit(ctx)
		var violations form.Violations
		switch {
		case errors.As(err, &violations):
			for _, v := range violations {
				fmt.Fprintf(s.out, "  %s: %s\n", label(v.Field), s.paint(styleError, v.Message))
			}
			continue
		case err != nil:
			return err
		}

		if ctl.State() == controller.Failure {
			fmt.Fprintln(s.out, s.paint(styleError, "Uh oh! Something went wrong. "+ctl.Notice()))
			if !s.confirm("Try again?") {
				return nil
			}
			continue
		}

		s.celebrate(ctx, ctl.SubmittedName())
		if !s.confirm("Submit another?") {
			return nil
		}
	}
}

// collect prompts for every field, re-asking a field until it passes.
// Pressing enter keeps a value already entered.
func (s *session) collect(ctl *controller.Controller) error {
	values := ctl.Values()
	for _, f := range domain.Fields {
		for {
			current := values.Get(f)
			if current != "" {
				fmt.Fprintf(s.out, "%s [%s]: ", label(f), s.paint(styleHint, current))
			} else {
				fmt.Fprintf(s.out, "%s: ", label(f))
			}
			line, err := s.readLine()
			if err != nil {
				return err
			}
			if line == "" {
				line = current
			}
			if msg := ctl.SetField(f, line); msg != "" {
				fmt.Fprintf(s.out, "  %s\n", s.paint(styleError, msg))
				continue
			}
			break
		}
	}
	return nil
}

// celebrate runs the countdown dialog until every target was attempted or
// ctx is done.
func (s *session) celebrate(ctx context.Context, name string) {
	done := make(chan struct{})
	total := len(s.dialog.Targets)
	var finish sync.Once
	d := dialog.New(s.dialog, s.opener, s.logger, dialog.OnChange(func(snap dialog.Snapshot) {
		switch {
		case !snap.Open:
		case !snap.Attempted:
			fmt.Fprintf(s.out, "Opening tabs in %d...\n", snap.Remaining)
		case snap.Opened+snap.Failed == total:
			finish.Do(func() { close(done) })
		}
	}))

	fmt.Fprintln(s.out, s.paint(styleOK, "Success!"))
	if name != "" {
		fmt.Fprintf(s.out, "Thank you, %s!\n", name)
	}
	fmt.Fprintln(s.out, "Your information has been saved to the database.")

	d.Open(name)
	select {
	case <-done:
	case <-ctx.Done():
	}
	snap := d.Snapshot()
	d.Close()

	fmt.Fprintln(s.out, d.Config().DisplayText)
	if snap.Failed > 0 {
		fmt.Fprintln(s.out, s.paint(styleError, fmt.Sprintf("%d of %d tabs could not be opened. Open them manually:", snap.Failed, total)))
		for _, t := range s.dialog.Targets {
			fmt.Fprintf(s.out, "  %s\n", t)
		}
		return
	}
	fmt.Fprintln(s.out, s.paint(styleOK, "Tabs Opened Successfully!"))
}

func (s *session) confirm(question string) bool {
	fmt.Fprintf(s.out, "%s [y/N]: ", question)
	line, err := s.readLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

func (s *session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(s.in.Text(), "\r"), nil
}

func label(field string) string {
	return templates.NewField(field, "", "").Label
}
