// Package browser opens external targets in the user's default browser.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/csg33k/leadform/internal/ports"
)

var _ ports.Opener = (*Opener)(nil)

// Command builds the process that opens target.
type Command func(ctx context.Context, target string) *exec.Cmd

type Opener struct {
	command Command
}

func New() *Opener {
	return &Opener{command: systemCommand}
}

// WithCommand returns an opener that runs cmd instead of the platform
// launcher.
func WithCommand(cmd Command) *Opener {
	return &Opener{command: cmd}
}

// Open starts the launcher for an http(s) target and waits for it to exit.
func (o *Opener) Open(ctx context.Context, target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("parse target: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: only http(s) targets", target)
	}
	if out, err := o.command(ctx, u.String()).CombinedOutput(); err != nil {
		return fmt.Errorf("open %s: %w: %s", target, err, out)
	}
	return nil
}

func systemCommand(ctx context.Context, target string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", target)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return exec.CommandContext(ctx, "xdg-open", target)
	}
}
