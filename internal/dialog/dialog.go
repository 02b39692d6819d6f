// Package dialog drives the post-submission success dialog: a short
// countdown, then a staggered batch of external targets being opened.
// Every pending timer is cancelled when the dialog closes.
package dialog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/csg33k/leadform/internal/ports"
)

const (
	DefaultCountdown   = 3
	DefaultTick        = time.Second
	DefaultStagger     = 500 * time.Millisecond
	DefaultDisplayText = "Opening: Google, GitHub, LinkedIn, Facebook, Twitter"
)

type Config struct {
	Countdown int
	Tick      time.Duration
	Stagger   time.Duration
	Targets   []string
	// DisplayText is shown to the user while targets open. It is kept
	// separate from Targets and is not derived from them.
	DisplayText string
}

func (c Config) withDefaults() Config {
	if c.Countdown < 0 {
		c.Countdown = 0
	}
	if c.Tick <= 0 {
		c.Tick = DefaultTick
	}
	if c.Stagger < 0 {
		c.Stagger = 0
	}
	if c.DisplayText == "" {
		c.DisplayText = DefaultDisplayText
	}
	return c
}

// Snapshot is what the dialog currently shows.
type Snapshot struct {
	Open      bool
	Name      string
	Remaining int
	Attempted bool
	Opened    int
	Failed    int
}

type Dialog struct {
	cfg    Config
	opener ports.Opener
	logger ports.Logger
	sched  Scheduler

	mu       sync.Mutex
	snap     Snapshot
	timers   []Timer
	gen      int
	ctx      context.Context
	cancel   context.CancelFunc
	onChange func(Snapshot)
}

type Option func(*Dialog)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(d *Dialog) { d.sched = s }
}

// OnChange registers a callback invoked after every visible change.
func OnChange(f func(Snapshot)) Option {
	return func(d *Dialog) { d.onChange = f }
}

func New(cfg Config, opener ports.Opener, logger ports.Logger, opts ...Option) *Dialog {
	d := &Dialog{
		cfg:    cfg.withDefaults(),
		opener: opener,
		logger: logger,
		sched:  RealScheduler{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dialog) Config() Config { return d.cfg }

// Open shows the dialog for name and starts the countdown from scratch.
func (d *Dialog) Open(name string) {
	d.mu.Lock()
	d.stopLocked()
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.snap = Snapshot{Open: true, Name: name, Remaining: d.cfg.Countdown}
	gen := d.gen
	if d.cfg.Countdown == 0 {
		d.launchLocked(gen)
	} else {
		d.scheduleLocked(d.cfg.Tick, func() { d.tick(gen) })
	}
	snap := d.snap
	d.mu.Unlock()
	d.notify(snap)
}

// OpenAll repeats the staggered batch, for when the automatic attempt was
// blocked. It does nothing before the countdown ends or once the dialog is
// closed.
func (d *Dialog) OpenAll() {
	d.mu.Lock()
	if !d.snap.Open || !d.snap.Attempted {
		d.mu.Unlock()
		return
	}
	d.launchLocked(d.gen)
	snap := d.snap
	d.mu.Unlock()
	d.notify(snap)
}

// Close hides the dialog and cancels every pending timer.
func (d *Dialog) Close() {
	d.mu.Lock()
	d.stopLocked()
	d.snap.Open = false
	snap := d.snap
	d.mu.Unlock()
	d.notify(snap)
}

func (d *Dialog) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}

// Pending reports how many scheduled callbacks have not fired yet.
func (d *Dialog) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

func (d *Dialog) tick(gen int) {
	d.mu.Lock()
	if gen != d.gen || !d.snap.Open {
		d.mu.Unlock()
		return
	}
	d.snap.Remaining--
	if d.snap.Remaining > 0 {
		d.scheduleLocked(d.cfg.Tick, func() { d.tick(gen) })
	} else {
		d.launchLocked(gen)
	}
	snap := d.snap
	d.mu.Unlock()
	d.notify(snap)
}

func (d *Dialog) launchLocked(gen int) {
	d.logger.Info("opening targets", "count", len(d.cfg.Targets))
	for i, target := range d.cfg.Targets {
		d.scheduleLocked(time.Duration(i)*d.cfg.Stagger, func() { d.openOne(gen, i, target) })
	}
	d.snap.Attempted = true
}

func (d *Dialog) openOne(gen, i int, target string) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	ctx := d.ctx
	d.mu.Unlock()

	err := d.safeOpen(ctx, target)

	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	if err != nil {
		d.snap.Failed++
		d.logger.Error("failed to open target", "index", i+1, "target", target, "error", err)
	} else {
		d.snap.Opened++
		d.logger.Debug("opened target", "index", i+1, "target", target)
	}
	snap := d.snap
	d.mu.Unlock()
	d.notify(snap)
}

func (d *Dialog) safeOpen(ctx context.Context, target string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open %s: panic: %v", target, r)
		}
	}()
	return d.opener.Open(ctx, target)
}

func (d *Dialog) scheduleLocked(delay time.Duration, f func()) {
	var t Timer
	t = d.sched.AfterFunc(delay, func() {
		// t is assigned before the scheduling lock is released.
		d.mu.Lock()
		d.forgetLocked(t)
		d.mu.Unlock()
		f()
	})
	d.timers = append(d.timers, t)
}

func (d *Dialog) forgetLocked(t Timer) {
	for i, x := range d.timers {
		if x == t {
			d.timers = append(d.timers[:i], d.timers[i+1:]...)
			return
		}
	}
}

func (d *Dialog) stopLocked() {
	for _, t := range d.timers {
		t.Stop()
	}
	d.timers = nil
	d.gen++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Dialog) notify(s Snapshot) {
	if d.onChange != nil {
		d.onChange(s)
	}
}
