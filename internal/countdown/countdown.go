// Package countdown runs the rest timer one quantum at a time until it
// reaches the threshold, is paused, or is replaced.
package countdown

import (
	"context"
	"time"

	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/notifier"
	"github.com/julianstephens/liftlog/internal/timer"
)

// StopReason explains why Run returned
type StopReason int

const (
	// StopReasonCancelled means the timer was paused, reset, cleared, or the context ended
	StopReasonCancelled StopReason = iota
	// StopReasonCompleted means the countdown reached the threshold
	StopReasonCompleted
	// StopReasonReplaced means a newer worker took over
	StopReasonReplaced
)

func (r StopReason) String() string {
	switch r {
	case StopReasonCompleted:
		return "completed"
	case StopReasonReplaced:
		return "replaced"
	default:
		return "cancelled"
	}
}

// CardLookup resolves the card shown at index in the active plan
type CardLookup func(ctx context.Context, index int) (models.ExerciseCard, error)

// SessionRecorder stores a finished rest period against a card
type SessionRecorder func(ctx context.Context, cardID int64, start, end time.Time) error

type Runner struct {
	timers   *timer.Service
	notifier notifier.Notifier
	lookup   CardLookup
	record   SessionRecorder
	cfg      config.TimerConfig
	fallback string

	// current reports whether this runner still owns the countdown
	current func() bool
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

type Option func(*Runner)

// WithOwnershipCheck stops the loop with StopReasonReplaced once current returns false
func WithOwnershipCheck(current func() bool) Option {
	return func(r *Runner) { r.current = current }
}

// WithSleep replaces the quantum wait, mostly for tests
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Runner) { r.sleep = sleep }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithSessionRecorder records a completed session when the countdown finishes
func WithSessionRecorder(record SessionRecorder) Option {
	return func(r *Runner) { r.record = record }
}

func New(timers *timer.Service, n notifier.Notifier, lookup CardLookup, cfg config.Config, opts ...Option) *Runner {
	r := &Runner{
		timers:   timers,
		notifier: n,
		lookup:   lookup,
		cfg:      cfg.Timer,
		fallback: cfg.Notifications.FallbackLabel,
		current:  func() bool { return true },
		sleep:    sleepContext,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the countdown until it stops. Errors from the timer store end
// the loop; notification and session errors are only logged.
func (r *Runner) Run(ctx context.Context) (StopReason, error) {
	ticks := 0
	redraw := func(remaining int) bool {
		return (ticks+1)%r.cfg.RedrawEvery == 0 || remaining <= r.cfg.RedrawBelow
	}

	for {
		if ctx.Err() != nil {
			return StopReasonCancelled, nil
		}
		if !r.current() {
			return StopReasonReplaced, nil
		}

		state, result, err := r.timers.Tick(ctx, r.cfg.Threshold, redraw)
		if err != nil {
			if ctx.Err() != nil {
				return StopReasonCancelled, nil
			}
			return StopReasonCancelled, err
		}

		switch result {
		case timer.TickStopped:
			return StopReasonCancelled, nil
		case timer.TickCompleted:
			r.complete(ctx, state)
			return StopReasonCompleted, nil
		}

		ticks++
		logger.Debug("Countdown tick", "remaining", state.RemainingSeconds, "tick", ticks)

		if err := r.sleep(ctx, r.cfg.Tick); err != nil {
			return StopReasonCancelled, nil
		}
	}
}

func (r *Runner) complete(ctx context.Context, state models.TimerState) {
	label := r.fallback
	var card models.ExerciseCard
	found := false
	if r.lookup != nil {
		c, err := r.lookup(ctx, state.CardIndex)
		if err != nil {
			logger.Warn("Could not resolve card for finished timer", "index", state.CardIndex, "error", err)
		} else {
			card, found = c, true
			label = c.Name
		}
	}

	note := notifier.TimerFinished(label)
	if err := r.notifier.Notify(ctx, note); err != nil {
		logger.Warn("Failed to deliver timer notification", "error", err)
	}

	if found && r.record != nil {
		end := r.now()
		start := end.Add(-time.Duration(state.SelectedSeconds) * time.Second)
		if state.StartedAt != nil && state.StartedAt.Before(end) {
			start = *state.StartedAt
		}
		if err := r.record(ctx, card.ID, start, end); err != nil {
			logger.Warn("Failed to record completed session", "card", card.ID, "error", err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
