// Package bench drives one action through its benchmark lifecycle:
// optional setup, a diagnostic warmup loop, then the measured loop
// that produces one record per repetition.
package bench

import (
	"context"
	"fmt"
	"time"

	"apibench/internal/core"
	"apibench/internal/ratelimit"
)

// Defaults are the process-wide fallbacks for labels an action does
// not override.
type Defaults struct {
	Category    string
	Environment string
}

// Runner executes one action. A Runner is single-use and not safe for
// concurrent use; create a fresh one per action execution.
type Runner struct {
	action    core.Action
	transport core.Transport
	defaults  Defaults
	clock     core.Clock
	timeout   time.Duration
	limiter   *ratelimit.Limiter
	records   []core.Record
}

type Option func(*Runner)

// WithDefaults sets the category/environment fallbacks.
func WithDefaults(d Defaults) Option {
	return func(r *Runner) { r.defaults = d }
}

// WithClock replaces the clock, for tests.
func WithClock(c core.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithTimeout applies a deadline to every setup and measurement
// invocation. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLimiter paces invocations; warmups hit the target too, so they
// are paced as well. A nil limiter disables pacing.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(r *Runner) { r.limiter = l }
}

func NewRunner(action core.Action, transport core.Transport, opts ...Option) *Runner {
	r := &Runner{
		action:    action,
		transport: transport,
		clock:     core.RealClock{},
		records:   make([]core.Record, 0, action.Repetitions),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Category returns the action's category, falling back to the default.
func (r *Runner) Category() string {
	if r.action.Category != "" {
		return r.action.Category
	}
	return r.defaults.Category
}

// Environment returns the action's environment, falling back to the
// configured benchmark environment.
func (r *Runner) Environment() string {
	if r.action.Environment != "" {
		return r.action.Environment
	}
	return r.defaults.Environment
}

// Records returns the per-repetition observations in execution order.
// The sequence is fully populated even when Run returns an error.
func (r *Runner) Records() []core.Record { return r.records }

// Run executes the lifecycle. A setup failure aborts the action before
// any invocation and is returned as-is. Warmup and measured failures
// are collected and never stop their loops: every configured
// repetition executes and records exactly one observation. Run returns
// nil only when no invocation failed; otherwise it returns a run error
// listing every failure in occurrence order.
func (r *Runner) Run(ctx context.Context) error {
	errs := make([]string, 0, r.action.Warmups+r.action.Repetitions)

	if err := r.setup(ctx); err != nil {
		return err
	}

	for i := 0; i < r.action.Warmups; i++ {
		if err := r.warmup(ctx, i); err != nil {
			errs = append(errs, fmt.Sprintf("warmup %d: %s", i, err))
		}
	}

	for i := 0; i < r.action.Repetitions; i++ {
		if err := r.limiter.Wait(ctx); err != nil {
			// Canceled before the invocation started: record the
			// repetition as failed without timing a call that never ran.
			errs = append(errs, fmt.Sprintf("run %d: %s", i, err))
			r.records = append(r.records, core.Record{
				Start:   r.clock.Now(),
				Outcome: core.OutcomeFailure,
			})
			continue
		}

		start := r.clock.Now()
		resp, err := r.measure(ctx, i)
		duration := r.clock.Since(start)

		rec := core.Record{
			Start:    start,
			Duration: duration,
			Outcome:  core.OutcomeSuccess,
		}
		switch {
		case err != nil:
			rec.Outcome = core.OutcomeFailure
			errs = append(errs, fmt.Sprintf("run %d: %s", i, err))
		default:
			rec.StatusCode = resp.StatusCode()
			if serr := resp.ErrorForStatus(); serr != nil {
				rec.Outcome = core.OutcomeFailure
				errs = append(errs, fmt.Sprintf("run %d: %s", i, serr))
			}
		}
		r.records = append(r.records, rec)
	}

	if len(errs) > 0 {
		return core.RunError(errs)
	}
	return nil
}

func (r *Runner) setup(ctx context.Context) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.action.Op.Setup(ctx, r.transport)
}

// warmup runs one diagnostic invocation. Its result never becomes a
// record; a transport error or failure status surfaces as the returned
// error.
func (r *Runner) warmup(ctx context.Context, i int) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := r.measure(ctx, i)
	if err != nil {
		return err
	}
	return resp.ErrorForStatus()
}

func (r *Runner) measure(ctx context.Context, i int) (core.Response, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.action.Op.Measure(ctx, i, r.transport)
}
