// Package runner drives one submission from the editor to a display result
// and keeps the application state shared by the front-ends.
package runner

import (
	"context"
	"sync"
	"time"

	"ojide/internal/ide/display"
	"ojide/internal/ide/judge"
	"ojide/internal/ide/poll"
	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/contextkey"
	"ojide/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the front-end visible state. Seq grows by one per started run.
type State struct {
	Seq      uint64
	Running  bool
	Display  display.Result
	Language string
}

// Outcome is the end of one started run. Stale outcomes were superseded by a
// newer run and did not change the state.
type Outcome struct {
	Seq     uint64
	Display display.Result
	Err     error
	Stale   bool
}

// Update is sent to subscribers. Exactly one of Pending and Outcome is set.
type Update struct {
	Seq     uint64
	Pending *judge.Result
	Outcome *Outcome
}

type Runner struct {
	backend judge.Backend

	mu          sync.Mutex
	opts        poll.Options
	state       State
	cancel      context.CancelFunc
	subscribers []func(Update)
}

func New(backend judge.Backend, opts poll.Options) *Runner {
	opts.OnPending = nil
	return &Runner{backend: backend, opts: opts}
}

func (r *Runner) Backend() judge.Backend {
	return r.backend
}

// State returns a snapshot of the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Current reports whether seq is the latest started run.
func (r *Runner) Current(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return seq == r.state.Seq
}

func (r *Runner) SetLanguage(language string) {
	r.mu.Lock()
	r.state.Language = language
	r.mu.Unlock()
}

func (r *Runner) PollOptions() poll.Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// SetPollOptions applies to runs started afterwards.
func (r *Runner) SetPollOptions(opts poll.Options) {
	opts.OnPending = nil
	r.mu.Lock()
	r.opts = opts
	r.mu.Unlock()
}

// Subscribe registers fn for pending statuses and outcomes of started runs.
// fn is called from the run goroutine and must not block. Pending statuses of
// superseded runs are dropped, but one may still race with a newer Start, so
// fn should check Current before acting on it.
func (r *Runner) Subscribe(fn func(Update)) {
	r.mu.Lock()
	r.subscribers = append(r.subscribers, fn)
	r.mu.Unlock()
}

// Execute runs req to completion without touching the state. Failures are
// returned and also rendered into the display result.
func (r *Runner) Execute(ctx context.Context, req judge.Request) (display.Result, error) {
	return r.execute(ctx, req, r.PollOptions())
}

// Start cancels the run in flight, if any, and starts req in the background.
// The returned channel yields exactly one Outcome.
func (r *Runner) Start(ctx context.Context, req judge.Request) (uint64, <-chan Outcome) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.state.Seq++
	seq := r.state.Seq
	r.state.Running = true
	r.state.Language = req.LanguageID
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	opts := r.opts
	r.mu.Unlock()

	opts.OnPending = func(res *judge.Result) {
		if !r.Current(seq) {
			return
		}
		r.publish(Update{Seq: seq, Pending: res})
	}

	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		defer cancel()

		res, err := r.execute(runCtx, req, opts)
		out := Outcome{Seq: seq, Display: res, Err: err}

		r.mu.Lock()
		if seq == r.state.Seq {
			r.state.Running = false
			r.state.Display = res
			r.cancel = nil
		} else {
			out.Stale = true
		}
		r.mu.Unlock()

		if out.Stale {
			logger.Debug(ctx, "discarding superseded run", zap.Uint64("seq", seq))
		}
		r.publish(Update{Seq: seq, Outcome: &out})
		ch <- out
	}()
	return seq, ch
}

// Cancel stops the run in flight. Its outcome still arrives.
func (r *Runner) Cancel() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
}

func (r *Runner) publish(u Update) {
	r.mu.Lock()
	subs := make([]func(Update), len(r.subscribers))
	copy(subs, r.subscribers)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}

func (r *Runner) execute(ctx context.Context, req judge.Request, opts poll.Options) (display.Result, error) {
	ctx = context.WithValue(ctx, contextkey.SubmissionID, uuid.NewString())
	ctx = context.WithValue(ctx, contextkey.Backend, r.backend.Name())
	start := time.Now()

	res, err := r.run(ctx, req, opts)
	if err != nil {
		logger.Warn(ctx, "run failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return display.FromError(err), err
	}

	out := display.Map(res)
	logger.Info(ctx, "run finished",
		zap.String("status", out.StatusLine),
		zap.String("kind", string(out.Kind)),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (r *Runner) run(ctx context.Context, req judge.Request, opts poll.Options) (*judge.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := r.backend.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	if sub.Result.Terminal() {
		return sub.Result, nil
	}
	if sub.Handle == "" {
		return nil, appErr.New(appErr.InvalidFormat).WithMessage("pending submission has no handle")
	}
	if sub.Result != nil && opts.OnPending != nil {
		opts.OnPending(sub.Result)
	}

	logger.Debug(ctx, "submission queued", zap.String("token", string(sub.Handle)))
	return poll.UntilTerminal(ctx, r.backend, sub.Handle, opts)
}
