// Package poll waits for an asynchronous submission to reach a terminal status.
package poll

import (
	"context"
	"errors"
	"time"

	"ojide/internal/ide/judge"
	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultInterval is the spacing between two status fetches.
const DefaultInterval = 1500 * time.Millisecond

// Fetcher reads the current state of a submission.
type Fetcher interface {
	Fetch(ctx context.Context, handle judge.Handle) (*judge.Result, error)
}

// Options tunes the loop. Zero MaxAttempts and Timeout mean no limit.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
	// OnPending is called with every non-terminal result, in fetch order.
	OnPending func(*judge.Result)
}

var errPending = errors.New("submission still pending")

// UntilTerminal fetches handle until the judge reports a terminal status.
// Fetches never overlap: the next one is scheduled Interval after the
// previous one completed. A fetch error ends the loop immediately, and
// cancelling ctx abandons it with ctx.Err().
func UntilTerminal(ctx context.Context, fetcher Fetcher, handle judge.Handle, opts Options) (*judge.Result, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	loopCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		loopCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var policy backoff.BackOff = backoff.NewConstantBackOff(interval)
	if opts.MaxAttempts > 0 {
		policy = backoff.WithMaxRetries(policy, uint64(opts.MaxAttempts-1))
	}
	policy = backoff.WithContext(policy, loopCtx)

	attempts := 0
	fetch := func() (*judge.Result, error) {
		attempts++
		res, err := fetcher.Fetch(loopCtx, handle)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if !res.Terminal() {
			if opts.OnPending != nil {
				opts.OnPending(res)
			}
			return res, errPending
		}
		return res, nil
	}
	notify := func(_ error, next time.Duration) {
		logger.Debug(ctx, "submission pending",
			zap.String("token", string(handle)),
			zap.Int("attempt", attempts),
			zap.Duration("next", next),
		)
	}

	res, err := backoff.RetryNotifyWithData(fetch, policy, notify)
	if err == nil {
		return res, nil
	}

	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, errPending), loopCtx.Err() != nil:
		return nil, appErr.New(appErr.Timeout).
			WithDetail("token", string(handle)).
			WithDetail("attempts", attempts)
	default:
		return nil, err
	}
}
