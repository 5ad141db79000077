package browser

import (
	"context"
	"time"
)

// SettleOptions bounds the scroll-and-poll wait used for lazily loaded content.
type SettleOptions struct {
	// MaxScrolls caps how many scroll actions are issued. Polling continues
	// after the cap until the count is stable or the timeout elapses.
	MaxScrolls int

	// PollInterval is the delay between a scroll and the next count probe.
	PollInterval time.Duration

	// StableRounds is how many consecutive unchanged probes mean "settled".
	StableRounds int

	// Timeout is the hard ceiling on the whole wait.
	Timeout time.Duration
}

// SettleResult reports how a settle loop ended.
type SettleResult struct {
	Count    int
	Scrolls  int
	Polls    int
	TimedOut bool
}

// Settle scrolls and polls until probe reports the same count for
// StableRounds consecutive polls, or until Timeout elapses. Reaching the
// timeout is not an error; the last observed count is returned. Errors from
// probe or scroll, and cancellation of the parent ctx, are returned.
func Settle(ctx context.Context, probe func(context.Context) (int, error), scroll func(context.Context) error, opts SettleOptions) (SettleResult, error) {
	waitCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var res SettleResult
	last, err := probe(waitCtx)
	if err != nil {
		return res, err
	}
	res.Count = last

	stable := 0
	timer := time.NewTimer(opts.PollInterval)
	defer timer.Stop()

	for stable < opts.StableRounds {
		if res.Scrolls < opts.MaxScrolls {
			if err := scroll(waitCtx); err != nil {
				if ctx.Err() == nil && waitCtx.Err() != nil {
					res.TimedOut = true
					return res, nil
				}
				return res, err
			}
			res.Scrolls++
		}

		timer.Reset(opts.PollInterval)
		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.TimedOut = true
			return res, nil
		case <-timer.C:
		}

		count, err := probe(waitCtx)
		if err != nil {
			if ctx.Err() == nil && waitCtx.Err() != nil {
				res.TimedOut = true
				return res, nil
			}
			return res, err
		}
		res.Polls++

		if count == last {
			stable++
		} else {
			stable = 0
			last = count
		}
		res.Count = last
	}

	return res, nil
}
