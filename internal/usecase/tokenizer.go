package usecase

import (
	"context"
	"errors"
	"time"

	"JaundiceScanner/internal/ports"
)

// TimedSplitter runs the morphology port under its own deadline and converts
// a deadline expiry into a typed outcome instead of an error.
type TimedSplitter struct {
	splitter ports.WordSplitter
	timeout  time.Duration
}

// NewTimedSplitter wraps a word splitter with a tokenization deadline.
func NewTimedSplitter(splitter ports.WordSplitter, timeout time.Duration) *TimedSplitter {
	return &TimedSplitter{splitter: splitter, timeout: timeout}
}

// Split tokenizes text, reporting the elapsed time and whether the deadline
// fired. The underlying call is cancelled on expiry, never retried. A non-nil
// error is any other splitter failure and is not a modeled outcome.
func (t *TimedSplitter) Split(ctx context.Context, text string) ([]string, time.Duration, bool, error) {
	tctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	words, err := t.splitter.SplitWords(tctx, text)
	elapsed := time.Since(start)

	if err != nil {
		// Only the inner deadline counts as a timeout; a cancelled or
		// expired parent context is the caller's problem.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, elapsed, true, nil
		}
		return nil, elapsed, false, err
	}

	return words, elapsed, false, nil
}
