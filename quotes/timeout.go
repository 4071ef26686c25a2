package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"papertrade.com/types"
)

type timeoutQuoter struct {
	next    Quoter
	timeout time.Duration
}

// WithTimeout bounds every lookup to d. A lookup that runs past d fails with
// types.ErrQuoteTimeout even if next ignores its context.
func WithTimeout(next Quoter, d time.Duration) Quoter {
	if d <= 0 {
		return next
	}
	return &timeoutQuoter{next: next, timeout: d}
}

type result struct {
	quote Quote
	err   error
}

func (t *timeoutQuoter) Quote(ctx context.Context, symbol string) (Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		q, err := t.next.Quote(ctx, symbol)
		done <- result{q, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Quote{}, fmt.Errorf("%w: %s after %s", types.ErrQuoteTimeout, symbol, t.timeout)
		}
		return r.quote, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Quote{}, fmt.Errorf("%w: %s after %s", types.ErrQuoteTimeout, symbol, t.timeout)
		}
		return Quote{}, ctx.Err()
	}
}
