package quotes

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// NameCache keeps company display names, which change rarely, so a quote
// costs one upstream call instead of two. Prices are never cached.
type NameCache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func NewNameCache(ttl time.Duration) (*NameCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &NameCache{c: c, ttl: ttl}, nil
}

// Resolve returns the cached name for symbol, calling lookup on a miss. A
// failed or empty lookup falls back to the symbol and is not cached.
func (n *NameCache) Resolve(ctx context.Context, symbol string, lookup func(context.Context, string) (string, error)) string {
	if n != nil {
		if v, ok := n.c.Get(symbol); ok {
			return v.(string)
		}
	}
	name, err := lookup(ctx, symbol)
	if err != nil || name == "" {
		return symbol
	}
	if n != nil {
		n.c.SetWithTTL(symbol, name, int64(len(name)), n.ttl)
	}
	return name
}

// Wait blocks until pending cache writes are visible.
func (n *NameCache) Wait() {
	if n != nil {
		n.c.Wait()
	}
}
