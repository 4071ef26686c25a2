package quotes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"papertrade.com/types"
)

// Static serves prices from an in-memory table.
type Static struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewStatic() *Static {
	return &Static{quotes: make(map[string]Quote)}
}

// ParseStatic builds a table from "AAPL=150.00,MSFT=310.25".
func ParseStatic(list string) (*Static, error) {
	s := NewStatic()
	for _, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		symbol, price, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("static quote %q: expected SYMBOL=PRICE", pair)
		}
		p, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil || !p.IsPositive() {
			return nil, fmt.Errorf("static quote %q: invalid price", pair)
		}
		s.Set(symbol, "", p)
	}
	return s, nil
}

func (s *Static) Set(symbol, name string, price decimal.Decimal) {
	symbol = Normalize(symbol)
	if name == "" {
		name = symbol
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = Quote{Symbol: symbol, Name: name, Price: price}
}

func (s *Static) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, Normalize(symbol))
}

func (s *Static) Quote(ctx context.Context, symbol string) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[Normalize(symbol)]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", types.ErrUnknownSymbol, symbol)
	}
	return q, nil
}
