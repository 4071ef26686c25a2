// Package quotes resolves ticker symbols to current prices.
package quotes

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Quoter is the pricing collaborator. Implementations return an error
// wrapping types.ErrUnknownSymbol when the symbol cannot be priced.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
