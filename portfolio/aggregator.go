// Package portfolio values a user's holdings at current market prices.
package portfolio

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"papertrade.com/ledger"
	"papertrade.com/quotes"
	"papertrade.com/services"
	"papertrade.com/types"
)

// DefaultConcurrency bounds the number of quote lookups in flight for one snapshot.
const DefaultConcurrency = 8

// Ledger is the read side of ledger.Store.
type Ledger interface {
	Statement(ctx context.Context, userID uint) (ledger.Statement, error)
}

type Aggregator struct {
	ledger      Ledger
	quoter      quotes.Quoter
	concurrency int
}

func NewAggregator(l Ledger, q quotes.Quoter, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{ledger: l, quoter: q, concurrency: concurrency}
}

// Position is one holding valued at the price seen during the snapshot.
// Price and MarketValue are nil when the symbol could not be priced; Error
// then says why.
type Position struct {
	Symbol      string
	Name        string
	Shares      int64
	Price       *decimal.Decimal
	MarketValue *decimal.Decimal
	// CostBasis is what the open shares cost, matched oldest buy first.
	CostBasis *decimal.Decimal
	Error     error
}

func (p Position) Priced() bool { return p.Price != nil }

type Snapshot struct {
	UserID    uint
	Cash      decimal.Decimal
	Positions []Position
	// Total is cash plus the market value of every priced position.
	Total decimal.Decimal
}

// Unpriced reports how many positions are missing a price.
func (s Snapshot) Unpriced() int {
	n := 0
	for _, p := range s.Positions {
		if !p.Priced() {
			n++
		}
	}
	return n
}

// Snapshot reads cash, holdings and the transaction log in one ledger read,
// then prices every holding outside of it. A failed lookup is reported on its
// row; only ledger errors and caller cancellation fail the whole snapshot.
func (a *Aggregator) Snapshot(ctx context.Context, userID uint) (Snapshot, error) {
	st, err := a.ledger.Statement(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	cash, holdings := st.Cash, st.Holdings
	costs := services.OpenCostBasis(st.Transactions)

	positions := make([]Position, len(holdings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, h := range holdings {
		positions[i] = Position{Symbol: h.Symbol, Name: h.Symbol, Shares: h.Shares}
		if cost, ok := costs[h.Symbol]; ok {
			positions[i].CostBasis = &cost
		}
		g.Go(func() error {
			q, err := a.quoter.Quote(gctx, h.Symbol)
			if err == nil && !q.Price.IsPositive() {
				err = types.ErrUnknownSymbol
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warnf("Snapshot for user %d: %s unpriced: %v", userID, h.Symbol, err)
				positions[i].Error = err
				return nil
			}
			price := q.Price
			value := price.Mul(decimal.NewFromInt(h.Shares))
			positions[i].Price = &price
			positions[i].MarketValue = &value
			if q.Name != "" {
				positions[i].Name = q.Name
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	total := cash
	for _, p := range positions {
		if p.MarketValue != nil {
			total = total.Add(*p.MarketValue)
		}
	}

	return Snapshot{UserID: userID, Cash: cash, Positions: positions, Total: total}, nil
}

// IsCancelled is true when a snapshot failed because its caller went away.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
