// Package trading validates and executes buy and sell requests against the
// ledger.
package trading

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"papertrade.com/ledger"
	"papertrade.com/quotes"
	"papertrade.com/types"
)

// Ledger is the part of ledger.Store the engine needs.
type Ledger interface {
	Holding(ctx context.Context, userID uint, symbol string) (int64, error)
	FindReplay(ctx context.Context, e ledger.Entry) (types.Transaction, bool, error)
	AppendTransactionAndAdjust(ctx context.Context, e ledger.Entry) (types.Transaction, error)
}

// Notifier is told about every committed trade.
type Notifier interface {
	TradeExecuted(tx types.Transaction) error
}

type Engine struct {
	ledger   Ledger
	quoter   quotes.Quoter
	notifier Notifier
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func New(l Ledger, q quotes.Quoter, opts ...Option) *Engine {
	e := &Engine{ledger: l, quoter: q}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request is one buy or sell intent from an authenticated user.
type Request struct {
	UserID uint
	Symbol string
	Shares int64
	// Reference is an optional idempotency key; resubmitting the same
	// reference returns the original transaction.
	Reference string
}

// ParseShares turns a submitted share count into a positive integer.
func ParseShares(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidQuantity, raw)
	}
	return n, nil
}

// Quote resolves the current price for symbol.
func (e *Engine) Quote(ctx context.Context, symbol string) (quotes.Quote, error) {
	symbol = quotes.Normalize(symbol)
	if symbol == "" {
		return quotes.Quote{}, fmt.Errorf("%w: empty symbol", types.ErrUnknownSymbol)
	}
	q, err := e.quoter.Quote(ctx, symbol)
	if err != nil {
		switch {
		case types.IsPricingUnavailable(err):
			return quotes.Quote{}, err
		case ctx.Err() != nil:
			return quotes.Quote{}, ctx.Err()
		default:
			return quotes.Quote{}, fmt.Errorf("%w: %s: %v", types.ErrUnknownSymbol, symbol, err)
		}
	}
	if types.DecimalToCents(q.Price) <= 0 {
		return quotes.Quote{}, fmt.Errorf("%w: %s has no tradable price (%s)", types.ErrUnknownSymbol, symbol, q.Price)
	}
	q.Symbol = symbol
	return q, nil
}

// Buy prices the symbol and debits shares × price from the user's cash.
func (e *Engine) Buy(ctx context.Context, r Request) (types.Transaction, error) {
	if r.Shares <= 0 {
		return types.Transaction{}, fmt.Errorf("%w: %d", types.ErrInvalidQuantity, r.Shares)
	}

	symbol := quotes.Normalize(r.Symbol)

	if tx, ok, err := e.replay(ctx, types.Buy, r, symbol); ok || err != nil {
		return tx, err
	}

	q, err := e.Quote(ctx, symbol)
	if err != nil {
		return types.Transaction{}, e.rejected(types.Buy, r, err)
	}

	return e.commit(ctx, types.Buy, r, q)
}

// Sell checks the holding, prices the symbol at the current market price and
// credits the proceeds. The holding is checked again inside the ledger
// transaction.
func (e *Engine) Sell(ctx context.Context, r Request) (types.Transaction, error) {
	if r.Shares <= 0 {
		return types.Transaction{}, fmt.Errorf("%w: %d", types.ErrInvalidQuantity, r.Shares)
	}
	symbol := quotes.Normalize(r.Symbol)

	// A resubmitted sell may already have consumed the holding it sold.
	if tx, ok, err := e.replay(ctx, types.Sell, r, symbol); ok || err != nil {
		return tx, err
	}

	held, err := e.ledger.Holding(ctx, r.UserID, symbol)
	if err != nil {
		return types.Transaction{}, err
	}
	if r.Shares > held {
		return types.Transaction{}, e.rejected(types.Sell, r,
			fmt.Errorf("%w: selling %d %s, holding %d", types.ErrInsufficientShares, r.Shares, symbol, held))
	}

	q, err := e.Quote(ctx, symbol)
	if err != nil {
		return types.Transaction{}, e.rejected(types.Sell, r, err)
	}

	return e.commit(ctx, types.Sell, r, q)
}

func (e *Engine) commit(ctx context.Context, side types.Side, r Request, q quotes.Quote) (types.Transaction, error) {
	tx, err := e.ledger.AppendTransactionAndAdjust(ctx, ledger.Entry{
		UserID:    r.UserID,
		Symbol:    q.Symbol,
		Side:      side,
		Shares:    r.Shares,
		Price:     q.Price,
		Reference: r.Reference,
	})
	if err != nil {
		return types.Transaction{}, e.rejected(side, r, err)
	}
	if tx.Replayed {
		return tx, nil
	}

	if e.notifier != nil {
		if err := e.notifier.TradeExecuted(tx); err != nil {
			log.Errorf("Trade %d committed but notification failed: %v", tx.ID, err)
		}
	}
	return tx, nil
}

// replay returns the transaction already recorded under r.Reference, if any.
func (e *Engine) replay(ctx context.Context, side types.Side, r Request, symbol string) (types.Transaction, bool, error) {
	if r.Reference == "" {
		return types.Transaction{}, false, nil
	}
	tx, ok, err := e.ledger.FindReplay(ctx, ledger.Entry{
		UserID:    r.UserID,
		Symbol:    symbol,
		Side:      side,
		Shares:    r.Shares,
		Reference: r.Reference,
	})
	if err != nil {
		return types.Transaction{}, false, e.rejected(side, r, err)
	}
	return tx, ok, nil
}

func (e *Engine) rejected(side types.Side, r Request, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	log.Infof("%s rejected: user=%d symbol=%s shares=%d: %v", side, r.UserID, r.Symbol, r.Shares, err)
	return err
}
