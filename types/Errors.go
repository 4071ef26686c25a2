package types

import "errors"

var (
	ErrInvalidQuantity      = errors.New("share count must be a positive whole number")
	ErrUnknownSymbol        = errors.New("unknown symbol")
	ErrQuoteTimeout         = errors.New("quote lookup timed out")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientShares   = errors.New("insufficient shares")
	ErrNotFound             = errors.New("user not found")
	ErrImmutableTransaction = errors.New("transactions are append-only")
	ErrUsernameTaken        = errors.New("username taken")
	ErrReferenceConflict    = errors.New("idempotency key already used for a different trade")
)

// IsPricingUnavailable reports whether err means no usable price could be
// obtained for a symbol.
func IsPricingUnavailable(err error) bool {
	return errors.Is(err, ErrUnknownSymbol) || errors.Is(err, ErrQuoteTimeout)
}
