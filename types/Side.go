package types

import "strings"

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// Sign is +1 for BUY and -1 for SELL.
func (s Side) Sign() int64 {
	if s == Sell {
		return -1
	}
	return 1
}

func ParseSide(v string) (Side, bool) {
	switch Side(strings.ToUpper(strings.TrimSpace(v))) {
	case Buy:
		return Buy, true
	case Sell:
		return Sell, true
	default:
		return "", false
	}
}
