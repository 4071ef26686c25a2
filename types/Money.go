package types

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amounts are persisted as integer cents.

func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// DecimalToCents rounds half away from zero to the nearest cent.
func DecimalToCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FormatUSD renders cents like "$1,234.56".
func FormatUSD(cents int64) string {
	return money.New(cents, money.USD).Display()
}
