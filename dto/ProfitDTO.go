package dto

import "github.com/shopspring/decimal"

type SymbolProfit struct {
	Symbol  string          `json:"symbol"`
	Profit  decimal.Decimal `json:"profit"`
	Display string          `json:"display"`
}

type RealizedProfitResponse struct {
	UserID       uint            `json:"user_id"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalDisplay string          `json:"total_display"`
	PerSymbol    []SymbolProfit  `json:"per_symbol"`
}
