package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"papertrade.com/types"
)

// TradeEvent is published to the message broker after every commit.
type TradeEvent struct {
	TransactionID uint            `json:"transaction_id"`
	Reference     string          `json:"reference"`
	UserID        uint            `json:"user_id"`
	Symbol        string          `json:"symbol"`
	Side          types.Side      `json:"side"`
	Shares        int64           `json:"shares"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	ExecutedAt    time.Time       `json:"executed_at"`
}

func NewTradeEvent(tx types.Transaction) TradeEvent {
	return TradeEvent{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		UserID:        tx.UserID,
		Symbol:        tx.Symbol,
		Side:          tx.Side,
		Shares:        tx.Shares,
		Price:         tx.Price(),
		Total:         types.CentsToDecimal(tx.TotalCents()),
		ExecutedAt:    tx.CreatedAt,
	}
}
