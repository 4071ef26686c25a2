package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"papertrade.com/types"
)

// ShareCount accepts a share count sent either as a JSON number or a string.
// The raw text is kept so that "1.5" or "-3" can be rejected with a precise
// error instead of a decode failure.
type ShareCount string

func (s *ShareCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = ShareCount(raw)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	*s = ShareCount(data)
	return nil
}

type TradeRequest struct {
	Symbol string     `json:"symbol" form:"symbol" validate:"required,max=16,printascii"`
	Shares ShareCount `json:"shares" form:"shares"`
}

type TransactionResponse struct {
	ID           uint            `json:"id"`
	Reference    string          `json:"reference"`
	Symbol       string          `json:"symbol"`
	Side         types.Side      `json:"side"`
	Shares       int64           `json:"shares"`
	Price        decimal.Decimal `json:"price"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"total_display"`
	ExecutedAt   time.Time       `json:"executed_at"`
}

func NewTransactionResponse(tx types.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID,
		Reference:    tx.Reference,
		Symbol:       tx.Symbol,
		Side:         tx.Side,
		Shares:       tx.Shares,
		Price:        tx.Price(),
		Total:        types.CentsToDecimal(tx.TotalCents()),
		TotalDisplay: types.FormatUSD(tx.TotalCents()),
		ExecutedAt:   tx.CreatedAt,
	}
}

func NewTransactionResponses(txs []types.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}

type QuoteResponse struct {
	Symbol  string          `json:"symbol"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Display string          `json:"display"`
}
