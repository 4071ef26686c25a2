package dto

import (
	"github.com/shopspring/decimal"

	"papertrade.com/types"
)

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=32,alphanum"`
}

type UserResponse struct {
	ID          uint            `json:"id"`
	Username    string          `json:"username"`
	Cash        decimal.Decimal `json:"cash"`
	CashDisplay string          `json:"cash_display"`
}

func NewUserResponse(u types.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Cash:        u.Cash(),
		CashDisplay: types.FormatUSD(u.CashCents),
	}
}

// PositionResponse has a null price and market value when the symbol could
// not be priced; Error then carries the reason.
type PositionResponse struct {
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	Shares      int64            `json:"shares"`
	Price       *decimal.Decimal `json:"price"`
	MarketValue *decimal.Decimal `json:"market_value"`
	CostBasis   *decimal.Decimal `json:"cost_basis,omitempty"`
	Error       string           `json:"error,omitempty"`
}

type PortfolioResponse struct {
	UserID       uint               `json:"user_id"`
	Cash         decimal.Decimal    `json:"cash"`
	CashDisplay  string             `json:"cash_display"`
	Positions    []PositionResponse `json:"positions"`
	Total        decimal.Decimal    `json:"total"`
	TotalDisplay string             `json:"total_display"`
	Unpriced     int                `json:"unpriced"`
}

// Display formats an amount as US dollars.
func Display(d decimal.Decimal) string {
	return types.FormatUSD(types.DecimalToCents(d))
}
