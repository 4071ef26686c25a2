package controllers

import (
	"github.com/gofiber/fiber/v2"

	"papertrade.com/dto"
	"papertrade.com/trading"
	"papertrade.com/types"
)

// maxReferenceLen matches the width of transactions.reference.
const maxReferenceLen = 64

type TradeController struct {
	engine *trading.Engine
}

func NewTradeController(engine *trading.Engine) *TradeController {
	return &TradeController{engine: engine}
}

// GetQuote godoc
//
//	@Summary		Current quote for a symbol
//	@Tags			Trading
//	@Produce		json
//	@Security		BearerAuth
//	@Param			symbol	path		string									true	"Ticker symbol"
//	@Success		200		{object}	types.Response{data=dto.QuoteResponse}	"Current price"
//	@Failure		404		{object}	types.Response							"Unknown symbol"
//	@Failure		504		{object}	types.Response							"Quote source timed out"
//	@Router			/quote/{symbol} [get]
func (tc *TradeController) GetQuote(c *fiber.Ctx) error {
	q, err := tc.engine.Quote(c.UserContext(), c.Params("symbol"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(types.Response{
		Success: true,
		Data: dto.QuoteResponse{
			Symbol:  q.Symbol,
			Name:    q.Name,
			Price:   q.Price,
			Display: dto.Display(q.Price),
		},
	})
}

// Buy godoc
//
//	@Summary		Buy shares at the current price
//	@Description	Debits shares × current price from the caller's cash. Resubmitting with the same Idempotency-Key returns the original transaction.
//	@Tags			Trading
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Idempotency-Key	header		string											false	"Client reference for safe retries"
//	@Param			body			body		dto.TradeRequest								true	"Symbol and share count"
//	@Success		201				{object}	types.Response{data=dto.TransactionResponse}	"Executed"
//	@Failure		400				{object}	types.Response									"Invalid share count"
//	@Failure		404				{object}	types.Response									"Unknown symbol"
//	@Failure		409				{object}	types.Response									"Insufficient funds"
//	@Failure		504				{object}	types.Response									"Quote source timed out"
//	@Router			/trades/buy [post]
func (tc *TradeController) Buy(c *fiber.Ctx) error {
	return tc.trade(c, types.Buy)
}

// Sell godoc
//
//	@Summary		Sell shares at the current price
//	@Description	Credits shares × current price to the caller's cash. Selling the whole position removes it.
//	@Tags			Trading
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Idempotency-Key	header		string											false	"Client reference for safe retries"
//	@Param			body			body		dto.TradeRequest								true	"Symbol and share count"
//	@Success		201				{object}	types.Response{data=dto.TransactionResponse}	"Executed"
//	@Failure		400				{object}	types.Response									"Invalid share count"
//	@Failure		404				{object}	types.Response									"Unknown symbol"
//	@Failure		409				{object}	types.Response									"Not enough shares"
//	@Failure		504				{object}	types.Response									"Quote source timed out"
//	@Router			/trades/sell [post]
func (tc *TradeController) Sell(c *fiber.Ctx) error {
	return tc.trade(c, types.Sell)
}

func (tc *TradeController) trade(c *fiber.Ctx, side types.Side) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}

	var req dto.TradeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "Symbol is required")
	}
	shares, err := trading.ParseShares(string(req.Shares))
	if err != nil {
		return writeError(c, err)
	}
	reference := c.Get("Idempotency-Key")
	if len(reference) > maxReferenceLen {
		return badRequest(c, "Idempotency-Key is too long")
	}

	r := trading.Request{UserID: userID, Symbol: req.Symbol, Shares: shares, Reference: reference}
	var tx types.Transaction
	if side == types.Buy {
		tx, err = tc.engine.Buy(c.UserContext(), r)
	} else {
		tx, err = tc.engine.Sell(c.UserContext(), r)
	}
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.Response{
		Success: true,
		Data:    dto.NewTransactionResponse(tx),
	})
}
