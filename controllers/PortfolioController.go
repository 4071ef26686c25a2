package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"papertrade.com/dto"
	"papertrade.com/portfolio"
	"papertrade.com/services"
	"papertrade.com/types"
)

type HistoryStore interface {
	History(ctx context.Context, userID uint) ([]types.Transaction, error)
}

type PortfolioController struct {
	aggregator *portfolio.Aggregator
	history    HistoryStore
}

func NewPortfolioController(aggregator *portfolio.Aggregator, history HistoryStore) *PortfolioController {
	return &PortfolioController{aggregator: aggregator, history: history}
}

// GetPortfolio godoc
//
//	@Summary		Portfolio valuation
//	@Description	Cash plus every holding valued at the current market price. A holding that cannot be priced is listed with a null price and an error, and is left out of the total.
//	@Tags			Portfolio
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.Response{data=dto.PortfolioResponse}	"Snapshot"
//	@Failure		401	{object}	types.Response								"Missing or invalid token"
//	@Failure		404	{object}	types.Response								"Unknown user"
//	@Router			/portfolio [get]
func (pc *PortfolioController) GetPortfolio(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}

	snap, err := pc.aggregator.Snapshot(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	positions := make([]dto.PositionResponse, 0, len(snap.Positions))
	for _, p := range snap.Positions {
		row := dto.PositionResponse{
			Symbol:      p.Symbol,
			Name:        p.Name,
			Shares:      p.Shares,
			Price:       p.Price,
			MarketValue: p.MarketValue,
			CostBasis:   p.CostBasis,
		}
		if p.Error != nil {
			row.Error = p.Error.Error()
		}
		positions = append(positions, row)
	}

	return c.JSON(types.Response{
		Success: true,
		Data: dto.PortfolioResponse{
			UserID:       userID,
			Cash:         snap.Cash,
			CashDisplay:  dto.Display(snap.Cash),
			Positions:    positions,
			Total:        snap.Total,
			TotalDisplay: dto.Display(snap.Total),
			Unpriced:     snap.Unpriced(),
		},
	})
}

// GetHistory godoc
//
//	@Summary		Transaction history
//	@Description	Every executed trade of the caller, newest first.
//	@Tags			Portfolio
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.Response{data=[]dto.TransactionResponse}	"History"
//	@Failure		401	{object}	types.Response									"Missing or invalid token"
//	@Router			/portfolio/history [get]
func (pc *PortfolioController) GetHistory(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}

	history, err := pc.history.History(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(types.Response{
		Success: true,
		Data:    dto.NewTransactionResponses(history),
	})
}

// GetRealizedProfit godoc
//
//	@Summary		Realized profit
//	@Description	Profit from sells, matched against the oldest open buys of the same symbol.
//	@Tags			Portfolio
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.Response{data=dto.RealizedProfitResponse}	"Realized profit"
//	@Failure		401	{object}	types.Response									"Missing or invalid token"
//	@Router			/portfolio/profit [get]
func (pc *PortfolioController) GetRealizedProfit(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}

	history, err := pc.history.History(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(types.Response{
		Success: true,
		Data:    services.CalculateRealizedProfit(userID, history),
	})
}
