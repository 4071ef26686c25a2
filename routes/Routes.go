package routes

import (
	"github.com/gofiber/fiber/v2"

	"papertrade.com/controllers"
)

type Controllers struct {
	Users     *controllers.UserController
	Trades    *controllers.TradeController
	Portfolio *controllers.PortfolioController
}

// Setup registers the API. Everything except registration requires auth.
func Setup(app *fiber.App, auth fiber.Handler, h Controllers) {
	app.Post("/users", h.Users.Register)
	app.Get("/users/me/cash", auth, h.Users.Cash)

	app.Get("/quote/:symbol", auth, h.Trades.GetQuote)
	app.Post("/trades/buy", auth, h.Trades.Buy)
	app.Post("/trades/sell", auth, h.Trades.Sell)

	app.Get("/portfolio", auth, h.Portfolio.GetPortfolio)
	app.Get("/portfolio/history", auth, h.Portfolio.GetHistory)
	app.Get("/portfolio/profit", auth, h.Portfolio.GetRealizedProfit)
}
