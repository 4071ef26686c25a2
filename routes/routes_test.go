package routes

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"papertrade.com/controllers"
	"papertrade.com/db/dbtest"
	"papertrade.com/ledger"
	"papertrade.com/portfolio"
	"papertrade.com/quotes"
	"papertrade.com/trading"
)

func TestSetup(t *testing.T) {
	store := ledger.NewStore(dbtest.Open(t))
	prices := quotes.NewStatic()
	app := fiber.New()

	Setup(app, func(c *fiber.Ctx) error { return c.Next() }, Controllers{
		Users:     controllers.NewUserController(store, decimal.Zero),
		Trades:    controllers.NewTradeController(trading.New(store, prices)),
		Portfolio: controllers.NewPortfolioController(portfolio.NewAggregator(store, prices, 0), store),
	})

	findRoute := func(method, path string) bool {
		for _, routes := range app.Stack() {
			for _, route := range routes {
				if route.Method == method && route.Path == path {
					return true
				}
			}
		}
		return false
	}

	assert.True(t, findRoute("POST", "/users"))
	assert.True(t, findRoute("GET", "/users/me/cash"))
	assert.True(t, findRoute("GET", "/quote/:symbol"))
	assert.True(t, findRoute("POST", "/trades/buy"))
	assert.True(t, findRoute("POST", "/trades/sell"))
	assert.True(t, findRoute("GET", "/portfolio"))
	assert.True(t, findRoute("GET", "/portfolio/history"))
	assert.True(t, findRoute("GET", "/portfolio/profit"))
}
