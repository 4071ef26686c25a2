package controllers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade.com/db/dbtest"
	"papertrade.com/ledger"
	"papertrade.com/middlewares"
	"papertrade.com/portfolio"
	"papertrade.com/quotes"
	"papertrade.com/trading"
	"papertrade.com/types"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("controllers-test-secret-32-bytes"))

type testEnv struct {
	app    *fiber.App
	store  *ledger.Store
	prices *quotes.Static
}

func setup(t *testing.T) testEnv {
	t.Helper()
	store := ledger.NewStore(dbtest.Open(t))
	prices := quotes.NewStatic()
	engine := trading.New(store, prices)

	auth, err := middlewares.JWTMiddleware(middlewares.JWTConfig{TestMode: true, Secret: testSecret})
	require.NoError(t, err)

	users := NewUserController(store, decimal.RequireFromString("10000.00"))
	trades := NewTradeController(engine)
	folio := NewPortfolioController(portfolio.NewAggregator(store, prices, 0), store)

	app := fiber.New()
	app.Post("/users", users.Register)
	app.Get("/users/me/cash", auth, users.Cash)
	app.Get("/quote/:symbol", auth, trades.GetQuote)
	app.Post("/trades/buy", auth, trades.Buy)
	app.Post("/trades/sell", auth, trades.Sell)
	app.Get("/portfolio", auth, folio.GetPortfolio)
	app.Get("/portfolio/history", auth, folio.GetHistory)
	app.Get("/portfolio/profit", auth, folio.GetRealizedProfit)

	return testEnv{app: app, store: store, prices: prices}
}

func (e testEnv) register(t *testing.T, username string) (uint, string) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/users", "", `{"username":"`+username+`"}`, nil)
	require.Equal(t, 201, resp.StatusCode, body.Error)

	var user struct {
		ID uint `json:"id"`
	}
	remarshal(t, body.Data, &user)
	token, err := middlewares.NewTestToken(testSecret, user.ID, time.Hour)
	require.NoError(t, err)
	return user.ID, token
}

func (e testEnv) do(t *testing.T, method, path, token, body string, headers map[string]string) (*http.Response, types.Response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var response types.Response
	require.NoError(t, json.Unmarshal(raw, &response), string(raw))
	return resp, response
}

func remarshal(t *testing.T, in, out any) {
	t.Helper()
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestRegister(t *testing.T) {
	e := setup(t)
	e.register(t, "ana")

	resp, body := e.do(t, http.MethodPost, "/users", "", `{"username":"ana"}`, nil)
	assert.Equal(t, 409, resp.StatusCode)
	assert.False(t, body.Success)

	resp, _ = e.do(t, http.MethodPost, "/users", "", `{"username":"a b"}`, nil)
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/users", "", `{`, nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestTradeFlow(t *testing.T) {
	e := setup(t)
	_, token := e.register(t, "trader")
	e.prices.Set("AAPL", "Apple Inc.", decimal.RequireFromString("150.00"))

	resp, body := e.do(t, http.MethodPost, "/trades/buy", token, `{"symbol":"aapl","shares":"10"}`, nil)
	require.Equal(t, 201, resp.StatusCode, body.Error)
	var tx struct {
		Symbol       string `json:"symbol"`
		Side         string `json:"side"`
		Shares       int64  `json:"shares"`
		TotalDisplay string `json:"total_display"`
	}
	remarshal(t, body.Data, &tx)
	assert.Equal(t, "AAPL", tx.Symbol)
	assert.Equal(t, "BUY", tx.Side)
	assert.Equal(t, "$1,500.00", tx.TotalDisplay)

	_, body = e.do(t, http.MethodGet, "/users/me/cash", token, "", nil)
	assert.Equal(t, "$8,500.00", body.Data)

	e.prices.Set("AAPL", "Apple Inc.", decimal.RequireFromString("160.00"))
	resp, _ = e.do(t, http.MethodPost, "/trades/sell", token, `{"symbol":"AAPL","shares":10}`, nil)
	require.Equal(t, 201, resp.StatusCode)

	_, body = e.do(t, http.MethodGet, "/users/me/cash", token, "", nil)
	assert.Equal(t, "$10,100.00", body.Data)

	resp, body = e.do(t, http.MethodPost, "/trades/sell", token, `{"symbol":"AAPL","shares":1}`, nil)
	assert.Equal(t, 409, resp.StatusCode)
	assert.Contains(t, body.Error, "insufficient shares")

	_, body = e.do(t, http.MethodGet, "/portfolio/history", token, "", nil)
	var history []struct {
		Side string `json:"side"`
	}
	remarshal(t, body.Data, &history)
	require.Len(t, history, 2)
	assert.Equal(t, "SELL", history[0].Side)

	_, body = e.do(t, http.MethodGet, "/portfolio/profit", token, "", nil)
	var profit struct {
		TotalDisplay string `json:"total_display"`
	}
	remarshal(t, body.Data, &profit)
	assert.Equal(t, "$100.00", profit.TotalDisplay)
}

func TestTradeRejections(t *testing.T) {
	e := setup(t)
	_, token := e.register(t, "rejects")
	e.prices.Set("MSFT", "", decimal.RequireFromString("300.00"))

	cases := []struct {
		name   string
		path   string
		body   string
		status int
		msg    string
	}{
		{"negative", "/trades/buy", `{"symbol":"MSFT","shares":"-3"}`, 400, "positive whole number"},
		{"fractional", "/trades/buy", `{"symbol":"MSFT","shares":1.5}`, 400, "positive whole number"},
		{"missing shares", "/trades/buy", `{"symbol":"MSFT"}`, 400, "positive whole number"},
		{"missing symbol", "/trades/buy", `{"shares":1}`, 400, "Symbol is required"},
		{"unknown symbol", "/trades/buy", `{"symbol":"NOPE","shares":1}`, 404, "unknown symbol"},
		{"too expensive", "/trades/buy", `{"symbol":"MSFT","shares":34}`, 409, "insufficient funds"},
		{"not owned", "/trades/sell", `{"symbol":"MSFT","shares":1}`, 409, "insufficient shares"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := e.do(t, http.MethodPost, tc.path, token, tc.body, nil)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.False(t, body.Success)
			assert.Contains(t, body.Error, tc.msg)
		})
	}

	_, body := e.do(t, http.MethodGet, "/users/me/cash", token, "", nil)
	assert.Equal(t, "$10,000.00", body.Data)
}

func TestIdempotencyKey(t *testing.T) {
	e := setup(t)
	_, token := e.register(t, "retrier")
	e.prices.Set("AAPL", "", decimal.RequireFromString("100.00"))
	key := map[string]string{"Idempotency-Key": "order-form-7"}

	resp, first := e.do(t, http.MethodPost, "/trades/buy", token, `{"symbol":"AAPL","shares":2}`, key)
	require.Equal(t, 201, resp.StatusCode)
	resp, second := e.do(t, http.MethodPost, "/trades/buy", token, `{"symbol":"AAPL","shares":2}`, key)
	require.Equal(t, 201, resp.StatusCode)
	var a, b struct {
		ID        uint   `json:"id"`
		Reference string `json:"reference"`
	}
	remarshal(t, first.Data, &a)
	remarshal(t, second.Data, &b)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "order-form-7", b.Reference)

	resp, _ = e.do(t, http.MethodPost, "/trades/buy", token, `{"symbol":"AAPL","shares":3}`, key)
	assert.Equal(t, 409, resp.StatusCode)

	_, body := e.do(t, http.MethodGet, "/users/me/cash", token, "", nil)
	assert.Equal(t, "$9,800.00", body.Data)
}

func TestPortfolioPartialPricing(t *testing.T) {
	e := setup(t)
	userID, token := e.register(t, "holder")
	ctx := context.Background()
	for _, entry := range []ledger.Entry{
		{UserID: userID, Symbol: "AAPL", Side: types.Buy, Shares: 10, Price: decimal.RequireFromString("150.00")},
		{UserID: userID, Symbol: "GONE", Side: types.Buy, Shares: 1, Price: decimal.RequireFromString("5.00")},
	} {
		_, err := e.store.AppendTransactionAndAdjust(ctx, entry)
		require.NoError(t, err)
	}
	e.prices.Set("AAPL", "Apple Inc.", decimal.RequireFromString("160.00"))

	resp, body := e.do(t, http.MethodGet, "/portfolio", token, "", nil)
	require.Equal(t, 200, resp.StatusCode)

	var snap struct {
		TotalDisplay string `json:"total_display"`
		Unpriced     int    `json:"unpriced"`
		Positions    []struct {
			Symbol    string           `json:"symbol"`
			Price     *decimal.Decimal `json:"price"`
			CostBasis *decimal.Decimal `json:"cost_basis"`
			Error     string           `json:"error"`
		} `json:"positions"`
	}
	remarshal(t, body.Data, &snap)
	require.Len(t, snap.Positions, 2)
	assert.Equal(t, "AAPL", snap.Positions[0].Symbol)
	require.NotNil(t, snap.Positions[0].CostBasis)
	assert.True(t, snap.Positions[0].CostBasis.Equal(decimal.RequireFromString("1500")))
	assert.Nil(t, snap.Positions[1].Price)
	assert.Contains(t, snap.Positions[1].Error, "unknown symbol")
	assert.Equal(t, 1, snap.Unpriced)
	// 10000 − 1500 − 5 + 1600
	assert.Equal(t, "$10,095.00", snap.TotalDisplay)
}

func TestQuote(t *testing.T) {
	e := setup(t)
	_, token := e.register(t, "looker")
	e.prices.Set("TSLA", "Tesla", decimal.RequireFromString("123.4"))

	resp, body := e.do(t, http.MethodGet, "/quote/tsla", token, "", nil)
	require.Equal(t, 200, resp.StatusCode)
	var q struct {
		Name    string `json:"name"`
		Display string `json:"display"`
	}
	remarshal(t, body.Data, &q)
	assert.Equal(t, "Tesla", q.Name)
	assert.Equal(t, "$123.40", q.Display)

	resp, _ = e.do(t, http.MethodGet, "/quote/NOPE", token, "", nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRequiresToken(t *testing.T) {
	e := setup(t)
	for _, path := range []string{"/portfolio", "/portfolio/history", "/portfolio/profit", "/quote/AAPL"} {
		resp, body := e.do(t, http.MethodGet, path, "", "", nil)
		assert.Equal(t, 401, resp.StatusCode, path)
		assert.False(t, body.Success)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 504, statusFor(types.ErrQuoteTimeout))
	assert.Equal(t, 404, statusFor(types.ErrNotFound))
	assert.Equal(t, 500, statusFor(assert.AnError))
}
