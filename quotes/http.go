package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"papertrade.com/types"
)

const defaultHTTPTimeout = 5 * time.Second

// Authorizer supplies the Authorization header for upstream calls.
type Authorizer interface {
	GetAuthorizationHeader() (string, error)
}

// HTTPSource reads IEX-style quote documents:
//
//	{"symbol": "AAPL", "companyName": "Apple Inc.", "latestPrice": 150.12}
//
// from a URL template with one %s for the symbol.
type HTTPSource struct {
	client   *fasthttp.Client
	template string
	auth     Authorizer
}

func NewHTTPSource(client *fasthttp.Client, template string, auth Authorizer) *HTTPSource {
	if client == nil {
		client = &fasthttp.Client{}
	}
	return &HTTPSource{client: client, template: template, auth: auth}
}

type httpQuote struct {
	Symbol      string   `json:"symbol"`
	CompanyName string   `json:"companyName"`
	LatestPrice *float64 `json:"latestPrice"`
}

func (h *HTTPSource) Quote(ctx context.Context, symbol string) (Quote, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf(h.template, url.PathEscape(symbol)))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if h.auth != nil {
		header, err := h.auth.GetAuthorizationHeader()
		if err != nil {
			return Quote{}, fmt.Errorf("quote source authorization: %w", err)
		}
		req.Header.Set("Authorization", header)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultHTTPTimeout)
	}
	if err := h.client.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return Quote{}, fmt.Errorf("%w: %s", types.ErrQuoteTimeout, symbol)
		}
		return Quote{}, fmt.Errorf("%w: %s: %v", types.ErrUnknownSymbol, symbol, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return Quote{}, fmt.Errorf("%w: %s (status %d)", types.ErrUnknownSymbol, symbol, resp.StatusCode())
	}

	var body httpQuote
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return Quote{}, fmt.Errorf("%w: %s: malformed response", types.ErrUnknownSymbol, symbol)
	}
	if body.LatestPrice == nil || *body.LatestPrice <= 0 {
		return Quote{}, fmt.Errorf("%w: %s: no price", types.ErrUnknownSymbol, symbol)
	}

	q := Quote{
		Symbol: Normalize(body.Symbol),
		Name:   body.CompanyName,
		Price:  decimal.NewFromFloat(*body.LatestPrice).Round(2),
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	if q.Name == "" {
		q.Name = q.Symbol
	}
	return q, nil
}
