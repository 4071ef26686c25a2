package quotes

import (
	"context"
	"fmt"
	"net/http"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/shopspring/decimal"

	"papertrade.com/types"
)

// Finnhub prices symbols with the Finnhub /quote endpoint and names them
// with /stock/profile2.
type Finnhub struct {
	api   *finnhub.DefaultApiService
	names *NameCache
}

func NewFinnhub(apiKey string, client *http.Client, names *NameCache) *Finnhub {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if client != nil {
		cfg.HTTPClient = client
	}
	return &Finnhub{api: finnhub.NewAPIClient(cfg).DefaultApi, names: names}
}

func (f *Finnhub) Quote(ctx context.Context, symbol string) (Quote, error) {
	res, _, err := f.api.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		if ctx.Err() != nil {
			return Quote{}, ctx.Err()
		}
		return Quote{}, fmt.Errorf("%w: %s: %v", types.ErrUnknownSymbol, symbol, err)
	}
	// Finnhub answers unknown tickers with an all-zero quote.
	price := res.GetC()
	if price <= 0 {
		return Quote{}, fmt.Errorf("%w: %s", types.ErrUnknownSymbol, symbol)
	}

	return Quote{
		Symbol: symbol,
		Name:   f.names.Resolve(ctx, symbol, f.companyName),
		Price:  decimal.NewFromFloat32(price).Round(2),
	}, nil
}

func (f *Finnhub) companyName(ctx context.Context, symbol string) (string, error) {
	profile, _, err := f.api.CompanyProfile2(ctx).Symbol(symbol).Execute()
	if err != nil {
		return "", err
	}
	return profile.GetName(), nil
}
