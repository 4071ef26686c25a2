// Package oauth obtains service tokens for the HTTP quote source with the
// OAuth2 client credentials flow.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type ClientConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// HTTPClient is used for token requests; nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Client caches the current token and refreshes it shortly before expiry.
type Client struct {
	source oauth2.TokenSource
}

// tokenRequestTimeout bounds a single token endpoint round trip.
const tokenRequestTimeout = 10 * time.Second

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.TokenURL == "" || cfg.ClientID == "" {
		return nil, errors.New("oauth: token URL and client id are required")
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timed := *httpClient
	if timed.Timeout == 0 {
		timed.Timeout = tokenRequestTimeout
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &timed)

	return &Client{source: oauth2.ReuseTokenSource(nil, cc.TokenSource(ctx))}, nil
}

func (c *Client) Token() (*oauth2.Token, error) {
	token, err := c.source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

// GetAuthorizationHeader returns "Bearer <token>" for the Authorization header.
func (c *Client) GetAuthorizationHeader() (string, error) {
	token, err := c.Token()
	if err != nil {
		return "", err
	}
	return token.Type() + " " + token.AccessToken, nil
}
