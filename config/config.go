package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ListenPath string `env:"LISTEN_PATH" envDefault:":8080"`

	DBType string `env:"DB_TYPE" envDefault:"SQLITE"`
	DBDSN  string `env:"DB_DSN" envDefault:"finance.db"`

	QuoteProvider     string        `env:"QUOTE_PROVIDER" envDefault:"finnhub"`
	FinnhubAPIKey     string        `env:"FINNHUB_API_KEY"`
	QuoteURL          string        `env:"QUOTE_URL"`
	QuoteTimeout      time.Duration `env:"QUOTE_TIMEOUT" envDefault:"3s"`
	QuoteNameCacheTTL time.Duration `env:"QUOTE_NAME_CACHE_TTL" envDefault:"1h"`
	StaticQuotes      string        `env:"STATIC_QUOTES"`

	OAuthTokenURL     string   `env:"OAUTH_TOKEN_URL"`
	OAuthClientID     string   `env:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string   `env:"OAUTH_CLIENT_SECRET"`
	OAuthScopes       []string `env:"OAUTH_SCOPES" envSeparator:","`

	JWTTestMode bool   `env:"JWT_TEST_MODE" envDefault:"false"`
	JWTSecret   string `env:"JWT_SECRET"`
	JWKSURL     string `env:"JWKS_URL" envDefault:"https://idp.localhost/o/oauth2/jwks"`

	BrokerNetwork    string `env:"MESSAGE_BROKER_NETWORK" envDefault:"tcp"`
	BrokerHost       string `env:"MESSAGE_BROKER_HOST"`
	TradeEventsQueue string `env:"TRADE_EVENTS_QUEUE" envDefault:"trade-executed"`

	AuditSchedule string `env:"AUDIT_SCHEDULE" envDefault:"0 */15 * * * *"`
	InitialCash   string `env:"INITIAL_CASH" envDefault:"10000.00"`

	IgnoreSSLCerts bool `env:"IGNORE_SSL_CERTS" envDefault:"false"`
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.StartingCash(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// StartingCash is the balance credited to newly registered users.
func (c Config) StartingCash() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.InitialCash)
	if err != nil {
		return decimal.Zero, errors.New("INITIAL_CASH is not a decimal amount")
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("INITIAL_CASH must not be negative")
	}
	return d, nil
}
