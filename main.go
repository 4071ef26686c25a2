package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"papertrade.com/broker"
	"papertrade.com/config"
	"papertrade.com/controllers"
	"papertrade.com/cron"
	"papertrade.com/db"
	"papertrade.com/ledger"
	"papertrade.com/middlewares"
	"papertrade.com/oauth"
	"papertrade.com/portfolio"
	"papertrade.com/quotes"
	"papertrade.com/routes"
	"papertrade.com/shared"
	"papertrade.com/trading"

	_ "papertrade.com/docs"
)

//	@title			Paper Trading Service
//	@version		1.0
//	@description	Simulated stock trading against live quotes

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Bearer token issued by the identity provider. Example: "Bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Error loading configuration: " + err.Error())
	}

	if err := db.Init(cfg.DBType, cfg.DBDSN); err != nil {
		panic(err)
	}
	store := ledger.NewStore(db.DB)

	quoter, err := newQuoter(cfg)
	if err != nil {
		panic(err)
	}

	var opts []trading.Option
	conn, err := broker.Connect(cfg.BrokerNetwork, cfg.BrokerHost)
	if err != nil {
		log.Warnf("Trade events disabled: %v", err)
	} else if conn != nil {
		defer conn.Disconnect()
		opts = append(opts, trading.WithNotifier(broker.NewPublisher(conn, cfg.TradeEventsQueue)))
	}
	engine := trading.New(store, quoter, opts...)

	scheduler, err := cron.StartScheduler(store, cfg.AuditSchedule)
	if err != nil {
		panic(err)
	}
	defer scheduler.Stop()

	auth, err := middlewares.JWTMiddleware(middlewares.JWTConfig{
		TestMode: cfg.JWTTestMode,
		Secret:   cfg.JWTSecret,
		JWKSURL:  cfg.JWKSURL,
	})
	if err != nil {
		panic(err)
	}

	startingCash := mustStartingCash(cfg)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	app.Use(func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET, POST")
		c.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key")
		return c.Next()
	})

	routes.Setup(app, auth, routes.Controllers{
		Users:     controllers.NewUserController(store, startingCash),
		Trades:    controllers.NewTradeController(engine),
		Portfolio: controllers.NewPortfolioController(portfolio.NewAggregator(store, quoter, portfolio.DefaultConcurrency), store),
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down...")
		_ = app.Shutdown()
	}()

	log.Infof("Swagger UI available at http://localhost%s/swagger/index.html", cfg.ListenPath)
	if err := app.Listen(cfg.ListenPath); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}

func mustStartingCash(cfg config.Config) decimal.Decimal {
	cash, err := cfg.StartingCash()
	if err != nil {
		panic(err)
	}
	return cash
}

// newQuoter builds the configured quote source, bounded by QUOTE_TIMEOUT.
func newQuoter(cfg config.Config) (quotes.Quoter, error) {
	var source quotes.Quoter

	switch strings.ToLower(cfg.QuoteProvider) {
	case "finnhub":
		if cfg.FinnhubAPIKey == "" {
			return nil, errors.New("FINNHUB_API_KEY is required for the finnhub quote provider")
		}
		names, err := quotes.NewNameCache(cfg.QuoteNameCacheTTL)
		if err != nil {
			return nil, err
		}
		source = quotes.NewFinnhub(cfg.FinnhubAPIKey, shared.HttpClient(cfg.IgnoreSSLCerts, cfg.QuoteTimeout), names)

	case "http":
		if !strings.Contains(cfg.QuoteURL, "%s") {
			return nil, fmt.Errorf("QUOTE_URL must contain %%s for the symbol, got %q", cfg.QuoteURL)
		}
		var auth quotes.Authorizer
		if cfg.OAuthTokenURL != "" {
			client, err := oauth.NewClient(oauth.ClientConfig{
				TokenURL:     cfg.OAuthTokenURL,
				ClientID:     cfg.OAuthClientID,
				ClientSecret: cfg.OAuthClientSecret,
				Scopes:       cfg.OAuthScopes,
				HTTPClient:   shared.HttpClient(cfg.IgnoreSSLCerts, 0),
			})
			if err != nil {
				return nil, err
			}
			auth = client
		}
		source = quotes.NewHTTPSource(shared.FastClient(cfg.IgnoreSSLCerts, cfg.QuoteTimeout), cfg.QuoteURL, auth)

	case "static":
		static, err := quotes.ParseStatic(cfg.StaticQuotes)
		if err != nil {
			return nil, err
		}
		source = static

	default:
		return nil, fmt.Errorf("unknown QUOTE_PROVIDER %q", cfg.QuoteProvider)
	}

	log.Infof("Using %s quote provider (timeout %s)", cfg.QuoteProvider, cfg.QuoteTimeout)
	return quotes.WithTimeout(source, cfg.QuoteTimeout), nil
}
