package middlewares

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"papertrade.com/types"
)

type JWTConfig struct {
	// TestMode validates HS256 tokens against Secret instead of the JWKS.
	TestMode bool
	Secret   string
	JWKSURL  string
}

// JWTMiddleware validates the bearer token and stores the caller's user id
// from the "sub" claim in c.Locals("user_id").
func JWTMiddleware(cfg JWTConfig) (fiber.Handler, error) {
	// Check if we're in test mode (using local key)
	if cfg.TestMode {
		key, err := getSigningKey(cfg.Secret)
		if err != nil {
			return nil, err
		}
		return jwtware.New(jwtware.Config{
			SigningKey:     jwtware.SigningKey{Key: key, JWTAlg: "HS256"},
			SuccessHandler: jwtSuccessHandler,
			ErrorHandler:   jwtErrorHandler,
		}), nil
	}

	if cfg.JWKSURL == "" {
		return nil, errors.New("JWKS_URL must be set unless JWT_TEST_MODE is enabled")
	}
	return jwtware.New(jwtware.Config{
		SuccessHandler: jwtSuccessHandler,
		ErrorHandler:   jwtErrorHandler,
		JWKSetURLs:     []string{cfg.JWKSURL},
	}), nil
}

func jwtSuccessHandler(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return jwtErrorHandler(c, errors.New("missing token"))
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return jwtErrorHandler(c, err)
	}
	id, err := strconv.ParseUint(sub, 10, 0)
	if err != nil || id == 0 {
		return jwtErrorHandler(c, fmt.Errorf("invalid subject %q", sub))
	}

	c.Locals("token", token.Raw)
	c.Locals("user_id", uint(id))

	return c.Next()
}

func jwtErrorHandler(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.Response{
		Success: false,
		Error:   "Unauthorized - " + err.Error(),
	})
}

// NewTestToken signs an HS256 token for userID with the base64 encoded
// secret. Only tokens minted this way pass the middleware in test mode.
func NewTestToken(encodedSecret string, userID uint, ttl time.Duration) (string, error) {
	key, err := getSigningKey(encodedSecret)
	if err != nil {
		return "", err
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(key)
}

func getSigningKey(encodedSecret string) ([]byte, error) {
	if encodedSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	decodedSecret, err := base64.StdEncoding.DecodeString(encodedSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JWT_SECRET: %w", err)
	}

	return decodedSecret, nil
}
