package controllers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"papertrade.com/middlewares"
	"papertrade.com/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// statusFor maps a core error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, types.ErrUnknownSymbol):
		return fiber.StatusNotFound
	case errors.Is(err, types.ErrQuoteTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, types.ErrInsufficientFunds),
		errors.Is(err, types.ErrInsufficientShares),
		errors.Is(err, types.ErrReferenceConflict),
		errors.Is(err, types.ErrUsernameTaken):
		return fiber.StatusConflict
	case errors.Is(err, types.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
		message = "Internal error, please try again"
	}
	return c.Status(status).JSON(types.Response{
		Success: false,
		Error:   message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.Response{
		Success: false,
		Error:   message,
	})
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(c *fiber.Ctx) (uint, bool, error) {
	id, ok := middlewares.UserID(c)
	if !ok {
		return 0, false, c.Status(fiber.StatusUnauthorized).JSON(types.Response{
			Success: false,
			Error:   "Unauthorized - no user in token",
		})
	}
	return id, true, nil
}
