package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"papertrade.com/dto"
	"papertrade.com/types"
)

type UserStore interface {
	CreateUser(ctx context.Context, username string, cash decimal.Decimal) (types.User, error)
	CashBalance(ctx context.Context, userID uint) (decimal.Decimal, error)
}

type UserController struct {
	store       UserStore
	initialCash decimal.Decimal
}

func NewUserController(store UserStore, initialCash decimal.Decimal) *UserController {
	return &UserController{store: store, initialCash: initialCash}
}

// Register godoc
//
//	@Summary		Open a ledger account
//	@Description	Creates a user credited with the configured starting cash. The returned id is the subject the identity provider must put in the user's tokens.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.RegisterRequest						true	"Username"
//	@Success		201		{object}	types.Response{data=dto.UserResponse}	"Account created"
//	@Failure		400		{object}	types.Response							"Invalid username"
//	@Failure		409		{object}	types.Response							"Username taken"
//	@Router			/users [post]
func (uc *UserController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "Username must be 3 to 32 letters or digits")
	}

	user, err := uc.store.CreateUser(c.UserContext(), req.Username, uc.initialCash)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.Response{
		Success: true,
		Data:    dto.NewUserResponse(user),
	})
}

// Cash godoc
//
//	@Summary		Current cash balance
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.Response{data=string}	"Cash balance"
//	@Failure		401	{object}	types.Response				"Missing or invalid token"
//	@Failure		404	{object}	types.Response				"Unknown user"
//	@Router			/users/me/cash [get]
func (uc *UserController) Cash(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}

	cash, err := uc.store.CashBalance(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(types.Response{
		Success: true,
		Data:    dto.Display(cash),
	})
}
