package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-dashboard/internal/api/dto"
	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/service"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util"
)

// UsersHandler exposes the signup and login endpoints.
type UsersHandler struct {
	accounts *service.AccountService
	validate *validator.Validate
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService, validate *validator.Validate) *UsersHandler {
	return &UsersHandler{accounts: accounts, validate: validate}
}

// Signup handles POST /signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return apperrors.NewConflict("user already exists", nil)
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Signup successful",
		"user":    userJSON(user),
	})
}

// Login handles POST /login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	user, token, _, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return apperrors.NewInvalidCredentials()
		case errors.Is(err, service.ErrTooManyAttempts):
			return apperrors.NewTooManyAttempts("too many login attempts, retry later")
		default:
			return apperrors.MapError(err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    userJSON(user),
	})
}

// userJSON shapes a user for the wire. Credentials never appear here.
func userJSON(user *domain.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}
}
