package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-dashboard/internal/auth"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util"
)

// DashboardHandler greets the authenticated caller.
type DashboardHandler struct{}

// NewDashboardHandler returns a new handler instance.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Show handles GET /dashboard.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome %s!", identity.Name),
		"user": fiber.Map{
			"id":    identity.ID,
			"name":  identity.Name,
			"email": identity.Email,
		},
	})
}
