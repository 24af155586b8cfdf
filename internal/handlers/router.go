package handlers

import (
	"errors"

	"gatehouse/internal/app"
	"gatehouse/internal/apperrors"
	"gatehouse/internal/handlers/middleware"
	"gatehouse/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewAddressHandler(*app, api).Register()
	NewVisitorHandler(*app, api).Register()
	NewCheckInHandler(*app, api).Register()

	return nil
}

// respondError maps the error taxonomy to HTTP statuses. Anything outside
// the taxonomy is a 500.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrOwnership):
		status = fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, apperrors.ErrUpstream):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{"message": "error", "error": err.Error()})
}
