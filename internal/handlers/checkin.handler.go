package handlers

import (
	"time"

	"gatehouse/internal/app"
	checkinController "gatehouse/internal/controllers/checkin"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CheckInHandler struct {
	Handler
	controller *checkinController.CheckInController
}

func NewCheckInHandler(app app.App, router fiber.Router) *CheckInHandler {
	log := logger.New("handlers").File("checkin_handler")
	return &CheckInHandler{
		controller: app.CheckInController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CheckInHandler) Register() {
	checkins := h.router.Group("/checkins",
		h.middleware.RequireSession, h.middleware.RequireGuard)
	checkins.Post("/verify", h.verifyCode)
	checkins.Post("/code", h.checkInByCode)
	checkins.Post("/name", h.checkInByName)

	admin := h.router.Group("/admin/checkins",
		h.middleware.RequireSession, h.middleware.RequireAdmin)
	admin.Get("/", h.history)
}

func (h *CheckInHandler) verifyCode(c *fiber.Ctx) error {
	log := h.log.Function("verifyCode")

	var req CodeCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		log.Er("failed to parse verify request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse verify request"})
	}

	visitor, err := h.controller.VerifyCode(c.Context(), req.AccessCode, req.AddressID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "visitor": visitor})
}

func (h *CheckInHandler) checkInByCode(c *fiber.Ctx) error {
	log := h.log.Function("checkInByCode")
	guard := c.Locals("user").(User)

	var req CodeCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		log.Er("failed to parse check-in request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse check-in request"})
	}

	checkIn, err := h.controller.CheckInByCode(c.Context(), guard.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "checkIn": checkIn})
}

func (h *CheckInHandler) checkInByName(c *fiber.Ctx) error {
	log := h.log.Function("checkInByName")
	guard := c.Locals("user").(User)

	var req NameCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		log.Er("failed to parse check-in request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse check-in request"})
	}

	checkIn, err := h.controller.CheckInByName(c.Context(), guard.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "checkIn": checkIn})
}

func (h *CheckInHandler) history(c *fiber.Ctx) error {
	filter := CheckInFilter{Limit: c.QueryInt("limit")}

	if addressID := c.Query("addressId"); addressID != "" {
		filter.AddressID = &addressID
	}
	if guardID := c.Query("guardId"); guardID != "" {
		filter.GuardID = &guardID
	}
	if since := c.Query("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = &t
		}
	}
	if until := c.Query("until"); until != "" {
		if t, err := time.Parse(time.RFC3339, until); err == nil {
			filter.Until = &t
		}
	}

	checkIns, err := h.controller.History(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "checkIns": checkIns})
}
