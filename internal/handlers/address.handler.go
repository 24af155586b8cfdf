package handlers

import (
	"gatehouse/internal/app"
	addressController "gatehouse/internal/controllers/address"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AddressHandler struct {
	Handler
	controller *addressController.AddressController
}

func NewAddressHandler(app app.App, router fiber.Router) *AddressHandler {
	log := logger.New("handlers").File("address_handler")
	return &AddressHandler{
		controller: app.AddressController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AddressHandler) Register() {
	addresses := h.router.Group("/addresses")
	addresses.Get("/validate", h.validate)
	addresses.Get("/suggestions", h.suggestions)

	addresses.Post("/", h.middleware.RequireSession, h.create)
	addresses.Get("/", h.middleware.RequireSession, h.list)
	addresses.Patch("/:id", h.middleware.RequireSession, h.update)
	addresses.Delete("/:id", h.middleware.RequireSession, h.delete)

	admin := h.router.Group("/admin/addresses",
		h.middleware.RequireSession, h.middleware.RequireAdmin)
	admin.Get("/pending", h.pending)
	admin.Post("/:id/approve", h.approve)
	admin.Post("/:id/reject", h.reject)
	admin.Post("/:id/reverify", h.reverify)
}

func (h *AddressHandler) validate(c *fiber.Ctx) error {
	query := c.Query("q")
	fromSuggestion := c.QueryBool("from_suggestion")

	valid := h.controller.ValidateAddress(c.Context(), query, fromSuggestion)
	return c.JSON(fiber.Map{"message": "success", "valid": valid})
}

func (h *AddressHandler) suggestions(c *fiber.Ctx) error {
	suggestions := h.controller.Suggestions(c.Context(), c.Query("q"))
	return c.JSON(fiber.Map{"message": "success", "suggestions": suggestions})
}

func (h *AddressHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")
	user := c.Locals("user").(User)

	var req CreateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		log.Er("failed to parse address request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse address request"})
	}

	address, err := h.controller.Create(c.Context(), user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "address": address})
}

func (h *AddressHandler) list(c *fiber.Ctx) error {
	user := c.Locals("user").(User)

	addresses, err := h.controller.GetForMember(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "addresses": addresses})
}

func (h *AddressHandler) update(c *fiber.Ctx) error {
	log := h.log.Function("update")
	user := c.Locals("user").(User)

	var patch UpdateAddressRequest
	if err := c.BodyParser(&patch); err != nil {
		log.Er("failed to parse address patch", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse address patch"})
	}

	address, err := h.controller.Update(c.Context(), user.ID, c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "address": address})
}

func (h *AddressHandler) delete(c *fiber.Ctx) error {
	user := c.Locals("user").(User)

	result, err := h.controller.Delete(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	response := fiber.Map{
		"message":     "success",
		"softDeleted": result.Mode == DeletionSoft,
	}
	if result.PromotedID != "" {
		response["promotedId"] = result.PromotedID
	}
	return c.JSON(response)
}

func (h *AddressHandler) pending(c *fiber.Ctx) error {
	addresses, err := h.controller.GetPending(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "addresses": addresses})
}

func (h *AddressHandler) approve(c *fiber.Ctx) error {
	return h.setStatus(c, AddressStatusApproved)
}

func (h *AddressHandler) reject(c *fiber.Ctx) error {
	return h.setStatus(c, AddressStatusRejected)
}

func (h *AddressHandler) setStatus(c *fiber.Ctx, status AddressStatus) error {
	admin := c.Locals("user").(User)

	var body struct {
		Notes *string `json:"notes"`
	}
	// the notes body is optional
	_ = c.BodyParser(&body)

	address, err := h.controller.SetStatus(c.Context(), admin.ID, c.Params("id"), status, body.Notes)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "address": address})
}

func (h *AddressHandler) reverify(c *fiber.Ctx) error {
	admin := c.Locals("user").(User)

	address, err := h.controller.Reverify(c.Context(), admin.ID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "address": address})
}
