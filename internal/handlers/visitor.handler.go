package handlers

import (
	"gatehouse/internal/app"
	visitorController "gatehouse/internal/controllers/visitor"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
	"gatehouse/internal/services"

	"github.com/gofiber/fiber/v2"
)

type VisitorHandler struct {
	Handler
	controller  *visitorController.VisitorController
	accessCodes *services.AccessCodeService
}

func NewVisitorHandler(app app.App, router fiber.Router) *VisitorHandler {
	log := logger.New("handlers").File("visitor_handler")
	return &VisitorHandler{
		controller:  app.VisitorController,
		accessCodes: app.AccessCodeService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *VisitorHandler) Register() {
	visitors := h.router.Group("/visitors", h.middleware.RequireSession)
	visitors.Post("/", h.create)
	visitors.Get("/", h.list)
	visitors.Patch("/:id", h.update)
	visitors.Post("/bulk", h.bulk)
}

func (h *VisitorHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")
	user := c.Locals("user").(User)

	var req CreateVisitorRequest
	if err := c.BodyParser(&req); err != nil {
		log.Er("failed to parse visitor request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse visitor request"})
	}

	visitor, err := h.controller.Create(c.Context(), user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "visitor": visitor})
}

func (h *VisitorHandler) list(c *fiber.Ctx) error {
	user := c.Locals("user").(User)

	addressID := c.Query("addressId")
	if addressID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "error", "error": "addressId query parameter is required"})
	}

	visitors, err := h.controller.GetForAddress(c.Context(), user.ID, addressID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "visitors": visitors})
}

func (h *VisitorHandler) update(c *fiber.Ctx) error {
	log := h.log.Function("update")
	user := c.Locals("user").(User)

	var patch UpdateVisitorRequest
	if err := c.BodyParser(&patch); err != nil {
		log.Er("failed to parse visitor patch", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse visitor patch"})
	}

	visitor, err := h.controller.Update(c.Context(), user.ID, c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "visitor": visitor})
}

// bulk maps the three-way outcome onto status codes: full success is 200,
// partial success 207, and an all-blocked delete 409. Partial results are
// successes; the body always carries deletedIds/blockedIds so clients act
// on the server's partition, not their own bookkeeping.
func (h *VisitorHandler) bulk(c *fiber.Ctx) error {
	log := h.log.Function("bulk")
	user := c.Locals("user").(User)

	var req BulkVisitorRequest
	if err := c.BodyParser(&req); err != nil {
		log.Er("failed to parse bulk request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse bulk request"})
	}

	expiresAt := h.accessCodes.ComputeExpiration(req.Expiration, req.CustomDate)

	result, err := h.controller.ApplyBulkAction(
		c.Context(), user.ID, req.Action, req.VisitorIDs, expiresAt)
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	switch result.Outcome {
	case BulkOutcomePartial:
		status = fiber.StatusMultiStatus
	case BulkOutcomeConflict:
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{"message": "success", "result": result})
}
