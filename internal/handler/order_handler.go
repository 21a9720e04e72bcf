package handler

import (
	"go-clinic-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type CreateOrderRequest struct {
	PatientID *uuid.UUID `json:"patient_id"`
}

type AddItemRequest struct {
	CatalogItemID uuid.UUID `json:"catalog_item_id"`
	Quantity      int       `json:"quantity"`
	ForceNewLine  bool      `json:"force_new_line"`
}

type AddManualItemRequest struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	TaxPercent  float64 `json:"tax_percent"`
}

type UpdateLineBody struct {
	Quantity   *int     `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TaxPercent *float64 `json:"tax_percent"`
}

type SetDiscountRequest struct {
	Percent float64 `json:"percent"`
}

type SetNotesRequest struct {
	Notes string `json:"notes"`
}

type AttachPatientRequest struct {
	PatientID *uuid.UUID `json:"patient_id"`
}

// CreateOrder starts a cart for the current shift
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.Create(req.PatientID, getUserName(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": order})
}

// GetOrder returns a cart with recomputed totals
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orderService.Get(id)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": order, "totals": order.Totals()})
}

// AddItem adds a catalog item to the cart
// POST /api/v1/orders/:id/items
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.AddItem(id, req.CatalogItemID, req.Quantity, req.ForceNewLine)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": order, "totals": order.Totals()})
}

// AddManualItem adds a free-form concept to the cart
// POST /api/v1/orders/:id/manual-items
func (h *OrderHandler) AddManualItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req AddManualItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.AddManualItem(id, req.Description, req.UnitPrice, req.TaxPercent)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": order, "totals": order.Totals()})
}

// UpdateLine edits quantity, price, or tax of one line
// PATCH /api/v1/orders/:id/lines/:index
func (h *OrderHandler) UpdateLine(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid line index"})
	}

	var req UpdateLineBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.UpdateLine(id, index, service.UpdateLineRequest{
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		TaxPercent: req.TaxPercent,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": order, "totals": order.Totals()})
}

// RemoveLine deletes one line from the cart
// DELETE /api/v1/orders/:id/lines/:index
func (h *OrderHandler) RemoveLine(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid line index"})
	}

	order, err := h.orderService.RemoveLine(id, index)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": order, "totals": order.Totals()})
}

// SetDiscount applies an order-level discount percent (subtotal only)
// PUT /api/v1/orders/:id/discount
func (h *OrderHandler) SetDiscount(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req SetDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.SetDiscount(id, req.Percent)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": order, "totals": order.Totals()})
}

// SetNotes attaches free-text notes to the cart
// PUT /api/v1/orders/:id/notes
func (h *OrderHandler) SetNotes(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req SetNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.SetNotes(id, req.Notes)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": order})
}

// AttachPatient links or unlinks a patient (nil means walk-in)
// PUT /api/v1/orders/:id/patient
func (h *OrderHandler) AttachPatient(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req AttachPatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.AttachPatient(id, req.PatientID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"data": order})
}

// DiscardOrder drops an uncommitted cart
// DELETE /api/v1/orders/:id
func (h *OrderHandler) DiscardOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	h.orderService.Discard(id)
	return c.JSON(fiber.Map{"message": "Order discarded"})
}
