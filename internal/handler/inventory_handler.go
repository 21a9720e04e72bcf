package handler

import (
	"go-clinic-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// GetItems lists inventory items with their lots
// GET /api/v1/inventory
func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.inventoryService.GetAllItems()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// GetItem returns one item with lots in deduction order
// GET /api/v1/inventory/:id
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.inventoryService.GetItem(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

// GetAvailability reports the sellable quantity across lots
// GET /api/v1/inventory/:id/availability
func (h *InventoryHandler) GetAvailability(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	available, err := h.inventoryService.AvailableQuantity(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"item_id": id, "available": available})
}

// GetMovements returns the stock ledger for an item, newest first
// GET /api/v1/inventory/:id/movements
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	movements, err := h.inventoryService.GetMovements(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(movements)
}
