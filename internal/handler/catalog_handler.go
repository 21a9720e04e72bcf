package handler

import (
	"go-clinic-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetCatalog returns the full price list
// GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	items, err := h.catalogService.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// GetCatalogItem returns one item by ID
// GET /api/v1/catalog/:id
func (h *CatalogHandler) GetCatalogItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.catalogService.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

// GetCatalogItemByCode resolves a barcode or item code
// GET /api/v1/catalog/code/:code
func (h *CatalogHandler) GetCatalogItemByCode(c *fiber.Ctx) error {
	item, err := h.catalogService.GetByCode(c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}
