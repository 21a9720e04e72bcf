package handler

import (
	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	saleService  service.SaleService
	orderService service.OrderService
}

func NewSaleHandler(saleService service.SaleService, orderService service.OrderService) *SaleHandler {
	return &SaleHandler{saleService: saleService, orderService: orderService}
}

type CommitSaleRequest struct {
	OrderID uuid.UUID             `json:"order_id"`
	Tenders []model.PaymentTender `json:"tenders"`
}

// CommitSale charges an order, deducts stock, and records the
// transaction. The cart is dropped once the sale is on the books.
// POST /api/v1/sales
func (h *SaleHandler) CommitSale(c *fiber.Ctx) error {
	var req CommitSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.saleService.Commit(req.OrderID, req.Tenders, getUserID(c), getUserName(c))
	if err != nil {
		return fail(c, err)
	}

	h.orderService.Discard(req.OrderID)

	return c.Status(201).JSON(fiber.Map{"message": "Sale committed", "data": tx})
}

// GetTransaction returns one transaction with lines and tenders
// GET /api/v1/sales/:id
func (h *SaleHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.saleService.GetTransaction(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tx)
}

// GetShiftTransactions lists the sales made during a shift
// GET /api/v1/shifts/:id/sales
func (h *SaleHandler) GetShiftTransactions(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shift ID"})
	}

	txs, err := h.saleService.GetTransactionsByShift(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(txs)
}
