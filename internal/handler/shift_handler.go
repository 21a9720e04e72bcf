package handler

import (
	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ShiftHandler struct {
	shiftService service.ShiftService
}

func NewShiftHandler(shiftService service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

type OpenShiftRequest struct {
	InitialCash float64 `json:"initial_cash"`
}

type CashMovementRequest struct {
	Direction model.CashDirection `json:"direction"`
	Amount    float64             `json:"amount"`
	Reason    string              `json:"reason"`
}

type CloseShiftRequest struct {
	DeclaredCash   float64 `json:"declared_cash"`
	AmountToRetain float64 `json:"amount_to_retain"`
}

// OpenShift opens the cash drawer
// POST /api/v1/shifts/open
func (h *ShiftHandler) OpenShift(c *fiber.Ctx) error {
	var req OpenShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	shift, err := h.shiftService.Open(req.InitialCash, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Shift opened", "data": shift})
}

// RecordMovement appends a cash-in/cash-out to the open shift
// POST /api/v1/shifts/movements
func (h *ShiftHandler) RecordMovement(c *fiber.Ctx) error {
	var req CashMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.shiftService.RecordMovement(req.Direction, req.Amount, req.Reason, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Movement recorded", "data": movement})
}

// CloseShift reconciles and closes the drawer
// POST /api/v1/shifts/close
func (h *ShiftHandler) CloseShift(c *fiber.Ctx) error {
	var req CloseShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	shift, err := h.shiftService.Close(req.DeclaredCash, req.AmountToRetain, getUserID(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Shift closed", "data": shift})
}

// GetCurrentShift returns the open shift, 404 when the drawer is closed
// GET /api/v1/shifts/current
func (h *ShiftHandler) GetCurrentShift(c *fiber.Ctx) error {
	shift := h.shiftService.Current()
	if shift == nil {
		return c.Status(404).JSON(fiber.Map{"error": "No open shift"})
	}
	return c.JSON(shift)
}

// GetShifts lists all shifts, newest first
// GET /api/v1/shifts
func (h *ShiftHandler) GetShifts(c *fiber.Ctx) error {
	shifts, err := h.shiftService.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(shifts)
}

// GetShift returns one shift with its movements
// GET /api/v1/shifts/:id
func (h *ShiftHandler) GetShift(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shift ID"})
	}

	shift, err := h.shiftService.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(shift)
}
