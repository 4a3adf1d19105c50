package handler

import (
	"github.com/akramer2025-dev/brandstore-sub001/internal/middleware"
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CapitalHandler struct {
	capitalService service.CapitalService
}

func NewCapitalHandler(capitalService service.CapitalService) *CapitalHandler {
	return &CapitalHandler{capitalService: capitalService}
}

// CapitalMutationRequest is shared by deposit and withdrawal
type CapitalMutationRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// GetLedger returns the capital transactions and derived balance
// GET /api/v1/vendor/capital
func (h *CapitalHandler) GetLedger(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	ledger, err := h.capitalService.GetLedger(vendorID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch capital ledger"})
	}
	return c.JSON(ledger)
}

// Deposit adds capital
// POST /api/v1/vendor/capital/deposit
func (h *CapitalHandler) Deposit(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	var req CapitalMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)

	record, err := h.capitalService.Deposit(vendorID, req.Amount, req.Note, userID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Deposit recorded",
		"data":    record,
	})
}

// Withdraw removes capital, bounded by the current balance
// POST /api/v1/vendor/capital/withdraw
func (h *CapitalHandler) Withdraw(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	var req CapitalMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)

	record, err := h.capitalService.Withdraw(vendorID, req.Amount, req.Note, userID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Withdrawal recorded",
		"data":    record,
	})
}
