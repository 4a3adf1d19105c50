package handler

import (
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductionHandler struct {
	productionService service.ProductionService
}

func NewProductionHandler(productionService service.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// CompleteOrder runs a production order
// POST /api/v1/production
func (h *ProductionHandler) CompleteOrder(c *fiber.Ctx) error {
	var req service.ProductionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)
	userName, _ := c.Locals("user_name").(string)

	production, err := h.productionService.CompleteOrder(&req, userID, userName)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Production completed",
		"data":    production,
	})
}

// GetProductions lists production orders
// GET /api/v1/production
func (h *ProductionHandler) GetProductions(c *fiber.Ctx) error {
	productions, err := h.productionService.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch productions"})
	}
	return c.JSON(productions)
}
