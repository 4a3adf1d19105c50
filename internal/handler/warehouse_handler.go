package handler

import (
	"errors"
	"strconv"

	"github.com/akramer2025-dev/brandstore-sub001/internal/middleware"
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WarehouseHandler struct {
	warehouseService service.WarehouseService
}

func NewWarehouseHandler(warehouseService service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// CreateMaterial registers a raw material
// POST /api/v1/materials
func (h *WarehouseHandler) CreateMaterial(c *fiber.Ctx) error {
	var req model.RawMaterial
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)

	if err := h.warehouseService.CreateMaterial(&req, userID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Material created successfully",
		"data":    req,
	})
}

// GetMaterials lists raw materials
// GET /api/v1/materials
func (h *WarehouseHandler) GetMaterials(c *fiber.Ctx) error {
	materials, err := h.warehouseService.GetMaterials()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch materials"})
	}
	return c.JSON(materials)
}

// RecordMovement applies an IN/OUT stock movement
// POST /api/v1/materials/movement
func (h *WarehouseHandler) RecordMovement(c *fiber.Ctx) error {
	var req model.MaterialMovement
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)
	userName, _ := c.Locals("user_name").(string)

	if err := h.warehouseService.RecordMovement(&req, userID, userName); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Movement recorded",
		"data":    req,
	})
}

// GetMovements lists recent movements
// GET /api/v1/materials/movement?limit=N
func (h *WarehouseHandler) GetMovements(c *fiber.Ctx) error {
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50
	}

	movements, err := h.warehouseService.GetMovements(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch movements"})
	}
	return c.JSON(movements)
}

// CreateFabric registers a fabric roll
// POST /api/v1/fabrics
func (h *WarehouseHandler) CreateFabric(c *fiber.Ctx) error {
	var req model.Fabric
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}
	req.VendorID = vendorID

	userID, _ := c.Locals("user_id").(string)

	if err := h.warehouseService.CreateFabric(&req, userID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Fabric created successfully",
		"data":    req,
	})
}

// GetFabrics lists fabric rolls with derived usage
// GET /api/v1/fabrics
func (h *WarehouseHandler) GetFabrics(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	fabrics, err := h.warehouseService.GetFabrics(vendorID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch fabrics"})
	}
	return c.JSON(fabrics)
}

// CutFabric records a cut off the roll
// POST /api/v1/fabrics/:id/cuts
func (h *WarehouseHandler) CutFabric(c *fiber.Ctx) error {
	fabricID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid fabric ID"})
	}

	var req struct {
		LengthUsed float64 `json:"length_used"`
		Purpose    string  `json:"purpose"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)

	status, err := h.warehouseService.CutFabric(fabricID, req.LengthUsed, middleware.VendorPin(c), req.Purpose, userID)
	if err != nil {
		if errors.Is(err, service.ErrVendorMismatch) {
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Cut recorded",
		"data":    status,
	})
}
