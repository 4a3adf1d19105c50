package handler

import (
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// CreateVendor registers a new store
// POST /api/v1/vendors
func (h *VendorHandler) CreateVendor(c *fiber.Ctx) error {
	var req service.CreateVendorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID := c.Locals("user_id")
	if userID == nil {
		userID = "system"
	}

	vendor, err := h.vendorService.CreateVendor(&req, userID.(string))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Vendor created successfully",
		"data":    vendor,
	})
}

// GetVendors returns all stores
// GET /api/v1/vendors
func (h *VendorHandler) GetVendors(c *fiber.Ctx) error {
	vendors, err := h.vendorService.GetVendors()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch vendors"})
	}
	return c.JSON(vendors)
}

// GetVendor returns a single store by ID
// GET /api/v1/vendors/:id
func (h *VendorHandler) GetVendor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	vendor, err := h.vendorService.GetVendorByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Vendor not found"})
	}
	return c.JSON(vendor)
}

// UpdateVendor updates store profile
// PUT /api/v1/vendors/:id
func (h *VendorHandler) UpdateVendor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	var req service.CreateVendorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID := c.Locals("user_id")
	if userID == nil {
		userID = "system"
	}

	vendor, err := h.vendorService.UpdateVendor(id, &req, userID.(string))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Vendor updated successfully",
		"data":    vendor,
	})
}

// SetActive toggles store activation
// PUT /api/v1/vendors/:id/active
func (h *VendorHandler) SetActive(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.vendorService.SetActive(id, req.Active); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Vendor status updated"})
}
