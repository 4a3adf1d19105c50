package handler

import (
	"errors"

	"github.com/akramer2025-dev/brandstore-sub001/internal/middleware"
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfflineHandler struct {
	offlineService service.OfflineService
}

func NewOfflineHandler(offlineService service.OfflineService) *OfflineHandler {
	return &OfflineHandler{offlineService: offlineService}
}

// CreateSupplier registers an offline supplier
// POST /api/v1/vendor/offline-suppliers
func (h *OfflineHandler) CreateSupplier(c *fiber.Ctx) error {
	var req model.OfflineSupplier
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}
	req.VendorID = vendorID

	userID, _ := c.Locals("user_id").(string)

	if err := h.offlineService.CreateSupplier(&req, userID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Supplier created successfully",
		"data":    req,
	})
}

// GetSuppliers lists suppliers with derived pending amounts
// GET /api/v1/vendor/offline-suppliers
func (h *OfflineHandler) GetSuppliers(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	suppliers, err := h.offlineService.GetSuppliers(vendorID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch suppliers"})
	}
	return c.JSON(suppliers)
}

// PaySupplier records a payment, capped at the supplier's pending amount
// POST /api/v1/vendor/offline-suppliers/:id/payments
func (h *OfflineHandler) PaySupplier(c *fiber.Ctx) error {
	supplierID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
		Note   string          `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)

	payment, err := h.offlineService.PaySupplier(supplierID, req.Amount, middleware.VendorPin(c), req.Note, userID)
	if err != nil {
		if errors.Is(err, service.ErrVendorMismatch) {
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Payment recorded",
		"data":    payment,
	})
}

// CreateOfflineProduct adds a consignment/offline bookkeeping row
// POST /api/v1/vendor/offline-products
func (h *OfflineHandler) CreateOfflineProduct(c *fiber.Ctx) error {
	var req model.OfflineProduct
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}
	req.VendorID = vendorID

	userID, _ := c.Locals("user_id").(string)

	if err := h.offlineService.CreateOfflineProduct(&req, userID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Offline product created successfully",
		"data":    req,
	})
}

// GetOfflineProducts lists offline bookkeeping rows
// GET /api/v1/vendor/offline-products
func (h *OfflineHandler) GetOfflineProducts(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	products, err := h.offlineService.GetOfflineProducts(vendorID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch offline products"})
	}
	return c.JSON(products)
}

// RecordOfflineSale accrues sold quantity on an offline product
// POST /api/v1/vendor/offline-products/:id/sale
func (h *OfflineHandler) RecordOfflineSale(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)

	product, err := h.offlineService.RecordOfflineSale(productID, req.Quantity, middleware.VendorPin(c), userID)
	if err != nil {
		if errors.Is(err, service.ErrVendorMismatch) {
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Sale recorded",
		"data":    product,
	})
}

// GetReport returns the consignment profit report
// GET /api/v1/vendor/offline-products/report
func (h *OfflineHandler) GetReport(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	report, err := h.offlineService.GetReport(vendorID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}
	return c.JSON(report)
}
