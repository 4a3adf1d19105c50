package handler

import (
	"errors"

	"github.com/akramer2025-dev/brandstore-sub001/internal/middleware"
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProduct adds a catalog item for the scoped vendor
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}
	req.VendorID = vendorID

	userID, _ := c.Locals("user_id").(string)
	userName, _ := c.Locals("user_name").(string)

	if err := h.productService.CreateProduct(&req, userID, userName); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Product created successfully",
		"data":    req,
	})
}

// GetProducts lists products, scoped to the vendor
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	products, err := h.productService.GetProducts(&vendorID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch products"})
	}
	return c.JSON(products)
}

// GetProduct returns one product
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	if pin := middleware.VendorPin(c); pin != nil && product.VendorID != *pin {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

// UpdateProduct updates the mutable product fields
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)
	userName, _ := c.Locals("user_name").(string)

	product, err := h.productService.UpdateProduct(id, &req, middleware.VendorPin(c), userID, userName)
	if err != nil {
		if errors.Is(err, service.ErrVendorMismatch) {
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"data":    product,
	})
}

// RecordSale decrements stock for a sale
// POST /api/v1/products/:id/sale
func (h *ProductHandler) RecordSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
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
	userName, _ := c.Locals("user_name").(string)

	product, err := h.productService.RecordSale(id, req.Quantity, middleware.VendorPin(c), userID, userName)
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

// SetVisibility toggles storefront visibility
// PUT /api/v1/products/:id/visibility
func (h *ProductHandler) SetVisibility(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req struct {
		Visible bool `json:"visible"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID, _ := c.Locals("user_id").(string)

	if err := h.productService.SetVisibility(id, req.Visible, middleware.VendorPin(c), userID); err != nil {
		if errors.Is(err, service.ErrVendorMismatch) {
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Visibility updated"})
}
