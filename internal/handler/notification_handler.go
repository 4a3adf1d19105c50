package handler

import (
	"strconv"

	"github.com/akramer2025-dev/brandstore-sub001/internal/middleware"
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Poll returns unread count, recent notifications and the alert decision
// GET /api/v1/vendor/notifications?last_count=N
func (h *NotificationHandler) Poll(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	lastCountStr := c.Query("last_count", "0")
	lastCount, err := strconv.ParseInt(lastCountStr, 10, 64)
	if err != nil || lastCount < 0 {
		lastCount = 0
	}

	response, err := h.notificationService.Poll(vendorID, lastCount)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}
	return c.JSON(response)
}

// MarkAllRead clears the unread flags
// PUT /api/v1/vendor/notifications/read
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	if err := h.notificationService.MarkAllRead(vendorID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to mark notifications read"})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked read"})
}
