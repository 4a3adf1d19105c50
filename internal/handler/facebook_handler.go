package handler

import (
	"errors"

	"github.com/akramer2025-dev/brandstore-sub001/internal/facebook"
	"github.com/akramer2025-dev/brandstore-sub001/internal/middleware"
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FacebookHandler struct {
	facebookService service.FacebookService
}

func NewFacebookHandler(facebookService service.FacebookService) *FacebookHandler {
	return &FacebookHandler{facebookService: facebookService}
}

// FixMissingAds creates missing ads for the vendor's visible products
// POST /api/v1/facebook/fix-missing-ads
func (h *FacebookHandler) FixMissingAds(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	var req struct {
		CampaignID string `json:"campaign_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.CampaignID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "campaign_id is required"})
	}

	report, err := h.facebookService.FixMissingAds(vendorID, req.CampaignID)
	if err != nil {
		if errors.Is(err, facebook.ErrMissingCredentials) {
			return c.Status(500).JSON(fiber.Map{"error": "Facebook integration is not configured"})
		}
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}
