package handler

import (
	"fmt"
	"time"

	"github.com/akramer2025-dev/brandstore-sub001/internal/middleware"
	"github.com/akramer2025-dev/brandstore-sub001/internal/service"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ReportHandler struct {
	offlineService service.OfflineService
}

func NewReportHandler(offlineService service.OfflineService) *ReportHandler {
	return &ReportHandler{offlineService: offlineService}
}

// ExportOfflineReport streams the consignment profit report as an xlsx file
// GET /api/v1/vendor/offline-products/report/export
func (h *ReportHandler) ExportOfflineReport(c *fiber.Ctx) error {
	vendorID, ok := middleware.VendorScope(c)
	if !ok {
		return c.Status(403).JSON(fiber.Map{"error": "Vendor scope not resolved"})
	}

	report, err := h.offlineService.GetReport(vendorID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Offline Report"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Product", "Supplier", "Purchase Price", "Selling Price", "Quantity", "Sold", "Remaining", "Realized Profit", "Expected Revenue"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, item := range report.Items {
		values := []interface{}{
			item.Product.Name,
			item.Product.OfflineSupplier.Name,
			item.Product.PurchasePrice.StringFixed(2),
			item.Product.SellingPrice.StringFixed(2),
			item.Product.Quantity,
			item.Product.SoldQuantity,
			item.Product.RemainingQuantity(),
			item.RealizedProfit.StringFixed(2),
			item.ExpectedRevenue.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// Totals row
	totalRow := len(report.Items) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), report.TotalRealizedProfit.StringFixed(2))
	f.SetCellValue(sheet, fmt.Sprintf("I%d", totalRow), report.TotalExpectedRevenue.StringFixed(2))
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow+1), "Pending supplier payments")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow+1), report.TotalPendingPayments.StringFixed(2))

	filename := fmt.Sprintf("offline-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(c.Response().BodyWriter()); err != nil {
		logger.LogError("report", "ExportOfflineReport", "write_xlsx", map[string]interface{}{
			"vendor_id": vendorID,
		}, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write report file"})
	}
	return nil
}
