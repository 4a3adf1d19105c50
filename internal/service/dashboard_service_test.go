package service

import (
	"testing"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

func newDashboardFixture(t *testing.T) (DashboardService, ProductService, CapitalService, *model.Vendor) {
	t.Helper()
	db := newTestDB(t)
	hub := newTestHub()
	capitalRepo := repository.NewCapitalRepo(db)
	productRepo := repository.NewProductRepo(db)
	offlineRepo := repository.NewOfflineRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	notifier := NewNotificationService(notificationRepo, hub)

	dashboardSvc := NewDashboardService(capitalRepo, productRepo, offlineRepo, warehouseRepo, notificationRepo)
	productSvc := NewProductService(productRepo, capitalRepo, offlineRepo, db, hub, notifier)
	capitalSvc := NewCapitalService(capitalRepo, repository.NewVendorRepo(db), db, notifier)
	return dashboardSvc, productSvc, capitalSvc, createTestVendor(t, db)
}

func TestVendorStatsAggregates(t *testing.T) {
	dashboardSvc, productSvc, capitalSvc, vendor := newDashboardFixture(t)

	if _, err := capitalSvc.Deposit(vendor.ID, decimal.NewFromInt(1000), "seed", "tester"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	product := &model.Product{
		VendorID:      vendor.ID,
		SKU:           "DASH-001",
		Name:          "Kaos Dashboard",
		Source:        model.SourceOwned,
		Stock:         10,
		PurchasePrice: decimal.NewFromInt(20),
		SellingPrice:  decimal.NewFromInt(35),
	}
	if err := productSvc.CreateProduct(product, "tester", "Tester"); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := productSvc.RecordSale(product.ID, 3, nil, "tester", "Tester"); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	stats, err := dashboardSvc.GetVendorStats(vendor.ID)
	if err != nil {
		t.Fatalf("GetVendorStats failed: %v", err)
	}

	// 1000 deposited, 200 spent on stock
	if !stats.CapitalBalance.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("balance = %s, want 800", stats.CapitalBalance)
	}
	if stats.TotalProducts != 1 || stats.TotalStock != 7 || stats.TotalSold != 3 {
		t.Fatalf("products/stock/sold = %d/%d/%d, want 1/7/3", stats.TotalProducts, stats.TotalStock, stats.TotalSold)
	}
	// Remaining 7 units valued at purchase price 20
	if !stats.StockValue.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("stock value = %s, want 140", stats.StockValue)
	}
	if !stats.PendingPayments.IsZero() {
		t.Fatalf("pending = %s, want 0", stats.PendingPayments)
	}
}

func TestStockMovementFillsMissingDays(t *testing.T) {
	dashboardSvc, _, _, _ := newDashboardFixture(t)

	series, err := dashboardSvc.GetStockMovement(7)
	if err != nil {
		t.Fatalf("GetStockMovement failed: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("series length = %d, want 7", len(series))
	}
	for _, point := range series {
		if point.Date == "" {
			t.Fatal("zero-filled day must still carry its date")
		}
		if point.Inbound != 0 || point.Outbound != 0 {
			t.Fatalf("empty db should yield zero movement, got %+v", point)
		}
	}
}
