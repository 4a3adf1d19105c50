package service

import (
	"time"

	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DashboardService interface {
	GetVendorStats(vendorID uuid.UUID) (*VendorStats, error)
	GetStockMovement(days int) ([]repository.StockMovementData, error)
}

// VendorStats is the aggregate card row at the top of the vendor dashboard.
type VendorStats struct {
	CapitalBalance     decimal.Decimal `json:"capital_balance"`
	TotalProducts      int             `json:"total_products"`
	TotalStock         int             `json:"total_stock"`
	TotalSold          int             `json:"total_sold"`
	StockValue         decimal.Decimal `json:"stock_value"`
	PendingPayments    decimal.Decimal `json:"pending_payments"`
	UnreadNotification int64           `json:"unread_notifications"`
	LowStockMaterials  int64           `json:"low_stock_materials"`
}

type dashboardService struct {
	capitalRepo      repository.CapitalRepository
	productRepo      repository.ProductRepository
	offlineRepo      repository.OfflineRepository
	warehouseRepo    repository.WarehouseRepository
	notificationRepo repository.NotificationRepository
}

func NewDashboardService(
	capitalRepo repository.CapitalRepository,
	productRepo repository.ProductRepository,
	offlineRepo repository.OfflineRepository,
	warehouseRepo repository.WarehouseRepository,
	notificationRepo repository.NotificationRepository,
) DashboardService {
	return &dashboardService{
		capitalRepo:      capitalRepo,
		productRepo:      productRepo,
		offlineRepo:      offlineRepo,
		warehouseRepo:    warehouseRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *dashboardService) GetVendorStats(vendorID uuid.UUID) (*VendorStats, error) {
	stats := &VendorStats{}

	// 1. Capital balance (fold over the ledger)
	balance, err := s.capitalRepo.FoldBalance(nil, vendorID)
	if err != nil {
		return nil, err
	}
	stats.CapitalBalance = balance

	// 2. Product counts and stock valuation at purchase price
	products, err := s.productRepo.FindByVendor(vendorID)
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = len(products)
	stockValue := decimal.Zero
	for i := range products {
		p := &products[i]
		stats.TotalStock += p.Stock
		stats.TotalSold += p.SoldQuantity
		stockValue = stockValue.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	stats.StockValue = stockValue

	// 3. Outstanding supplier debt across all offline suppliers
	pending, err := s.offlineRepo.SumPendingByVendor(vendorID)
	if err != nil {
		return nil, err
	}
	stats.PendingPayments = pending

	// 4. Attention counters
	unread, err := s.notificationRepo.CountUnread(vendorID)
	if err != nil {
		return nil, err
	}
	stats.UnreadNotification = unread

	lowStock, err := s.warehouseRepo.CountLowStockMaterials()
	if err != nil {
		return nil, err
	}
	stats.LowStockMaterials = lowStock

	return stats, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days+1)

	movements, err := s.warehouseRepo.GetStockMovement(startDate, endDate)
	if err != nil {
		return nil, err
	}

	// Fill missing days with zeroes so the chart x-axis stays continuous
	movementMap := make(map[string]repository.StockMovementData)
	for _, m := range movements {
		movementMap[m.Date] = m
	}

	result := make([]repository.StockMovementData, 0, days)
	for d := 0; d < days; d++ {
		date := startDate.AddDate(0, 0, d).Format("2006-01-02")
		if m, ok := movementMap[date]; ok {
			result = append(result, m)
		} else {
			result = append(result, repository.StockMovementData{Date: date})
		}
	}

	return result, nil
}
