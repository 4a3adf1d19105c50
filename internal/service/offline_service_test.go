package service

import (
	"errors"
	"testing"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newOfflineFixture(t *testing.T) (OfflineService, *model.Vendor, *model.OfflineSupplier) {
	t.Helper()
	db := newTestDB(t)
	offlineRepo := repository.NewOfflineRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), newTestHub())
	svc := NewOfflineService(offlineRepo, vendorRepo, db, notifier)
	vendor := createTestVendor(t, db)

	supplier := &model.OfflineSupplier{
		VendorID: vendor.ID,
		Name:     "Pak Joko",
	}
	if err := svc.CreateSupplier(supplier, "tester"); err != nil {
		t.Fatalf("CreateSupplier failed: %v", err)
	}
	return svc, vendor, supplier
}

func addOfflineProduct(t *testing.T, svc OfflineService, vendor *model.Vendor, supplier *model.OfflineSupplier, purchase, selling int64, qty int) *model.OfflineProduct {
	t.Helper()
	product := &model.OfflineProduct{
		VendorID:          vendor.ID,
		OfflineSupplierID: supplier.ID,
		Name:              "Barang Titipan",
		PurchasePrice:     decimal.NewFromInt(purchase),
		SellingPrice:      decimal.NewFromInt(selling),
		Quantity:          qty,
	}
	if err := svc.CreateOfflineProduct(product, "tester"); err != nil {
		t.Fatalf("CreateOfflineProduct failed: %v", err)
	}
	return product
}

func TestPaymentExceedingPendingRejected(t *testing.T) {
	svc, vendor, supplier := newOfflineFixture(t)
	addOfflineProduct(t, svc, vendor, supplier, 100, 150, 10) // pending = 1000

	if _, err := svc.PaySupplier(supplier.ID, decimal.NewFromInt(1200), nil, "too much", "tester"); !errors.Is(err, ErrPaymentExceedsPending) {
		t.Fatalf("err = %v, want ErrPaymentExceedsPending", err)
	}

	// Nothing should have been recorded
	summaries, err := svc.GetSuppliers(vendor.ID)
	if err != nil {
		t.Fatalf("GetSuppliers failed: %v", err)
	}
	if !summaries[0].TotalPaid.IsZero() {
		t.Fatalf("total paid = %s, want 0", summaries[0].TotalPaid)
	}
}

func TestPaymentEqualToPendingZeroesIt(t *testing.T) {
	svc, vendor, supplier := newOfflineFixture(t)
	addOfflineProduct(t, svc, vendor, supplier, 100, 150, 10) // pending = 1000

	if _, err := svc.PaySupplier(supplier.ID, decimal.NewFromInt(400), nil, "first", "tester"); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if _, err := svc.PaySupplier(supplier.ID, decimal.NewFromInt(600), nil, "rest", "tester"); err != nil {
		t.Fatalf("second payment failed: %v", err)
	}

	summaries, err := svc.GetSuppliers(vendor.ID)
	if err != nil {
		t.Fatalf("GetSuppliers failed: %v", err)
	}
	if !summaries[0].PendingAmount.IsZero() {
		t.Fatalf("pending = %s, want 0", summaries[0].PendingAmount)
	}

	// Fully paid: the next rupiah is over the limit
	if _, err := svc.PaySupplier(supplier.ID, decimal.NewFromInt(1), nil, "extra", "tester"); !errors.Is(err, ErrPaymentExceedsPending) {
		t.Fatalf("err = %v, want ErrPaymentExceedsPending", err)
	}
}

func TestOfflineSaleBoundedByQuantity(t *testing.T) {
	svc, vendor, supplier := newOfflineFixture(t)
	product := addOfflineProduct(t, svc, vendor, supplier, 100, 150, 5)

	sold, err := svc.RecordOfflineSale(product.ID, 3, nil, "tester")
	if err != nil {
		t.Fatalf("RecordOfflineSale failed: %v", err)
	}
	if sold.SoldQuantity != 3 || sold.RemainingQuantity() != 2 {
		t.Fatalf("sold/remaining = %d/%d, want 3/2", sold.SoldQuantity, sold.RemainingQuantity())
	}

	if _, err := svc.RecordOfflineSale(product.ID, 3, nil, "tester"); !errors.Is(err, ErrSaleExceedsQuantity) {
		t.Fatalf("err = %v, want ErrSaleExceedsQuantity", err)
	}
}

func TestConsignmentReportRecomputedPerRead(t *testing.T) {
	svc, vendor, supplier := newOfflineFixture(t)
	product := addOfflineProduct(t, svc, vendor, supplier, 100, 150, 10)

	if _, err := svc.RecordOfflineSale(product.ID, 4, nil, "tester"); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	report, err := svc.GetReport(vendor.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}

	// realized = (150-100) x 4, expected = 150 x 6
	if !report.TotalRealizedProfit.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("realized = %s, want 200", report.TotalRealizedProfit)
	}
	if !report.TotalExpectedRevenue.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("expected = %s, want 900", report.TotalExpectedRevenue)
	}
	if !report.TotalPendingPayments.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("pending = %s, want 1000", report.TotalPendingPayments)
	}

	// Another sale shifts the split on the next read
	if _, err := svc.RecordOfflineSale(product.ID, 6, nil, "tester"); err != nil {
		t.Fatalf("sale failed: %v", err)
	}
	report, _ = svc.GetReport(vendor.ID)
	if !report.TotalRealizedProfit.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("realized = %s, want 500", report.TotalRealizedProfit)
	}
	if !report.TotalExpectedRevenue.IsZero() {
		t.Fatalf("expected = %s, want 0", report.TotalExpectedRevenue)
	}
}

func TestSupplierFromAnotherVendorRejected(t *testing.T) {
	db := newTestDB(t)
	offlineRepo := repository.NewOfflineRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), newTestHub())
	svc := NewOfflineService(offlineRepo, vendorRepo, db, notifier)

	vendorA := createTestVendor(t, db)
	vendorB := createTestVendor(t, db)

	supplier := &model.OfflineSupplier{VendorID: vendorA.ID, Name: "Milik A"}
	if err := svc.CreateSupplier(supplier, "tester"); err != nil {
		t.Fatalf("CreateSupplier failed: %v", err)
	}

	product := &model.OfflineProduct{
		VendorID:          vendorB.ID,
		OfflineSupplierID: supplier.ID,
		Name:              "Salah Toko",
		PurchasePrice:     decimal.NewFromInt(10),
		SellingPrice:      decimal.NewFromInt(20),
		Quantity:          1,
	}
	if err := svc.CreateOfflineProduct(product, "tester"); err == nil {
		t.Fatal("expected cross-vendor supplier to be rejected")
	}
}

func TestConsignmentSaleAccruesSupplierDebt(t *testing.T) {
	db := newTestDB(t)
	hub := newTestHub()
	offlineRepo := repository.NewOfflineRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), hub)
	offlineSvc := NewOfflineService(offlineRepo, vendorRepo, db, notifier)
	productSvc := NewProductService(repository.NewProductRepo(db), repository.NewCapitalRepo(db), offlineRepo, db, hub, notifier)

	vendor := createTestVendor(t, db)
	supplier := &model.OfflineSupplier{VendorID: vendor.ID, Name: "Bu Sari"}
	if err := offlineSvc.CreateSupplier(supplier, "tester"); err != nil {
		t.Fatalf("CreateSupplier failed: %v", err)
	}

	product := &model.Product{
		VendorID:          vendor.ID,
		SKU:               "CONS-100",
		Name:              "Gamis Titipan",
		Source:            model.SourceConsignment,
		Stock:             10,
		SellingPrice:      decimal.NewFromInt(80),
		SupplierCost:      decimal.NewFromInt(50),
		OfflineSupplierID: &supplier.ID,
	}
	if err := productSvc.CreateProduct(product, "tester", "Tester"); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	// Intake alone owes nothing; debt accrues per unit sold
	summaries, err := offlineSvc.GetSuppliers(vendor.ID)
	if err != nil {
		t.Fatalf("GetSuppliers failed: %v", err)
	}
	if !summaries[0].PendingAmount.IsZero() {
		t.Fatalf("pending before any sale = %s, want 0", summaries[0].PendingAmount)
	}

	if _, err := productSvc.RecordSale(product.ID, 4, nil, "tester", "Tester"); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	// 4 units sold x supplier cost 50
	summaries, _ = offlineSvc.GetSuppliers(vendor.ID)
	want := decimal.NewFromInt(200)
	if !summaries[0].ConsignmentOwed.Equal(want) {
		t.Fatalf("consignment owed = %s, want %s", summaries[0].ConsignmentOwed, want)
	}
	if !summaries[0].PendingAmount.Equal(want) {
		t.Fatalf("pending = %s, want %s", summaries[0].PendingAmount, want)
	}

	// The report carries the vendor's cut: (80 - 50) x 4
	report, err := offlineSvc.GetReport(vendor.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if len(report.ConsignmentItems) != 1 {
		t.Fatalf("consignment items = %d, want 1", len(report.ConsignmentItems))
	}
	if !report.ConsignmentItems[0].RealizedProfit.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("realized = %s, want 120", report.ConsignmentItems[0].RealizedProfit)
	}
	if !report.TotalRealizedProfit.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("total realized = %s, want 120", report.TotalRealizedProfit)
	}
	if !report.TotalPendingPayments.Equal(want) {
		t.Fatalf("total pending = %s, want %s", report.TotalPendingPayments, want)
	}

	// The accrued debt is payable, and stays capped
	if _, err := offlineSvc.PaySupplier(supplier.ID, decimal.NewFromInt(200), nil, "setoran", "tester"); err != nil {
		t.Fatalf("PaySupplier failed: %v", err)
	}
	if _, err := offlineSvc.PaySupplier(supplier.ID, decimal.NewFromInt(1), nil, "lebih", "tester"); !errors.Is(err, ErrPaymentExceedsPending) {
		t.Fatalf("err = %v, want ErrPaymentExceedsPending", err)
	}
}

func TestOfflineMutationsScopedToVendor(t *testing.T) {
	svc, vendorA, supplier := newOfflineFixture(t)
	product := addOfflineProduct(t, svc, vendorA, supplier, 100, 150, 10)

	otherVendor := uuid.New()

	if _, err := svc.PaySupplier(supplier.ID, decimal.NewFromInt(100), &otherVendor, "salah toko", "tester"); !errors.Is(err, ErrVendorMismatch) {
		t.Fatalf("payment err = %v, want ErrVendorMismatch", err)
	}
	if _, err := svc.RecordOfflineSale(product.ID, 1, &otherVendor, "tester"); !errors.Is(err, ErrVendorMismatch) {
		t.Fatalf("sale err = %v, want ErrVendorMismatch", err)
	}

	// The owning vendor still passes
	if _, err := svc.RecordOfflineSale(product.ID, 1, &vendorA.ID, "tester"); err != nil {
		t.Fatalf("own-vendor sale failed: %v", err)
	}
}
