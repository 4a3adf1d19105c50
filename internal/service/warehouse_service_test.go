package service

import (
	"errors"
	"testing"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newWarehouseFixture(t *testing.T) (WarehouseService, *model.Vendor, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewWarehouseService(repository.NewWarehouseRepo(db), db, newTestHub())
	return svc, createTestVendor(t, db), db
}

func createTestMaterial(t *testing.T, svc WarehouseService, stock float64) *model.RawMaterial {
	t.Helper()
	material := &model.RawMaterial{
		Name:      "Kain Flanel",
		Unit:      "meter",
		Stock:     stock,
		UnitPrice: decimal.NewFromInt(3),
	}
	if err := svc.CreateMaterial(material, "tester"); err != nil {
		t.Fatalf("CreateMaterial failed: %v", err)
	}
	return material
}

func TestMovementOutBoundedByStock(t *testing.T) {
	svc, _, db := newWarehouseFixture(t)
	material := createTestMaterial(t, svc, 10)

	out := &model.MaterialMovement{
		MaterialID: material.ID,
		Type:       model.MovementOut,
		Quantity:   15,
	}
	if err := svc.RecordMovement(out, "tester", "Tester"); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The rejected movement must not touch stock or leave a row
	var got model.RawMaterial
	db.First(&got, "id = ?", material.ID)
	if got.Stock != 10 {
		t.Fatalf("stock = %.2f, want 10", got.Stock)
	}
	var count int64
	db.Model(&model.MaterialMovement{}).Count(&count)
	if count != 0 {
		t.Fatalf("movements = %d, want 0", count)
	}
}

func TestMovementsAdjustStock(t *testing.T) {
	svc, _, db := newWarehouseFixture(t)
	material := createTestMaterial(t, svc, 10)

	in := &model.MaterialMovement{MaterialID: material.ID, Type: model.MovementIn, Quantity: 5}
	if err := svc.RecordMovement(in, "tester", "Tester"); err != nil {
		t.Fatalf("IN movement failed: %v", err)
	}
	out := &model.MaterialMovement{MaterialID: material.ID, Type: model.MovementOut, Quantity: 7}
	if err := svc.RecordMovement(out, "tester", "Tester"); err != nil {
		t.Fatalf("OUT movement failed: %v", err)
	}

	var got model.RawMaterial
	db.First(&got, "id = ?", material.ID)
	if got.Stock != 8 {
		t.Fatalf("stock = %.2f, want 8", got.Stock)
	}
}

func TestFabricCutsAccumulate(t *testing.T) {
	svc, vendor, _ := newWarehouseFixture(t)

	fabric := &model.Fabric{
		VendorID:    vendor.ID,
		Name:        "Katun Jepang",
		Color:       "Navy",
		TotalLength: 100,
	}
	if err := svc.CreateFabric(fabric, "tester"); err != nil {
		t.Fatalf("CreateFabric failed: %v", err)
	}

	if _, err := svc.CutFabric(fabric.ID, 30, nil, "kemeja batch 1", "tester"); err != nil {
		t.Fatalf("first cut failed: %v", err)
	}
	status, err := svc.CutFabric(fabric.ID, 20, nil, "kemeja batch 2", "tester")
	if err != nil {
		t.Fatalf("second cut failed: %v", err)
	}

	if status.RemainingLength != 50 {
		t.Fatalf("remaining = %.2f, want 50", status.RemainingLength)
	}
	if status.UsagePercentage != 50 {
		t.Fatalf("usage = %.2f%%, want 50%%", status.UsagePercentage)
	}
}

func TestFabricCutExceedingRemainingRejected(t *testing.T) {
	svc, vendor, db := newWarehouseFixture(t)

	fabric := &model.Fabric{
		VendorID:    vendor.ID,
		Name:        "Linen",
		TotalLength: 100,
	}
	if err := svc.CreateFabric(fabric, "tester"); err != nil {
		t.Fatalf("CreateFabric failed: %v", err)
	}
	if _, err := svc.CutFabric(fabric.ID, 50, nil, "gamis", "tester"); err != nil {
		t.Fatalf("cut failed: %v", err)
	}

	if _, err := svc.CutFabric(fabric.ID, 60, nil, "gamis lagi", "tester"); !errors.Is(err, ErrCutExceedsRemaining) {
		t.Fatalf("err = %v, want ErrCutExceedsRemaining", err)
	}

	// The rejected cut must not be written
	var count int64
	db.Model(&model.FabricCut{}).Count(&count)
	if count != 1 {
		t.Fatalf("cuts = %d, want 1", count)
	}

	statuses, err := svc.GetFabrics(vendor.ID)
	if err != nil {
		t.Fatalf("GetFabrics failed: %v", err)
	}
	if statuses[0].RemainingLength != 50 {
		t.Fatalf("remaining = %.2f, want 50", statuses[0].RemainingLength)
	}
}

func TestCutExactRemainingAllowed(t *testing.T) {
	svc, vendor, _ := newWarehouseFixture(t)

	fabric := &model.Fabric{
		VendorID:    vendor.ID,
		Name:        "Sisa Roll",
		TotalLength: 25,
	}
	if err := svc.CreateFabric(fabric, "tester"); err != nil {
		t.Fatalf("CreateFabric failed: %v", err)
	}

	status, err := svc.CutFabric(fabric.ID, 25, nil, "habiskan", "tester")
	if err != nil {
		t.Fatalf("cut failed: %v", err)
	}
	if status.RemainingLength != 0 || status.UsagePercentage != 100 {
		t.Fatalf("remaining/usage = %.2f/%.2f, want 0/100", status.RemainingLength, status.UsagePercentage)
	}
}

func TestCutFabricScopedToVendor(t *testing.T) {
	svc, vendorA, db := newWarehouseFixture(t)

	fabric := &model.Fabric{
		VendorID:    vendorA.ID,
		Name:        "Milik A",
		TotalLength: 40,
	}
	if err := svc.CreateFabric(fabric, "tester"); err != nil {
		t.Fatalf("CreateFabric failed: %v", err)
	}

	// A store-B session must not cut store A's roll
	otherVendor := uuid.New()
	if _, err := svc.CutFabric(fabric.ID, 10, &otherVendor, "salah toko", "tester"); !errors.Is(err, ErrVendorMismatch) {
		t.Fatalf("err = %v, want ErrVendorMismatch", err)
	}

	var count int64
	db.Model(&model.FabricCut{}).Count(&count)
	if count != 0 {
		t.Fatalf("cuts = %d, want 0", count)
	}

	// The owning vendor's own pin still passes
	if _, err := svc.CutFabric(fabric.ID, 10, &vendorA.ID, "kemeja", "tester"); err != nil {
		t.Fatalf("own-vendor cut failed: %v", err)
	}
}
