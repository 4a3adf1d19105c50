package service

import (
	"testing"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/ws"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Vendor{}, &model.CapitalTransaction{},
		&model.Product{},
		&model.OfflineSupplier{}, &model.OfflineProduct{}, &model.SupplierPayment{},
		&model.RawMaterial{}, &model.MaterialMovement{},
		&model.Fabric{}, &model.FabricCut{},
		&model.Production{}, &model.ProductionMaterial{},
		&model.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

func createTestVendor(t *testing.T, db *gorm.DB) *model.Vendor {
	t.Helper()
	vendor := &model.Vendor{
		StoreName: "Toko Uji",
		OwnerName: "Budi",
		IsActive:  true,
	}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("failed to create test vendor: %v", err)
	}
	return vendor
}
