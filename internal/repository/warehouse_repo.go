package repository

import (
	"time"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	CreateMaterial(material *model.RawMaterial) error
	FindMaterials() ([]model.RawMaterial, error)
	FindMaterialByID(tx *gorm.DB, id uuid.UUID) (*model.RawMaterial, error)
	UpdateMaterialStock(tx *gorm.DB, id uuid.UUID, newStock float64, updatedBy string) error
	CountLowStockMaterials() (int64, error)

	CreateMovement(tx *gorm.DB, movement *model.MaterialMovement) error
	FindMovements(limit int) ([]model.MaterialMovement, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)

	CreateFabric(fabric *model.Fabric) error
	FindFabricByID(id uuid.UUID) (*model.Fabric, error)
	FindFabricsByVendor(vendorID uuid.UUID) ([]model.Fabric, error)
	CreateFabricCut(tx *gorm.DB, cut *model.FabricCut) error
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string  `json:"date"`
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
}

type warehouseRepo struct {
	db *gorm.DB
}

func NewWarehouseRepo(db *gorm.DB) WarehouseRepository {
	return &warehouseRepo{db}
}

func (r *warehouseRepo) CreateMaterial(material *model.RawMaterial) error {
	return r.db.Create(material).Error
}

func (r *warehouseRepo) FindMaterials() ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.Preload("CreatedByUser").Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *warehouseRepo) FindMaterialByID(tx *gorm.DB, id uuid.UUID) (*model.RawMaterial, error) {
	if tx == nil {
		tx = r.db
	}
	var material model.RawMaterial
	if err := tx.First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// UpdateMaterialStock menerima *gorm.DB (tx) agar bisa berjalan dalam transaksi
func (r *warehouseRepo) UpdateMaterialStock(tx *gorm.DB, id uuid.UUID, newStock float64, updatedBy string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.RawMaterial{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": updatedBy,
		}).Error
}

func (r *warehouseRepo) CountLowStockMaterials() (int64, error) {
	var count int64
	err := r.db.Model(&model.RawMaterial{}).
		Where("stock < min_threshold").
		Count(&count).Error
	return count, err
}

func (r *warehouseRepo) CreateMovement(tx *gorm.DB, movement *model.MaterialMovement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(movement).Error
}

func (r *warehouseRepo) FindMovements(limit int) ([]model.MaterialMovement, error) {
	var movements []model.MaterialMovement
	q := r.db.Preload("Material").Preload("CreatedByUser").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&movements).Error
	return movements, err
}

// GetStockMovement aggregates movements per day for the dashboard chart.
func (r *warehouseRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.MaterialMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *warehouseRepo) CreateFabric(fabric *model.Fabric) error {
	return r.db.Create(fabric).Error
}

func (r *warehouseRepo) FindFabricByID(id uuid.UUID) (*model.Fabric, error) {
	var fabric model.Fabric
	if err := r.db.Preload("Cuts").First(&fabric, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &fabric, nil
}

func (r *warehouseRepo) FindFabricsByVendor(vendorID uuid.UUID) ([]model.Fabric, error) {
	var fabrics []model.Fabric
	err := r.db.Preload("Cuts").Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&fabrics).Error
	return fabrics, err
}

func (r *warehouseRepo) CreateFabricCut(tx *gorm.DB, cut *model.FabricCut) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(cut).Error
}
