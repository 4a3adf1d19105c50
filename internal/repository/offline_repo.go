package repository

import (
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OfflineRepository interface {
	CreateSupplier(supplier *model.OfflineSupplier) error
	FindSupplierByID(id uuid.UUID) (*model.OfflineSupplier, error)
	FindSuppliersByVendor(vendorID uuid.UUID) ([]model.OfflineSupplier, error)
	CreateProduct(product *model.OfflineProduct) error
	FindProductByID(id uuid.UUID) (*model.OfflineProduct, error)
	FindProductsByVendor(vendorID uuid.UUID) ([]model.OfflineProduct, error)
	FindProductsBySupplier(tx *gorm.DB, supplierID uuid.UUID) ([]model.OfflineProduct, error)
	FindConsignmentProductsBySupplier(tx *gorm.DB, supplierID uuid.UUID) ([]model.Product, error)
	FindConsignmentProductsByVendor(vendorID uuid.UUID) ([]model.Product, error)
	UpdateSoldQuantity(tx *gorm.DB, productID uuid.UUID, soldQuantity int) error
	CreatePayment(tx *gorm.DB, payment *model.SupplierPayment) error
	SumPayments(tx *gorm.DB, supplierID uuid.UUID) (decimal.Decimal, error)
	SumPendingByVendor(vendorID uuid.UUID) (decimal.Decimal, error)
}

type offlineRepo struct {
	db *gorm.DB
}

func NewOfflineRepo(db *gorm.DB) OfflineRepository {
	return &offlineRepo{db}
}

func (r *offlineRepo) CreateSupplier(supplier *model.OfflineSupplier) error {
	return r.db.Create(supplier).Error
}

func (r *offlineRepo) FindSupplierByID(id uuid.UUID) (*model.OfflineSupplier, error) {
	var supplier model.OfflineSupplier
	err := r.db.Preload("Products").Preload("Payments").First(&supplier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *offlineRepo) FindSuppliersByVendor(vendorID uuid.UUID) ([]model.OfflineSupplier, error) {
	var suppliers []model.OfflineSupplier
	err := r.db.Preload("Products").Preload("Payments").
		Where("vendor_id = ?", vendorID).
		Order("name ASC").
		Find(&suppliers).Error
	return suppliers, err
}

func (r *offlineRepo) CreateProduct(product *model.OfflineProduct) error {
	return r.db.Create(product).Error
}

func (r *offlineRepo) FindProductByID(id uuid.UUID) (*model.OfflineProduct, error) {
	var product model.OfflineProduct
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *offlineRepo) FindProductsByVendor(vendorID uuid.UUID) ([]model.OfflineProduct, error) {
	var products []model.OfflineProduct
	err := r.db.Preload("OfflineSupplier").Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *offlineRepo) FindProductsBySupplier(tx *gorm.DB, supplierID uuid.UUID) ([]model.OfflineProduct, error) {
	if tx == nil {
		tx = r.db
	}
	var products []model.OfflineProduct
	err := tx.Where("offline_supplier_id = ?", supplierID).Find(&products).Error
	return products, err
}

// FindConsignmentProductsBySupplier returns the catalog products whose sales
// owe this supplier (per-unit supplier cost accrued on sale).
func (r *offlineRepo) FindConsignmentProductsBySupplier(tx *gorm.DB, supplierID uuid.UUID) ([]model.Product, error) {
	if tx == nil {
		tx = r.db
	}
	var products []model.Product
	err := tx.Where("offline_supplier_id = ? AND source = ?", supplierID, model.SourceConsignment).Find(&products).Error
	return products, err
}

func (r *offlineRepo) FindConsignmentProductsByVendor(vendorID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("vendor_id = ? AND source = ?", vendorID, model.SourceConsignment).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *offlineRepo) UpdateSoldQuantity(tx *gorm.DB, productID uuid.UUID, soldQuantity int) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.OfflineProduct{}).
		Where("id = ?", productID).
		Update("sold_quantity", soldQuantity).Error
}

func (r *offlineRepo) CreatePayment(tx *gorm.DB, payment *model.SupplierPayment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(payment).Error
}

func (r *offlineRepo) SumPayments(tx *gorm.DB, supplierID uuid.UUID) (decimal.Decimal, error) {
	if tx == nil {
		tx = r.db
	}
	var payments []model.SupplierPayment
	if err := tx.Where("offline_supplier_id = ?", supplierID).Find(&payments).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range payments {
		total = total.Add(payments[i].Amount)
	}
	return total, nil
}

// SumPendingByVendor aggregates the outstanding amount across every supplier
// of a vendor, for the dashboard card.
func (r *offlineRepo) SumPendingByVendor(vendorID uuid.UUID) (decimal.Decimal, error) {
	suppliers, err := r.FindSuppliersByVendor(vendorID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range suppliers {
		s := &suppliers[i]
		purchased := decimal.Zero
		for j := range s.Products {
			p := &s.Products[j]
			purchased = purchased.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
		}
		paid := decimal.Zero
		for j := range s.Payments {
			paid = paid.Add(s.Payments[j].Amount)
		}
		total = total.Add(purchased.Sub(paid))
	}

	// Catalog consignment sales owe their supplier per unit sold
	consigned, err := r.FindConsignmentProductsByVendor(vendorID)
	if err != nil {
		return decimal.Zero, err
	}
	for i := range consigned {
		p := &consigned[i]
		total = total.Add(p.SupplierCost.Mul(decimal.NewFromInt(int64(p.SoldQuantity))))
	}
	return total, nil
}
