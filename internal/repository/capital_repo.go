package repository

import (
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CapitalRepository interface {
	Create(tx *gorm.DB, record *model.CapitalTransaction) error
	FindByVendor(vendorID uuid.UUID) ([]model.CapitalTransaction, error)
	// FoldBalance derives the current balance as the signed sum of all ledger
	// rows. Pass a transaction handle when the caller needs a consistent read.
	FoldBalance(tx *gorm.DB, vendorID uuid.UUID) (decimal.Decimal, error)
}

type capitalRepo struct {
	db *gorm.DB
}

func NewCapitalRepo(db *gorm.DB) CapitalRepository {
	return &capitalRepo{db}
}

// Create accepts a *gorm.DB so the ledger row can join the caller's transaction.
func (r *capitalRepo) Create(tx *gorm.DB, record *model.CapitalTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(record).Error
}

func (r *capitalRepo) FindByVendor(vendorID uuid.UUID) ([]model.CapitalTransaction, error) {
	var records []model.CapitalTransaction
	err := r.db.Preload("CreatedByUser").
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *capitalRepo) FoldBalance(tx *gorm.DB, vendorID uuid.UUID) (decimal.Decimal, error) {
	if tx == nil {
		tx = r.db
	}
	var records []model.CapitalTransaction
	if err := tx.Where("vendor_id = ?", vendorID).Find(&records).Error; err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for i := range records {
		balance = balance.Add(records[i].Signed())
	}
	return balance, nil
}
