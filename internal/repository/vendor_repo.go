package repository

import (
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(vendor *model.Vendor) error
	FindByID(id uuid.UUID) (*model.Vendor, error)
	FindAll() ([]model.Vendor, error)
	Update(vendor *model.Vendor) error
	SetActive(id uuid.UUID, active bool) error
}

type vendorRepo struct {
	db *gorm.DB
}

func NewVendorRepo(db *gorm.DB) VendorRepository {
	return &vendorRepo{db}
}

func (r *vendorRepo) Create(vendor *model.Vendor) error {
	return r.db.Create(vendor).Error
}

func (r *vendorRepo) FindByID(id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.db.First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepo) FindAll() ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := r.db.Order("created_at DESC").Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepo) Update(vendor *model.Vendor) error {
	return r.db.Save(vendor).Error
}

// SetActive toggles the vendor. Vendors are never deleted, only deactivated.
func (r *vendorRepo) SetActive(id uuid.UUID, active bool) error {
	return r.db.Model(&model.Vendor{}).Where("id = ?", id).Update("is_active", active).Error
}
