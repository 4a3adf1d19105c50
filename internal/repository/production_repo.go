package repository

import (
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"

	"gorm.io/gorm"
)

type ProductionRepository interface {
	Create(tx *gorm.DB, production *model.Production) error
	FindAll() ([]model.Production, error)
}

type productionRepo struct {
	db *gorm.DB
}

func NewProductionRepo(db *gorm.DB) ProductionRepository {
	return &productionRepo{db}
}

// Create writes the production order together with its material join rows.
// Must run inside the completion transaction so stock updates and the order
// commit or roll back together.
func (r *productionRepo) Create(tx *gorm.DB, production *model.Production) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(production).Error
}

func (r *productionRepo) FindAll() ([]model.Production, error) {
	var productions []model.Production
	err := r.db.Preload("Product").Preload("Materials.Material").Preload("CreatedByUser").
		Order("created_at DESC").
		Find(&productions).Error
	return productions, err
}
