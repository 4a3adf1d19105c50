package service

import (
	"errors"
	"fmt"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNoMaterials      = errors.New("production requires at least one material")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativeCost     = errors.New("labor and overhead costs cannot be negative")
	ErrMaterialShortage = errors.New("insufficient material stock")
)

type ProductionService interface {
	CompleteOrder(req *ProductionRequest, userID, userName string) (*model.Production, error)
	GetAll() ([]model.Production, error)
}

type ProductionRequest struct {
	ProductID    uuid.UUID               `json:"product_id" validate:"uuid_required"`
	Quantity     int                     `json:"quantity" validate:"required,gt=0"`
	Materials    []ProductionMaterialReq `json:"materials"`
	LaborCost    decimal.Decimal         `json:"labor_cost"`
	OverheadCost decimal.Decimal         `json:"overhead_cost"`
}

type ProductionMaterialReq struct {
	MaterialID uuid.UUID `json:"material_id" validate:"uuid_required"`
	Quantity   float64   `json:"quantity" validate:"required,gt=0"`
}

type productionService struct {
	productionRepo repository.ProductionRepository
	warehouseRepo  repository.WarehouseRepository
	productRepo    repository.ProductRepository
	db             *gorm.DB
	notifier       NotificationService
}

func NewProductionService(pRepo repository.ProductionRepository, wRepo repository.WarehouseRepository, prodRepo repository.ProductRepository, db *gorm.DB, notifier NotificationService) ProductionService {
	return &productionService{
		productionRepo: pRepo,
		warehouseRepo:  wRepo,
		productRepo:    prodRepo,
		db:             db,
		notifier:       notifier,
	}
}

// CompleteOrder runs the whole production in one database transaction: every
// consumed material is validated and decremented, the target product stock is
// incremented, and the order with its cost rollup is written. Any failure
// rolls the whole thing back, so a rejected order leaves stock untouched.
func (s *productionService) CompleteOrder(req *ProductionRequest, userID, userName string) (*model.Production, error) {
	// 1. Validasi Input
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if len(req.Materials) == 0 {
		return nil, ErrNoMaterials
	}
	if req.LaborCost.IsNegative() || req.OverheadCost.IsNegative() {
		return nil, ErrNegativeCost
	}
	for _, m := range req.Materials {
		if m.Quantity <= 0 {
			return nil, fmt.Errorf("material %s: quantity must be greater than zero", m.MaterialID)
		}
	}

	var production *model.Production
	var lowStock []model.RawMaterial
	var vendorID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 2. Lock target product
		var product model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", req.ProductID).Error; err != nil {
			return ErrProductNotFound
		}
		vendorID = product.VendorID

		// 3. Consume materials and roll up cost
		total := req.LaborCost.Add(req.OverheadCost)
		joins := make([]model.ProductionMaterial, 0, len(req.Materials))

		for _, m := range req.Materials {
			material, err := s.warehouseRepo.FindMaterialByID(tx, m.MaterialID)
			if err != nil {
				return fmt.Errorf("material %s: %w", m.MaterialID, ErrMaterialNotFound)
			}
			if material.Stock < m.Quantity {
				return fmt.Errorf("material '%s': %w (available %.2f, requested %.2f)",
					material.Name, ErrMaterialShortage, material.Stock, m.Quantity)
			}

			cost := material.UnitPrice.Mul(decimal.NewFromFloat(m.Quantity))
			total = total.Add(cost)

			newStock := material.Stock - m.Quantity
			if err := s.warehouseRepo.UpdateMaterialStock(tx, material.ID, newStock, userID); err != nil {
				return err
			}

			movement := &model.MaterialMovement{
				MaterialID:      material.ID,
				Type:            model.MovementOut,
				Quantity:        m.Quantity,
				Note:            fmt.Sprintf("Consumed by production of '%s'", product.Name),
				CreatedByUserID: &userID,
			}
			movement.CreatedBy = userID
			movement.UpdatedBy = userID
			if err := s.warehouseRepo.CreateMovement(tx, movement); err != nil {
				return err
			}

			join := model.ProductionMaterial{
				MaterialID:   material.ID,
				QuantityUsed: m.Quantity,
				Cost:         cost,
			}
			join.CreatedBy = userID
			join.UpdatedBy = userID
			joins = append(joins, join)

			if newStock < material.MinThreshold {
				snapshot := *material
				snapshot.Stock = newStock
				lowStock = append(lowStock, snapshot)
			}
		}

		// 4. Increment product stock
		if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock+req.Quantity, userID); err != nil {
			return err
		}

		// 5. Write the order with its material join rows
		production = &model.Production{
			ProductID:       req.ProductID,
			Quantity:        req.Quantity,
			LaborCost:       req.LaborCost,
			OverheadCost:    req.OverheadCost,
			TotalCost:       total,
			CostPerUnit:     total.DivRound(decimal.NewFromInt(int64(req.Quantity)), 4),
			Materials:       joins,
			CreatedByUserID: &userID,
		}
		production.CreatedBy = userID
		production.UpdatedBy = userID
		return s.productionRepo.Create(tx, production)
	})
	if err != nil {
		return nil, err
	}

	// 6. Post-commit notifications (best effort)
	s.notifier.Notify(vendorID, model.NotifyProduction, "Production completed",
		fmt.Sprintf("%s produced %d units, cost per unit %s", userName, req.Quantity, production.CostPerUnit.StringFixed(2)))

	for i := range lowStock {
		m := &lowStock[i]
		s.notifier.Notify(vendorID, model.NotifyLowStock, "Material low on stock",
			fmt.Sprintf("'%s' is down to %.2f %s (threshold %.2f)", m.Name, m.Stock, m.Unit, m.MinThreshold))
	}

	return production, nil
}

func (s *productionService) GetAll() ([]model.Production, error) {
	return s.productionRepo.FindAll()
}
