package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
	"github.com/akramer2025-dev/brandstore-sub001/internal/ws"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMaterialNotFound    = errors.New("material not found")
	ErrFabricNotFound      = errors.New("fabric not found")
	ErrCutExceedsRemaining = errors.New("cut length exceeds remaining fabric")
)

type WarehouseService interface {
	CreateMaterial(req *model.RawMaterial, userID string) error
	GetMaterials() ([]model.RawMaterial, error)
	RecordMovement(req *model.MaterialMovement, userID, userName string) error
	GetMovements(limit int) ([]model.MaterialMovement, error)

	CreateFabric(req *model.Fabric, userID string) error
	GetFabrics(vendorID uuid.UUID) ([]FabricStatus, error)
	CutFabric(fabricID uuid.UUID, lengthUsed float64, scope *uuid.UUID, purpose, userID string) (*FabricStatus, error)
}

// FabricStatus reports the derived roll figures alongside the row.
type FabricStatus struct {
	Fabric          model.Fabric `json:"fabric"`
	UsedLength      float64      `json:"used_length"`
	RemainingLength float64      `json:"remaining_length"`
	UsagePercentage float64      `json:"usage_percentage"`
}

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewWarehouseService(wRepo repository.WarehouseRepository, db *gorm.DB, hub *ws.Hub) WarehouseService {
	return &warehouseService{
		warehouseRepo: wRepo,
		db:            db,
		wsHub:         hub,
	}
}

func (s *warehouseService) CreateMaterial(req *model.RawMaterial, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.Stock < 0 || req.MinThreshold < 0 {
		return errors.New("stock and min_threshold cannot be negative")
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	return s.warehouseRepo.CreateMaterial(req)
}

func (s *warehouseService) GetMaterials() ([]model.RawMaterial, error) {
	return s.warehouseRepo.FindMaterials()
}

// RecordMovement adjusts material stock through the movement ledger. OUT
// movements are bounded by the on-hand quantity.
func (s *warehouseService) RecordMovement(req *model.MaterialMovement, userID, userName string) error {
	// 1. Validasi Input
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Gunakan Transaction Block (Atomic Operation)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var material model.RawMaterial
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&material, "id = ?", req.MaterialID).Error; err != nil {
			return ErrMaterialNotFound
		}

		newStock := material.Stock
		if req.Type == model.MovementIn {
			newStock += req.Quantity
		} else if req.Type == model.MovementOut {
			if material.Stock < req.Quantity {
				return ErrInsufficientStock
			}
			newStock -= req.Quantity
		}

		if err := s.warehouseRepo.UpdateMaterialStock(tx, material.ID, newStock, userID); err != nil {
			return err
		}

		req.CreatedBy = userID
		req.UpdatedBy = userID
		req.CreatedByUserID = &userID
		if err := s.warehouseRepo.CreateMovement(tx, req); err != nil {
			return err
		}

		// 3. Broadcast ke WebSocket
		go func() {
			payload := map[string]interface{}{
				"type":   "stock_update",
				"action": "material_movement",
				"movement": map[string]interface{}{
					"material_id": material.ID,
					"material":    material.Name,
					"movement":    req.Type,
					"quantity":    req.Quantity,
					"new_stock":   newStock,
				},
				"message": fmt.Sprintf("%s recorded %s of %.2f %s '%s'", userName, req.Type, req.Quantity, material.Unit, material.Name),
			}
			msg, _ := json.Marshal(payload)
			s.wsHub.Broadcast <- msg
		}()

		return nil
	})

	return err
}

func (s *warehouseService) GetMovements(limit int) ([]model.MaterialMovement, error) {
	return s.warehouseRepo.FindMovements(limit)
}

func (s *warehouseService) CreateFabric(req *model.Fabric, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.warehouseRepo.CreateFabric(req)
}

func fabricStatus(f *model.Fabric) FabricStatus {
	return FabricStatus{
		Fabric:          *f,
		UsedLength:      f.UsedLength(),
		RemainingLength: f.RemainingLength(),
		UsagePercentage: f.UsagePercentage(),
	}
}

func (s *warehouseService) GetFabrics(vendorID uuid.UUID) ([]FabricStatus, error) {
	fabrics, err := s.warehouseRepo.FindFabricsByVendor(vendorID)
	if err != nil {
		return nil, err
	}
	statuses := make([]FabricStatus, len(fabrics))
	for i := range fabrics {
		statuses[i] = fabricStatus(&fabrics[i])
	}
	return statuses, nil
}

// CutFabric takes a piece off the roll inside one transaction with the roll
// locked, so two concurrent cuts cannot both pass the remaining-length check.
// A cut longer than what remains is rejected and nothing is written.
func (s *warehouseService) CutFabric(fabricID uuid.UUID, lengthUsed float64, scope *uuid.UUID, purpose, userID string) (*FabricStatus, error) {
	if lengthUsed <= 0 {
		return nil, errors.New("length_used must be greater than zero")
	}

	var status FabricStatus

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var fabric model.Fabric
		if err := tx.Set("gorm:query_option", "FOR UPDATE").Preload("Cuts").First(&fabric, "id = ?", fabricID).Error; err != nil {
			return ErrFabricNotFound
		}
		if scope != nil && fabric.VendorID != *scope {
			return ErrVendorMismatch
		}

		if lengthUsed > fabric.RemainingLength() {
			return ErrCutExceedsRemaining
		}

		cut := &model.FabricCut{
			FabricID:   fabricID,
			LengthUsed: lengthUsed,
			Purpose:    purpose,
		}
		cut.CreatedBy = userID
		cut.UpdatedBy = userID
		if err := s.warehouseRepo.CreateFabricCut(tx, cut); err != nil {
			return err
		}

		fabric.Cuts = append(fabric.Cuts, *cut)
		status = fabricStatus(&fabric)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}
