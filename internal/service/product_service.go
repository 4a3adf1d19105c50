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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSKUExists            = errors.New("SKU already exists")
	ErrProductNotFound      = errors.New("product not found")
	ErrInsufficientStock    = errors.New("insufficient stock remaining")
	ErrConsignmentNeedsInfo = errors.New("consignment product requires supplier and supplier cost")
	ErrVendorMismatch       = errors.New("resource belongs to another vendor")
)

// Id-addressed mutations take a scope: non-nil pins the operation to that
// vendor's rows (VENDOR sessions), nil skips the check (admin sessions).
type ProductService interface {
	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, scope *uuid.UUID, userID, userName string) (*model.Product, error)
	RecordSale(id uuid.UUID, quantity int, scope *uuid.UUID, userID, userName string) (*model.Product, error)
	SetVisibility(id uuid.UUID, visible bool, scope *uuid.UUID, userID string) error
	GetProducts(vendorID *uuid.UUID) ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	capitalRepo repository.CapitalRepository
	offlineRepo repository.OfflineRepository
	db          *gorm.DB
	wsHub       *ws.Hub
	notifier    NotificationService
}

func NewProductService(pRepo repository.ProductRepository, cRepo repository.CapitalRepository, oRepo repository.OfflineRepository, db *gorm.DB, hub *ws.Hub, notifier NotificationService) ProductService {
	return &productService{
		productRepo: pRepo,
		capitalRepo: cRepo,
		offlineRepo: oRepo,
		db:          db,
		wsHub:       hub,
		notifier:    notifier,
	}
}

// CreateProduct adds a catalog item. Owned stock is paid from vendor capital:
// the product row and the PURCHASE ledger row are written in one database
// transaction, so a failed deduction never leaves a half-created product.
func (s *productService) CreateProduct(req *model.Product, userID, userName string) error {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Cek Duplikasi SKU
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	// 3. Source-specific checks
	if req.Source == model.SourceConsignment {
		if req.OfflineSupplierID == nil || !req.SupplierCost.IsPositive() {
			return ErrConsignmentNeedsInfo
		}
		if _, err := s.offlineRepo.FindSupplierByID(*req.OfflineSupplierID); err != nil {
			return errors.New("offline supplier not found")
		}
	}

	// 4. Audit fields
	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID
	req.Visible = true

	// 5. Simpan ke Database
	if req.Source == model.SourceOwned && req.Stock > 0 {
		cost := req.PurchasePrice.Mul(decimal.NewFromInt(int64(req.Stock)))
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var vendor model.Vendor
			if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&vendor, "id = ?", req.VendorID).Error; err != nil {
				return ErrVendorNotFound
			}

			balance, err := s.capitalRepo.FoldBalance(tx, req.VendorID)
			if err != nil {
				return err
			}
			if cost.GreaterThan(balance) {
				return ErrInsufficientFunds
			}

			if err := s.productRepo.Create(tx, req); err != nil {
				return err
			}

			deduction := &model.CapitalTransaction{
				VendorID:        req.VendorID,
				Type:            model.CapitalPurchase,
				Amount:          cost,
				Note:            fmt.Sprintf("Stock purchase for '%s'", req.Name),
				ProductID:       &req.ID,
				CreatedByUserID: &userID,
			}
			deduction.CreatedBy = userID
			deduction.UpdatedBy = userID
			return s.capitalRepo.Create(tx, deduction)
		})
		if err != nil {
			return err
		}
	} else {
		if err := s.productRepo.Create(nil, req); err != nil {
			return err
		}
	}

	// 6. Broadcast ke WebSocket
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "product_created",
			"product": map[string]interface{}{
				"id":     req.ID,
				"sku":    req.SKU,
				"name":   req.Name,
				"source": req.Source,
				"stock":  req.Stock,
			},
			"message": fmt.Sprintf("%s created product '%s'", userName, req.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return nil
}

func (s *productService) UpdateProduct(id uuid.UUID, req *model.Product, scope *uuid.UUID, userID, userName string) (*model.Product, error) {
	var updatedProduct *model.Product

	// Gunakan Transaction Block dengan Locking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}
		if scope != nil && existing.VendorID != *scope {
			return ErrVendorMismatch
		}

		oldStock := existing.Stock

		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Unit = req.Unit
		existing.SellingPrice = req.SellingPrice
		existing.ImageURL = req.ImageURL
		existing.UpdatedBy = userID
		existing.UpdatedByUserID = &userID

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updatedProduct = &existing

		go func() {
			payload := map[string]interface{}{
				"type":   "stock_update",
				"action": "product_updated",
				"product": map[string]interface{}{
					"id":        existing.ID,
					"sku":       existing.SKU,
					"name":      existing.Name,
					"old_stock": oldStock,
					"new_stock": existing.Stock,
				},
				"message": fmt.Sprintf("%s updated product '%s'", userName, existing.Name),
			}
			msg, _ := json.Marshal(payload)
			s.wsHub.Broadcast <- msg
		}()

		return nil
	})

	if err != nil {
		return nil, err
	}

	return updatedProduct, nil
}

// RecordSale decrements stock and accrues sold quantity. Consignment sales
// grow the supplier's pending amount through the sold counter: pending is
// derived on read as supplier cost x units sold, so nothing else moves here.
func (s *productService) RecordSale(id uuid.UUID, quantity int, scope *uuid.UUID, userID, userName string) (*model.Product, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be greater than zero")
	}

	var sold *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}
		if scope != nil && product.VendorID != *scope {
			return ErrVendorMismatch
		}

		if product.Stock < quantity {
			return ErrInsufficientStock
		}

		product.Stock -= quantity
		product.SoldQuantity += quantity
		product.UpdatedBy = userID
		product.UpdatedByUserID = &userID

		if err := tx.Save(&product).Error; err != nil {
			return err
		}

		sold = &product
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "sale_recorded",
			"product": map[string]interface{}{
				"id":        sold.ID,
				"sku":       sold.SKU,
				"name":      sold.Name,
				"new_stock": sold.Stock,
			},
			"message": fmt.Sprintf("%s sold %d units of '%s'", userName, quantity, sold.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	s.notifier.Notify(sold.VendorID, model.NotifyGeneral, "Sale recorded",
		fmt.Sprintf("%d units of '%s' sold", quantity, sold.Name))

	return sold, nil
}

func (s *productService) SetVisibility(id uuid.UUID, visible bool, scope *uuid.UUID, userID string) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return ErrProductNotFound
	}
	if scope != nil && product.VendorID != *scope {
		return ErrVendorMismatch
	}
	return s.productRepo.SetVisibility(id, visible, userID)
}

func (s *productService) GetProducts(vendorID *uuid.UUID) ([]model.Product, error) {
	if vendorID != nil {
		return s.productRepo.FindByVendor(*vendorID)
	}
	return s.productRepo.FindAll()
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}
