package service

import (
	"errors"
	"fmt"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSupplierNotFound      = errors.New("supplier not found")
	ErrPaymentExceedsPending = errors.New("payment exceeds pending amount")
	ErrSaleExceedsQuantity   = errors.New("sold quantity exceeds available quantity")
)

type OfflineService interface {
	CreateSupplier(req *model.OfflineSupplier, userID string) error
	GetSuppliers(vendorID uuid.UUID) ([]SupplierSummary, error)
	PaySupplier(supplierID uuid.UUID, amount decimal.Decimal, scope *uuid.UUID, note, userID string) (*model.SupplierPayment, error)
	CreateOfflineProduct(req *model.OfflineProduct, userID string) error
	GetOfflineProducts(vendorID uuid.UUID) ([]model.OfflineProduct, error)
	RecordOfflineSale(productID uuid.UUID, quantity int, scope *uuid.UUID, userID string) (*model.OfflineProduct, error)
	GetReport(vendorID uuid.UUID) (*OfflineReport, error)
}

// SupplierSummary carries the derived ledger figures next to the supplier row.
type SupplierSummary struct {
	Supplier        model.OfflineSupplier `json:"supplier"`
	TotalPurchased  decimal.Decimal       `json:"total_purchased"`
	ConsignmentOwed decimal.Decimal       `json:"consignment_owed"` // catalog consignment sales, per unit sold
	TotalPaid       decimal.Decimal       `json:"total_paid"`
	PendingAmount   decimal.Decimal       `json:"pending_amount"`
}

type OfflineReportItem struct {
	Product         model.OfflineProduct `json:"product"`
	RealizedProfit  decimal.Decimal      `json:"realized_profit"`  // (selling - purchase) x sold
	ExpectedRevenue decimal.Decimal      `json:"expected_revenue"` // selling x remaining
}

type ConsignmentSaleItem struct {
	Product        model.Product   `json:"product"`
	RealizedProfit decimal.Decimal `json:"realized_profit"` // (selling - supplier cost) x sold
	SupplierOwed   decimal.Decimal `json:"supplier_owed"`   // supplier cost x sold
}

type OfflineReport struct {
	Items                []OfflineReportItem   `json:"items"`
	ConsignmentItems     []ConsignmentSaleItem `json:"consignment_items"`
	TotalRealizedProfit  decimal.Decimal       `json:"total_realized_profit"`
	TotalExpectedRevenue decimal.Decimal       `json:"total_expected_revenue"`
	TotalPendingPayments decimal.Decimal       `json:"total_pending_payments"`
}

type offlineService struct {
	offlineRepo repository.OfflineRepository
	vendorRepo  repository.VendorRepository
	db          *gorm.DB
	notifier    NotificationService
}

func NewOfflineService(oRepo repository.OfflineRepository, vRepo repository.VendorRepository, db *gorm.DB, notifier NotificationService) OfflineService {
	return &offlineService{
		offlineRepo: oRepo,
		vendorRepo:  vRepo,
		db:          db,
		notifier:    notifier,
	}
}

func (s *offlineService) CreateSupplier(req *model.OfflineSupplier, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if _, err := s.vendorRepo.FindByID(req.VendorID); err != nil {
		return ErrVendorNotFound
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.offlineRepo.CreateSupplier(req)
}

// pendingAmount derives the supplier's outstanding balance inside tx: the
// purchase cost of all goods received, plus what catalog consignment sales
// owe per unit sold, minus total paid.
func (s *offlineService) pendingAmount(tx *gorm.DB, supplierID uuid.UUID) (decimal.Decimal, error) {
	products, err := s.offlineRepo.FindProductsBySupplier(tx, supplierID)
	if err != nil {
		return decimal.Zero, err
	}
	owed := decimal.Zero
	for i := range products {
		p := &products[i]
		owed = owed.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	consigned, err := s.offlineRepo.FindConsignmentProductsBySupplier(tx, supplierID)
	if err != nil {
		return decimal.Zero, err
	}
	for i := range consigned {
		p := &consigned[i]
		owed = owed.Add(p.SupplierCost.Mul(decimal.NewFromInt(int64(p.SoldQuantity))))
	}

	paid, err := s.offlineRepo.SumPayments(tx, supplierID)
	if err != nil {
		return decimal.Zero, err
	}
	return owed.Sub(paid), nil
}

func (s *offlineService) GetSuppliers(vendorID uuid.UUID) ([]SupplierSummary, error) {
	suppliers, err := s.offlineRepo.FindSuppliersByVendor(vendorID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SupplierSummary, len(suppliers))
	for i := range suppliers {
		supplier := suppliers[i]
		purchased := decimal.Zero
		for j := range supplier.Products {
			p := &supplier.Products[j]
			purchased = purchased.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
		}
		paid := decimal.Zero
		for j := range supplier.Payments {
			paid = paid.Add(supplier.Payments[j].Amount)
		}

		consigned, err := s.offlineRepo.FindConsignmentProductsBySupplier(nil, supplier.ID)
		if err != nil {
			return nil, err
		}
		consignmentOwed := decimal.Zero
		for j := range consigned {
			p := &consigned[j]
			consignmentOwed = consignmentOwed.Add(p.SupplierCost.Mul(decimal.NewFromInt(int64(p.SoldQuantity))))
		}

		summaries[i] = SupplierSummary{
			Supplier:        supplier,
			TotalPurchased:  purchased,
			ConsignmentOwed: consignmentOwed,
			TotalPaid:       paid,
			PendingAmount:   purchased.Add(consignmentOwed).Sub(paid),
		}
	}
	return summaries, nil
}

// PaySupplier rejects any payment above the outstanding balance, so the
// pending amount can never go negative. A non-nil scope pins the operation to
// that vendor's suppliers.
func (s *offlineService) PaySupplier(supplierID uuid.UUID, amount decimal.Decimal, scope *uuid.UUID, note, userID string) (*model.SupplierPayment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	payment := &model.SupplierPayment{
		OfflineSupplierID: supplierID,
		Amount:            amount,
		Note:              note,
		CreatedByUserID:   &userID,
	}
	payment.CreatedBy = userID
	payment.UpdatedBy = userID

	var vendorID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var supplier model.OfflineSupplier
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&supplier, "id = ?", supplierID).Error; err != nil {
			return ErrSupplierNotFound
		}
		if scope != nil && supplier.VendorID != *scope {
			return ErrVendorMismatch
		}
		vendorID = supplier.VendorID

		pending, err := s.pendingAmount(tx, supplierID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(pending) {
			return ErrPaymentExceedsPending
		}

		return s.offlineRepo.CreatePayment(tx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(vendorID, model.NotifyOffline, "Supplier payment",
		fmt.Sprintf("Paid %s to supplier", amount.StringFixed(2)))

	return payment, nil
}

func (s *offlineService) CreateOfflineProduct(req *model.OfflineProduct, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	supplier, err := s.offlineRepo.FindSupplierByID(req.OfflineSupplierID)
	if err != nil {
		return ErrSupplierNotFound
	}
	if supplier.VendorID != req.VendorID {
		return errors.New("supplier belongs to another vendor")
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.offlineRepo.CreateProduct(req)
}

func (s *offlineService) GetOfflineProducts(vendorID uuid.UUID) ([]model.OfflineProduct, error) {
	return s.offlineRepo.FindProductsByVendor(vendorID)
}

func (s *offlineService) RecordOfflineSale(productID uuid.UUID, quantity int, scope *uuid.UUID, userID string) (*model.OfflineProduct, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be greater than zero")
	}

	var sold *model.OfflineProduct

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.OfflineProduct
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", productID).Error; err != nil {
			return ErrProductNotFound
		}
		if scope != nil && product.VendorID != *scope {
			return ErrVendorMismatch
		}

		if product.SoldQuantity+quantity > product.Quantity {
			return ErrSaleExceedsQuantity
		}

		product.SoldQuantity += quantity
		if err := s.offlineRepo.UpdateSoldQuantity(tx, product.ID, product.SoldQuantity); err != nil {
			return err
		}

		sold = &product
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sold, nil
}

// GetReport recomputes consignment profit on every read: realized profit for
// the sold quantity, expected revenue for the remainder. Not an incremental
// index.
func (s *offlineService) GetReport(vendorID uuid.UUID) (*OfflineReport, error) {
	products, err := s.offlineRepo.FindProductsByVendor(vendorID)
	if err != nil {
		return nil, err
	}

	report := &OfflineReport{
		Items:                make([]OfflineReportItem, 0, len(products)),
		TotalRealizedProfit:  decimal.Zero,
		TotalExpectedRevenue: decimal.Zero,
	}

	for i := range products {
		p := products[i]
		realized := p.SellingPrice.Sub(p.PurchasePrice).Mul(decimal.NewFromInt(int64(p.SoldQuantity)))
		expected := p.SellingPrice.Mul(decimal.NewFromInt(int64(p.RemainingQuantity())))
		report.Items = append(report.Items, OfflineReportItem{
			Product:         p,
			RealizedProfit:  realized,
			ExpectedRevenue: expected,
		})
		report.TotalRealizedProfit = report.TotalRealizedProfit.Add(realized)
		report.TotalExpectedRevenue = report.TotalExpectedRevenue.Add(expected)
	}

	// Catalog consignment sales: profit above the supplier's cut
	consigned, err := s.offlineRepo.FindConsignmentProductsByVendor(vendorID)
	if err != nil {
		return nil, err
	}
	for i := range consigned {
		p := consigned[i]
		sold := decimal.NewFromInt(int64(p.SoldQuantity))
		realized := p.SellingPrice.Sub(p.SupplierCost).Mul(sold)
		report.ConsignmentItems = append(report.ConsignmentItems, ConsignmentSaleItem{
			Product:        p,
			RealizedProfit: realized,
			SupplierOwed:   p.SupplierCost.Mul(sold),
		})
		report.TotalRealizedProfit = report.TotalRealizedProfit.Add(realized)
	}

	pending, err := s.offlineRepo.SumPendingByVendor(vendorID)
	if err != nil {
		return nil, err
	}
	report.TotalPendingPayments = pending

	return report, nil
}
