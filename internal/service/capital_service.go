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
	ErrInsufficientFunds = errors.New("insufficient capital balance")
	ErrVendorNotFound    = errors.New("vendor not found")
	ErrVendorInactive    = errors.New("vendor account is deactivated")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
)

type CapitalService interface {
	GetLedger(vendorID uuid.UUID) (*CapitalLedgerResponse, error)
	Deposit(vendorID uuid.UUID, amount decimal.Decimal, note, userID string) (*model.CapitalTransaction, error)
	Withdraw(vendorID uuid.UUID, amount decimal.Decimal, note, userID string) (*model.CapitalTransaction, error)
}

type CapitalLedgerResponse struct {
	Balance      decimal.Decimal            `json:"balance"`
	Transactions []model.CapitalTransaction `json:"transactions"`
}

type capitalService struct {
	capitalRepo repository.CapitalRepository
	vendorRepo  repository.VendorRepository
	db          *gorm.DB
	notifier    NotificationService
}

func NewCapitalService(capitalRepo repository.CapitalRepository, vendorRepo repository.VendorRepository, db *gorm.DB, notifier NotificationService) CapitalService {
	return &capitalService{
		capitalRepo: capitalRepo,
		vendorRepo:  vendorRepo,
		db:          db,
		notifier:    notifier,
	}
}

func (s *capitalService) GetLedger(vendorID uuid.UUID) (*CapitalLedgerResponse, error) {
	if _, err := s.vendorRepo.FindByID(vendorID); err != nil {
		return nil, ErrVendorNotFound
	}

	balance, err := s.capitalRepo.FoldBalance(nil, vendorID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.capitalRepo.FindByVendor(vendorID)
	if err != nil {
		return nil, err
	}

	return &CapitalLedgerResponse{Balance: balance, Transactions: transactions}, nil
}

func (s *capitalService) Deposit(vendorID uuid.UUID, amount decimal.Decimal, note, userID string) (*model.CapitalTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	vendor, err := s.vendorRepo.FindByID(vendorID)
	if err != nil {
		return nil, ErrVendorNotFound
	}
	if !vendor.IsActive {
		return nil, ErrVendorInactive
	}

	record := &model.CapitalTransaction{
		VendorID:        vendorID,
		Type:            model.CapitalDeposit,
		Amount:          amount,
		Note:            note,
		CreatedByUserID: &userID,
	}
	record.CreatedBy = userID
	record.UpdatedBy = userID

	if err := s.capitalRepo.Create(nil, record); err != nil {
		return nil, err
	}

	s.notifier.Notify(vendorID, model.NotifyCapital, "Capital deposit",
		fmt.Sprintf("Deposit of %s recorded", amount.StringFixed(2)))

	return record, nil
}

func (s *capitalService) Withdraw(vendorID uuid.UUID, amount decimal.Decimal, note, userID string) (*model.CapitalTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	vendor, err := s.vendorRepo.FindByID(vendorID)
	if err != nil {
		return nil, ErrVendorNotFound
	}
	if !vendor.IsActive {
		return nil, ErrVendorInactive
	}

	record := &model.CapitalTransaction{
		VendorID:        vendorID,
		Type:            model.CapitalWithdrawal,
		Amount:          amount,
		Note:            note,
		CreatedByUserID: &userID,
	}
	record.CreatedBy = userID
	record.UpdatedBy = userID

	// Gunakan Transaction Block: balance check and the ledger row must be atomic
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var locked model.Vendor
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&locked, "id = ?", vendorID).Error; err != nil {
			return ErrVendorNotFound
		}

		balance, err := s.capitalRepo.FoldBalance(tx, vendorID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(balance) {
			return ErrInsufficientFunds
		}

		return s.capitalRepo.Create(tx, record)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(vendorID, model.NotifyCapital, "Capital withdrawal",
		fmt.Sprintf("Withdrawal of %s recorded", amount.StringFixed(2)))

	return record, nil
}
