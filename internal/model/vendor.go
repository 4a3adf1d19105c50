package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a seller account operating a store on the platform.
// Vendors are never hard-deleted, only deactivated.
type Vendor struct {
	BaseModel
	StoreName string `gorm:"type:varchar(255);not null" json:"store_name" validate:"required"`
	OwnerName string `gorm:"type:varchar(255)" json:"owner_name"`
	Phone     string `gorm:"type:varchar(20)" json:"phone"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	// Relasi
	Products            []Product            `json:"products,omitempty"`
	CapitalTransactions []CapitalTransaction `json:"capital_transactions,omitempty"`
	OfflineSuppliers    []OfflineSupplier    `json:"offline_suppliers,omitempty"`
	Notifications       []Notification       `json:"notifications,omitempty"`
}

type CapitalTransactionType string

const (
	CapitalDeposit    CapitalTransactionType = "DEPOSIT"
	CapitalWithdrawal CapitalTransactionType = "WITHDRAWAL"
	CapitalPurchase   CapitalTransactionType = "PURCHASE"
)

// CapitalTransaction is an append-only ledger row. The vendor's current
// balance is a fold over these rows; rows are never updated after create.
type CapitalTransaction struct {
	BaseModel
	VendorID uuid.UUID              `gorm:"type:uuid;index;not null" json:"vendor_id" validate:"uuid_required"`
	Vendor   Vendor                 `json:"-" validate:"-"`
	Type     CapitalTransactionType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL PURCHASE"`
	Amount   decimal.Decimal        `gorm:"type:numeric(18,2);not null" json:"amount"` // Always positive, sign comes from Type
	Note     string                 `json:"note"`

	// Set for PURCHASE deductions so the deduction can be traced to its product
	ProductID *uuid.UUID `gorm:"type:uuid" json:"product_id,omitempty"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

// Signed returns the row's contribution to the running balance:
// deposits positive, withdrawals and purchase deductions negative.
func (t *CapitalTransaction) Signed() decimal.Decimal {
	if t.Type == CapitalDeposit {
		return t.Amount
	}
	return t.Amount.Neg()
}
