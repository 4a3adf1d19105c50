package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfflineSupplier is a consignment supplier tracked in the manual bookkeeping
// flow. Pending amount = total purchase cost of goods received - total paid,
// always recomputed on read and never allowed to go negative.
type OfflineSupplier struct {
	BaseModel
	VendorID uuid.UUID `gorm:"type:uuid;index;not null" json:"vendor_id" validate:"uuid_required"`
	Vendor   Vendor    `json:"-" validate:"-"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone    string    `gorm:"type:varchar(20)" json:"phone"`

	Products []OfflineProduct  `json:"products,omitempty"`
	Payments []SupplierPayment `json:"payments,omitempty"`
}

// OfflineProduct records goods acquired and sold outside the catalog flow.
type OfflineProduct struct {
	BaseModel
	VendorID          uuid.UUID       `gorm:"type:uuid;index;not null" json:"vendor_id" validate:"uuid_required"`
	OfflineSupplierID uuid.UUID       `gorm:"type:uuid;index;not null" json:"offline_supplier_id" validate:"uuid_required"`
	OfflineSupplier   OfflineSupplier `json:"-" validate:"-"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PurchasePrice     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"purchase_price"`
	SellingPrice      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"selling_price"`
	Quantity          int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	SoldQuantity      int             `gorm:"default:0" json:"sold_quantity"`
}

// RemainingQuantity is the unsold portion reported as expected revenue.
func (p *OfflineProduct) RemainingQuantity() int {
	return p.Quantity - p.SoldQuantity
}

// SupplierPayment is an append-only payment toward a supplier's pending amount.
type SupplierPayment struct {
	BaseModel
	OfflineSupplierID uuid.UUID       `gorm:"type:uuid;index;not null" json:"offline_supplier_id" validate:"uuid_required"`
	Amount            decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Note              string          `json:"note"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
