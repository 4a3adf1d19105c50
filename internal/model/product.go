package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductSource string

const (
	SourceOwned       ProductSource = "OWNED"       // stock bought with vendor capital
	SourceConsignment ProductSource = "CONSIGNMENT" // supplied by a third party, paid after sale
)

type Product struct {
	BaseModel
	VendorID uuid.UUID     `gorm:"type:uuid;index;not null" json:"vendor_id" validate:"uuid_required"`
	Vendor   Vendor        `json:"-" validate:"-"`
	SKU      string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name     string        `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Source   ProductSource `gorm:"type:varchar(20);not null" json:"source" validate:"required,oneof=OWNED CONSIGNMENT"`
	Stock    int           `gorm:"default:0" json:"stock"`
	Unit     string        `gorm:"type:varchar(20)" json:"unit"`

	PurchasePrice decimal.Decimal `gorm:"type:numeric(18,2)" json:"purchase_price"`
	SellingPrice  decimal.Decimal `gorm:"type:numeric(18,2)" json:"selling_price"`

	// Consignment only: per-unit amount owed to the supplier on sale
	SupplierCost      decimal.Decimal `gorm:"type:numeric(18,2)" json:"supplier_cost"`
	OfflineSupplierID *uuid.UUID      `gorm:"type:uuid" json:"offline_supplier_id,omitempty"`

	SoldQuantity int    `gorm:"default:0" json:"sold_quantity"`
	Visible      bool   `gorm:"default:true" json:"visible"` // storefront visibility, soft removal
	ImageURL     string `gorm:"type:text" json:"image_url"`  // hosted image, set via the upload proxy

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}
