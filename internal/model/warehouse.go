package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawMaterial is warehouse inventory consumed by production orders.
type RawMaterial struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit         string          `gorm:"type:varchar(20)" json:"unit"`
	Stock        float64         `gorm:"default:0" json:"stock"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(18,2)" json:"unit_price"`
	MinThreshold float64         `gorm:"default:0" json:"min_threshold"` // low-stock alert below this

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// MaterialMovement is the warehouse stock ledger. Every manual adjustment and
// every production consumption leaves a row here.
type MaterialMovement struct {
	BaseModel
	MaterialID uuid.UUID    `gorm:"type:uuid;index;not null" json:"material_id" validate:"uuid_required"`
	Material   RawMaterial  `json:"material" validate:"-"`
	Type       MovementType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity   float64      `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Note       string       `json:"note"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

// Fabric is a roll tracked by length; pieces are cut off until it runs out.
type Fabric struct {
	BaseModel
	VendorID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"vendor_id" validate:"uuid_required"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Color       string      `gorm:"type:varchar(50)" json:"color"`
	TotalLength float64     `gorm:"not null" json:"total_length" validate:"required,gt=0"`
	Cuts        []FabricCut `json:"cuts,omitempty"`
}

type FabricCut struct {
	BaseModel
	FabricID   uuid.UUID `gorm:"type:uuid;index;not null" json:"fabric_id" validate:"uuid_required"`
	LengthUsed float64   `gorm:"not null" json:"length_used" validate:"required,gt=0"`
	Purpose    string    `json:"purpose"`
}

// UsedLength sums all cuts taken from the roll.
func (f *Fabric) UsedLength() float64 {
	var used float64
	for _, c := range f.Cuts {
		used += c.LengthUsed
	}
	return used
}

func (f *Fabric) RemainingLength() float64 {
	return f.TotalLength - f.UsedLength()
}

func (f *Fabric) UsagePercentage() float64 {
	if f.TotalLength == 0 {
		return 0
	}
	return f.UsedLength() / f.TotalLength * 100
}

// Production converts raw materials into finished product stock.
// TotalCost = sum(material unit price * quantity used) + labor + overhead.
type Production struct {
	BaseModel
	ProductID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"product_id" validate:"uuid_required"`
	Product      Product         `json:"product" validate:"-"`
	Quantity     int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	LaborCost    decimal.Decimal `gorm:"type:numeric(18,2)" json:"labor_cost"`
	OverheadCost decimal.Decimal `gorm:"type:numeric(18,2)" json:"overhead_cost"`
	TotalCost    decimal.Decimal `gorm:"type:numeric(18,2)" json:"total_cost"`
	CostPerUnit  decimal.Decimal `gorm:"type:numeric(18,4)" json:"cost_per_unit"`

	Materials []ProductionMaterial `json:"materials,omitempty"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

// ProductionMaterial joins a production to a consumed material, recording the
// quantity used and the cost snapshot at completion time.
type ProductionMaterial struct {
	BaseModel
	ProductionID uuid.UUID       `gorm:"type:uuid;index;not null" json:"production_id"`
	MaterialID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"material_id"`
	Material     RawMaterial     `json:"material" validate:"-"`
	QuantityUsed float64         `gorm:"not null" json:"quantity_used"`
	Cost         decimal.Decimal `gorm:"type:numeric(18,2)" json:"cost"`
}
