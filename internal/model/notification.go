package model

import "github.com/google/uuid"

type NotificationType string

const (
	NotifyLowStock   NotificationType = "LOW_STOCK"
	NotifyCapital    NotificationType = "CAPITAL"
	NotifyProduction NotificationType = "PRODUCTION"
	NotifyOffline    NotificationType = "OFFLINE"
	NotifyGeneral    NotificationType = "GENERAL"
)

// Notification is a per-vendor message with read/unread state. Clients poll
// for the unread count; the alert heuristic lives in the notification service.
type Notification struct {
	BaseModel
	VendorID uuid.UUID        `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Type     NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title    string           `gorm:"type:varchar(255);not null" json:"title"`
	Body     string           `json:"body"`
	Read     bool             `gorm:"default:false;index" json:"read"`
}
