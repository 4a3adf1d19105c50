package repository

import (
	"github.com/akramer2025-dev/brandstore-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindRecentByVendor(vendorID uuid.UUID, limit int) ([]model.Notification, error)
	FindUnreadByVendor(vendorID uuid.UUID) ([]model.Notification, error)
	CountUnread(vendorID uuid.UUID) (int64, error)
	MarkAllRead(vendorID uuid.UUID) error
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db}
}

func (r *notificationRepo) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepo) FindRecentByVendor(vendorID uuid.UUID, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	q := r.db.Where("vendor_id = ?", vendorID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) FindUnreadByVendor(vendorID uuid.UUID) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Where("vendor_id = ? AND read = ?", vendorID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) CountUnread(vendorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("vendor_id = ? AND read = ?", vendorID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepo) MarkAllRead(vendorID uuid.UUID) error {
	return r.db.Model(&model.Notification{}).
		Where("vendor_id = ? AND read = ?", vendorID, false).
		Update("read", true).Error
}
