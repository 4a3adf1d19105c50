package service

import (
	"encoding/json"
	"time"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
	"github.com/akramer2025-dev/brandstore-sub001/internal/ws"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/logger"

	"github.com/google/uuid"
)

// AlertRecencyWindow bounds which notifications count as "new" for the polling
// alert. Unread rows older than this never trigger a sound/visual alert, so a
// reload or reconnect that observes a stale backlog stays silent.
const AlertRecencyWindow = 60 * time.Second

// DefaultPollLimit caps how many notifications a poll response carries.
const DefaultPollLimit = 10

type NotificationService interface {
	Notify(vendorID uuid.UUID, ntype model.NotificationType, title, body string)
	Poll(vendorID uuid.UUID, lastCount int64) (*NotificationPollResponse, error)
	MarkAllRead(vendorID uuid.UUID) error
}

type NotificationPollResponse struct {
	UnreadCount   int64                `json:"unread_count"`
	Notifications []model.Notification `json:"notifications"`
	Alert         bool                 `json:"alert"`
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	wsHub            *ws.Hub
}

func NewNotificationService(nRepo repository.NotificationRepository, hub *ws.Hub) NotificationService {
	return &notificationService{
		notificationRepo: nRepo,
		wsHub:            hub,
	}
}

// Notify persists the notification and pushes it over the websocket hub.
// Delivery is best effort: a failed insert is logged, never surfaced to the
// operation that produced the event.
func (s *notificationService) Notify(vendorID uuid.UUID, ntype model.NotificationType, title, body string) {
	notification := &model.Notification{
		VendorID: vendorID,
		Type:     ntype,
		Title:    title,
		Body:     body,
	}
	notification.CreatedBy = "system"
	notification.UpdatedBy = "system"

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.LogError("notification", "Notify", "create", map[string]interface{}{
			"vendor_id": vendorID, "type": ntype,
		}, err)
		return
	}

	go func() {
		payload := map[string]interface{}{
			"type":         "notification",
			"notification": notification,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

// ShouldAlert decides whether a poll cycle fires an audible/visual alert.
// The count must have risen since the client's previous poll AND at least one
// unread notification must be genuinely recent. Both conditions together
// suppress replaying a stale backlog as "new".
func ShouldAlert(lastCount, unreadCount int64, unread []model.Notification, now time.Time) bool {
	if unreadCount <= lastCount {
		return false
	}
	for i := range unread {
		if now.Sub(unread[i].CreatedAt) <= AlertRecencyWindow {
			return true
		}
	}
	return false
}

func (s *notificationService) Poll(vendorID uuid.UUID, lastCount int64) (*NotificationPollResponse, error) {
	count, err := s.notificationRepo.CountUnread(vendorID)
	if err != nil {
		return nil, err
	}

	recent, err := s.notificationRepo.FindRecentByVendor(vendorID, DefaultPollLimit)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.FindUnreadByVendor(vendorID)
	if err != nil {
		return nil, err
	}

	return &NotificationPollResponse{
		UnreadCount:   count,
		Notifications: recent,
		Alert:         ShouldAlert(lastCount, count, unread, time.Now()),
	}, nil
}

func (s *notificationService) MarkAllRead(vendorID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(vendorID)
}
