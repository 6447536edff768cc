package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"github.com/warnabrotha/api/pkg/push"
)

// NotificationService is the fan-out engine: it resolves a triggering
// event to its target device set, persists one in-app notification per
// target (the reliable path), and layers best-effort push on top.
// Push runs only after the notification row is committed and its
// failure is absorbed; the end user still sees the in-app entry.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	sessionRepo      *repository.SessionRepository
	registry         *push.Registry
	now              func() time.Time
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	sessionRepo *repository.SessionRepository,
	registry *push.Registry,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		sessionRepo:      sessionRepo,
		registry:         registry,
		now:              time.Now,
	}
}

// NotifyLotSighting alerts every device with an open session at the lot
// that enforcement was spotted there. One query resolves the target set
// with devices preloaded. Each target is independent: a persistence
// failure for one is logged and skipped, never aborting the rest.
// Returns the number of in-app notifications created, regardless of
// push outcomes.
func (s *NotificationService) NotifyLotSighting(ctx context.Context, lotID uint, lotName, lotCode string) (int, error) {
	sessions, err := s.sessionRepo.FindActiveAtLot(lotID)
	if err != nil {
		return 0, err
	}

	title := "⚠️ TAPS Alert!"
	message := fmt.Sprintf("TAPS spotted at %s! Tap to pay for parking.", lotName)

	notified := 0
	for _, session := range sessions {
		device := session.Device

		n := &model.Notification{
			DeviceID:     device.ID,
			Type:         model.NotificationTapsSpotted,
			Title:        title,
			Message:      message,
			ParkingLotID: &lotID,
		}
		if err := s.notificationRepo.Create(n); err != nil {
			log.Printf("❌ Failed to create sighting alert for device %d: %v", device.ID, err)
			continue
		}
		notified++

		if device.CanReceivePush() {
			s.registry.Send(ctx, *device.PushToken, title, message, map[string]string{
				"type":             string(model.NotificationTapsSpotted),
				"parking_lot_id":   strconv.FormatUint(uint64(lotID), 10),
				"parking_lot_name": lotName,
				"parking_lot_code": lotCode,
			})
		}
	}

	return notified, nil
}

// NotifyCheckoutDue sends the single-target checkout reminder used by
// the reminder scanner. The notification row and the session's
// reminder_sent flag are written in one transaction, so a retried scan
// cannot double-notify; push is attempted only after that commit.
func (s *NotificationService) NotifyCheckoutDue(ctx context.Context, session *model.ParkingSession, device *model.Device, lotName string) error {
	title := "🚗 Still parked?"
	message := fmt.Sprintf("You've been parked at %s for 3 hours. Don't forget to check out when you leave!", lotName)

	n := &model.Notification{
		DeviceID:     device.ID,
		Type:         model.NotificationCheckoutReminder,
		Title:        title,
		Message:      message,
		ParkingLotID: &session.ParkingLotID,
	}
	if err := s.notificationRepo.CreateWithReminderFlag(n, session.ID); err != nil {
		return err
	}

	if device.CanReceivePush() {
		s.registry.Send(ctx, *device.PushToken, title, message, map[string]string{
			"type":           string(model.NotificationCheckoutReminder),
			"parking_lot_id": strconv.FormatUint(uint64(session.ParkingLotID), 10),
			"session_id":     strconv.FormatUint(uint64(session.ID), 10),
		})
	}
	return nil
}

// List returns a page of the device's notifications with unread/total
// counts.
func (s *NotificationService) List(deviceID uint, limit, offset int) (*model.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.ListByDevice(deviceID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, unread, err := s.notificationRepo.CountByDevice(deviceID)
	if err != nil {
		return nil, err
	}
	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		TotalCount:    total,
	}, nil
}

// MarkRead sets read_at on the device's own notifications and returns
// how many changed.
func (s *NotificationService) MarkRead(deviceID uint, ids []uint) (int64, error) {
	return s.notificationRepo.MarkRead(deviceID, ids, s.now())
}
