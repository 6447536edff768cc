package service

import (
	"context"
	"log"
	"time"

	"github.com/warnabrotha/api/internal/repository"
)

// ReminderService runs the two background sweeps over parking sessions:
// the periodic checkout-reminder scan and the nightly auto-checkout
// safety net for devices that never explicitly check out.
type ReminderService struct {
	sessionRepo  *repository.SessionRepository
	notification *NotificationService
	threshold    time.Duration
}

func NewReminderService(sessionRepo *repository.SessionRepository, notification *NotificationService, threshold time.Duration) *ReminderService {
	return &ReminderService{
		sessionRepo:  sessionRepo,
		notification: notification,
		threshold:    threshold,
	}
}

// ScanDueReminders finds open sessions parked at least the threshold
// without a reminder and notifies each. A session checked in exactly at
// the boundary is due. Per-session failures are logged, not retried
// within this scan, and not counted: the reminder flag stays unset, so
// the next scheduled scan picks the session up again. Returns the
// number of reminders sent.
func (s *ReminderService) ScanDueReminders(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.threshold)
	sessions, err := s.sessionRepo.FindDueReminders(cutoff)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range sessions {
		session := &sessions[i]
		if err := s.notification.NotifyCheckoutDue(ctx, session, &session.Device, session.ParkingLot.Name); err != nil {
			log.Printf("❌ Checkout reminder failed for session %d: %v", session.ID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("⏰ Sent %d checkout reminder(s)", sent)
	}
	return sent, nil
}

// AutoCheckoutExpired force-closes every session still open at the end
// of the service day, regardless of reminder state. Returns the number
// of sessions closed.
func (s *ReminderService) AutoCheckoutExpired(now time.Time) (int64, error) {
	closed, err := s.sessionRepo.AutoCheckoutOpen(now)
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		log.Printf("🌙 Auto-checked-out %d session(s)", closed)
	}
	return closed, nil
}
