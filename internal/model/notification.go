package model

import "time"

// NotificationType identifies why a notification was created
type NotificationType string

const (
	NotificationTapsSpotted      NotificationType = "taps_spotted"
	NotificationCheckoutReminder NotificationType = "checkout_reminder"
)

// Notification is the persisted in-app delivery record. It is the
// reliable path: push delivery layered on top is best-effort and its
// failure never removes or blocks this row.
type Notification struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	DeviceID     uint             `json:"device_id" gorm:"not null;index"`
	Type         NotificationType `json:"type" gorm:"size:30;not null"`
	Title        string           `json:"title" gorm:"size:100;not null"`
	Message      string           `json:"message" gorm:"size:500;not null"`
	ParkingLotID *uint            `json:"parking_lot_id"`
	ReadAt       *time.Time       `json:"read_at"` // NULL = unread
	CreatedAt    time.Time        `json:"created_at"`
}

// IsRead reports whether the notification has been seen.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
