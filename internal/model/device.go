package model

import "time"

// Device represents a registered phone identified by an opaque
// client-generated identifier. Registration is idempotent: the same
// external identifier always resolves to the same row.
type Device struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	DeviceID      string    `json:"device_id" gorm:"uniqueIndex;size:255;not null"` // external stable identifier
	Email         *string   `json:"email" gorm:"size:255"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	PushToken     *string   `json:"-" gorm:"size:512"` // APNs or FCM token, transport inferred from shape
	PushEnabled   bool      `json:"push_enabled" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanReceivePush reports whether a push delivery attempt makes sense.
func (d *Device) CanReceivePush() bool {
	return d.PushEnabled && d.PushToken != nil && *d.PushToken != ""
}
