package model

import "time"

// ParkingSession is one continuous parked interval for a device at a lot.
// At most one open session (checked_out_at IS NULL) exists per device;
// the check-in flow rejects a second open session with a conflict.
type ParkingSession struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	DeviceID     uint       `json:"device_id" gorm:"not null;index"`
	ParkingLotID uint       `json:"parking_lot_id" gorm:"not null;index"`
	CheckedInAt  time.Time  `json:"checked_in_at" gorm:"not null"`
	CheckedOutAt *time.Time `json:"checked_out_at"` // NULL = still parked
	ReminderSent bool       `json:"reminder_sent" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`

	// Relations
	Device     Device     `json:"-" gorm:"belongsTo;foreignKey:DeviceID;references:ID"`
	ParkingLot ParkingLot `json:"-" gorm:"foreignKey:ParkingLotID"`
}

// IsActive reports whether the session is still open.
func (s *ParkingSession) IsActive() bool {
	return s.CheckedOutAt == nil
}
