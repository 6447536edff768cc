package model

import "time"

// TapsSighting is a crowd-sourced report that enforcement is active at a
// lot. Immutable once created; feeds and risk predictions are pure read
// derivations over this table filtered by time window.
type TapsSighting struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ParkingLotID uint      `json:"parking_lot_id" gorm:"not null;index"`
	DeviceID     *uint     `json:"device_id" gorm:"index"` // NULL for ticket-scan-originated reports
	ReportedAt   time.Time `json:"reported_at" gorm:"not null;index"`
	Notes        string    `json:"notes" gorm:"size:500"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	ParkingLot ParkingLot `json:"-" gorm:"foreignKey:ParkingLotID"`
}
