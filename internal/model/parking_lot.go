package model

import "time"

// ParkingLot represents a campus parking location watched by the app.
// Lots are seeded once and rarely change; only the name may be corrected.
type ParkingLot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Code      string    `json:"code" gorm:"uniqueIndex;size:20;not null"` // short uppercase code, e.g. "ARC"
	Latitude  float64   `json:"latitude" gorm:"not null"`
	Longitude float64   `json:"longitude" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}
