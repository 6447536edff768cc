package model

import "time"

// VoteType is the credibility vote a device casts on a sighting
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Vote records one device's credibility vote on one sighting. The
// (device, sighting) pair is unique at the storage layer so concurrent
// casts can never produce duplicate rows.
type Vote struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DeviceID   uint      `json:"device_id" gorm:"not null;uniqueIndex:idx_device_sighting"`
	SightingID uint      `json:"sighting_id" gorm:"not null;uniqueIndex:idx_device_sighting;index"`
	VoteType   VoteType  `json:"vote_type" gorm:"size:10;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VoteTally holds aggregate up/down counts for one sighting.
type VoteTally struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// NetScore is upvotes minus downvotes.
func (t VoteTally) NetScore() int64 {
	return t.Upvotes - t.Downvotes
}
