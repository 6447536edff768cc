package model

import "time"

// ========== Auth DTOs ==========

type RegisterDeviceRequest struct {
	DeviceID  string  `json:"device_id" binding:"omitempty,min=8,max=255"`
	PushToken *string `json:"push_token"`
}

type TokenResponse struct {
	AccessToken   string `json:"access_token"`
	TokenType     string `json:"token_type"`
	ExpiresIn     int    `json:"expires_in"` // seconds
	DeviceID      string `json:"device_id"`
	EmailVerified bool   `json:"email_verified"`
}

type UpdateDeviceRequest struct {
	PushToken   *string `json:"push_token"`
	PushEnabled *bool   `json:"push_enabled"`
}

// ========== OTP DTOs ==========

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SendOTPResponse struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	ExpiresIn int    `json:"expires_in"` // seconds until code expires
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type VerifyOTPResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	EmailVerified bool   `json:"email_verified"`
	AccessToken   string `json:"access_token,omitempty"`
	TokenType     string `json:"token_type,omitempty"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// ========== Session DTOs ==========

type CheckInRequest struct {
	ParkingLotID uint `json:"parking_lot_id" binding:"required"`
}

type SessionResponse struct {
	ID             uint       `json:"id"`
	ParkingLotID   uint       `json:"parking_lot_id"`
	ParkingLotName string     `json:"parking_lot_name"`
	CheckedInAt    time.Time  `json:"checked_in_at"`
	CheckedOutAt   *time.Time `json:"checked_out_at"`
}

// ========== Sighting DTOs ==========

type ReportSightingRequest struct {
	ParkingLotID uint   `json:"parking_lot_id" binding:"required"`
	Notes        string `json:"notes" binding:"max=500"`
}

type SightingResponse struct {
	Sighting      TapsSighting `json:"sighting"`
	NotifiedCount int          `json:"notified_count"`
}

// ========== Vote DTOs ==========

type CastVoteRequest struct {
	VoteType VoteType `json:"vote_type" binding:"required,oneof=up down"`
}

// VoteAction describes what a cast did to the (device, sighting) pair.
type VoteAction string

const (
	VoteActionCreated VoteAction = "created"
	VoteActionUpdated VoteAction = "updated"
	VoteActionRemoved VoteAction = "removed"
)

type VoteResult struct {
	Success  bool       `json:"success"`
	Action   VoteAction `json:"action"`
	VoteType *VoteType  `json:"vote_type"` // nil after a toggle-off
}

type SightingVotesResponse struct {
	SightingID uint      `json:"sighting_id"`
	Upvotes    int64     `json:"upvotes"`
	Downvotes  int64     `json:"downvotes"`
	NetScore   int64     `json:"net_score"`
	UserVote   *VoteType `json:"user_vote"`
}

// ========== Feed DTOs ==========

type FeedSighting struct {
	ID             uint      `json:"id"`
	ParkingLotID   uint      `json:"parking_lot_id"`
	ParkingLotName string    `json:"parking_lot_name"`
	ParkingLotCode string    `json:"parking_lot_code"`
	ReportedAt     time.Time `json:"reported_at"`
	Notes          string    `json:"notes"`
	Upvotes        int64     `json:"upvotes"`
	Downvotes      int64     `json:"downvotes"`
	NetScore       int64     `json:"net_score"`
	UserVote       *VoteType `json:"user_vote"`
	MinutesAgo     int       `json:"minutes_ago"`
}

type FeedResponse struct {
	ParkingLotID   uint           `json:"parking_lot_id"`
	ParkingLotName string         `json:"parking_lot_name"`
	ParkingLotCode string         `json:"parking_lot_code"`
	Sightings      []FeedSighting `json:"sightings"`
	TotalSightings int            `json:"total_sightings"`
}

type AllFeedsResponse struct {
	Feeds          []FeedResponse `json:"feeds"`
	TotalSightings int            `json:"total_sightings"`
}

// ========== Prediction DTOs ==========

// RiskLevel is the coarse three-bucket enforcement likelihood.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

type PredictionRequest struct {
	ParkingLotID *uint      `json:"parking_lot_id"`
	Timestamp    *time.Time `json:"timestamp"`
}

type PredictionResponse struct {
	RiskLevel              RiskLevel  `json:"risk_level"`
	RiskMessage            string     `json:"risk_message"`
	LastSightingLotName    *string    `json:"last_sighting_lot_name"`
	LastSightingLotCode    *string    `json:"last_sighting_lot_code"`
	LastSightingAt         *time.Time `json:"last_sighting_at"`
	HoursSinceLastSighting *float64   `json:"hours_since_last_sighting"`
	ParkingLotID           *uint      `json:"parking_lot_id"`
	Probability            float64    `json:"probability"` // backward-compat mapping, not used to classify
	PredictedFor           time.Time  `json:"predicted_for"`
	Confidence             float64    `json:"confidence"`
}

// ========== Lot DTOs ==========

type ParkingLotWithStats struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Code            string  `json:"code"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	IsActive        bool    `json:"is_active"`
	ActiveParkers   int64   `json:"active_parkers"`
	RecentSightings int64   `json:"recent_sightings"`
	TapsProbability float64 `json:"taps_probability"`
}

// ========== Notification DTOs ==========

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
	TotalCount    int64          `json:"total_count"`
}

type MarkReadRequest struct {
	NotificationIDs []uint `json:"notification_ids" binding:"required,min=1"`
}

type MarkReadResponse struct {
	MarkedRead int64 `json:"marked_read"`
}

// ========== Error DTOs ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
