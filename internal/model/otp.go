package model

import "time"

// EmailOTP represents a one-time password sent to verify a device's
// campus email. Codes live 10 minutes and allow 5 verification attempts;
// past either bound a fresh code must be requested.
type EmailOTP struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	DeviceID   uint       `json:"device_id" gorm:"not null;index"`
	Email      string     `json:"email" gorm:"size:255;not null;index"`
	CodeHash   string     `json:"-" gorm:"size:255;not null"` // bcrypt of the 6-digit code
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	VerifiedAt *time.Time `json:"verified_at"` // NULL = not yet verified
	Attempts   int        `json:"attempts" gorm:"default:0"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsExpired checks if the code has passed its expiry time.
func (o *EmailOTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// IsVerified checks if the code has already been consumed.
func (o *EmailOTP) IsVerified() bool {
	return o.VerifiedAt != nil
}

// IsPending checks if the code can still be attempted.
func (o *EmailOTP) IsPending(now time.Time) bool {
	return !o.IsExpired(now) && !o.IsVerified()
}
