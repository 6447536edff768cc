package repository

import (
	"time"

	"github.com/warnabrotha/api/internal/model"
	"gorm.io/gorm"
)

// OTPRepository handles database operations for EmailOTP
type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Create inserts a new OTP record
func (r *OTPRepository) Create(otp *model.EmailOTP) error {
	return r.db.Create(otp).Error
}

// Save persists mutated OTP state (attempt counter, verified_at)
func (r *OTPRepository) Save(otp *model.EmailOTP) error {
	return r.db.Save(otp).Error
}

// CountPendingForDevice counts unexpired, unverified codes held by a
// device. Computed live per issuance request; there is no counter state
// to keep consistent.
func (r *OTPRepository) CountPendingForDevice(deviceID uint, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.EmailOTP{}).
		Where("device_id = ? AND expires_at > ? AND verified_at IS NULL", deviceID, now).
		Count(&count).Error
	return count, err
}

// CountForEmailSince counts codes sent to an email address since the
// given time (trailing-hour issuance guard).
func (r *OTPRepository) CountForEmailSince(email string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.EmailOTP{}).
		Where("email = ? AND created_at > ?", email, since).
		Count(&count).Error
	return count, err
}

// FindPending returns the most recent unverified code for a
// device+email pair. Expiry is not filtered here: the verification flow
// wants to tell an expired code apart from a missing one.
func (r *OTPRepository) FindPending(deviceID uint, email string) (*model.EmailOTP, error) {
	var otp model.EmailOTP
	err := r.db.
		Where("device_id = ? AND email = ? AND verified_at IS NULL", deviceID, email).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// DeleteAllForDevice purges every OTP row for a device. Called after a
// successful verification; bounds table growth, not required for
// correctness.
func (r *OTPRepository) DeleteAllForDevice(deviceID uint) error {
	return r.db.Where("device_id = ?", deviceID).Delete(&model.EmailOTP{}).Error
}
