package repository

import (
	"github.com/warnabrotha/api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceRepository handles database operations for Device
type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// GetOrCreate resolves an external device identifier to its row,
// creating one on first registration. Idempotent under concurrent
// registration: the unique index on device_id makes the losing insert
// fall back to a lookup.
func (r *DeviceRepository) GetOrCreate(deviceID string, pushToken *string) (*model.Device, error) {
	device := model.Device{
		DeviceID:    deviceID,
		PushToken:   pushToken,
		PushEnabled: true,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoNothing: true,
	}).Create(&device).Error
	if err != nil {
		return nil, err
	}

	// Re-read so a pre-existing row (conflict path) is returned with its
	// real state instead of the zero-valued insert attempt.
	var out model.Device
	if err := r.db.Where("device_id = ?", deviceID).First(&out).Error; err != nil {
		return nil, err
	}

	// Registration may carry a fresher push token.
	if pushToken != nil && (out.PushToken == nil || *out.PushToken != *pushToken) {
		if err := r.db.Model(&out).Update("push_token", pushToken).Error; err != nil {
			return nil, err
		}
		out.PushToken = pushToken
	}
	return &out, nil
}

// FindByID finds a device by primary key
func (r *DeviceRepository) FindByID(id uint) (*model.Device, error) {
	var device model.Device
	if err := r.db.First(&device, id).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

// FindByDeviceID finds a device by its external identifier
func (r *DeviceRepository) FindByDeviceID(deviceID string) (*model.Device, error) {
	var device model.Device
	if err := r.db.Where("device_id = ?", deviceID).First(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

// UpdatePush updates the push token and/or the push-enabled flag
func (r *DeviceRepository) UpdatePush(id uint, pushToken *string, pushEnabled *bool) error {
	updates := map[string]interface{}{}
	if pushToken != nil {
		updates["push_token"] = *pushToken
	}
	if pushEnabled != nil {
		updates["push_enabled"] = *pushEnabled
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&model.Device{}).Where("id = ?", id).Updates(updates).Error
}

// MarkEmailVerified records a completed email verification
func (r *DeviceRepository) MarkEmailVerified(id uint, email string) error {
	return r.db.Model(&model.Device{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email":          email,
			"email_verified": true,
		}).Error
}

// Delete removes a device row. Normal flows never delete devices; this
// exists for auth revocation, after which the device's tokens stop
// resolving.
func (r *DeviceRepository) Delete(id uint) error {
	return r.db.Delete(&model.Device{}, id).Error
}
