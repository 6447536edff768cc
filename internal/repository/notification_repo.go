package repository

import (
	"time"

	"github.com/warnabrotha/api/internal/model"
	"gorm.io/gorm"
)

// NotificationRepository handles database operations for Notification
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new in-app notification
func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

// CreateWithReminderFlag persists a checkout-reminder notification and
// sets the session's reminder_sent flag in one transaction, so a
// retried scan can never double-notify the same session.
func (r *NotificationRepository) CreateWithReminderFlag(n *model.Notification, sessionID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		return tx.Model(&model.ParkingSession{}).
			Where("id = ?", sessionID).
			Update("reminder_sent", true).Error
	})
}

// ListByDevice returns notifications for a device, newest first
func (r *NotificationRepository) ListByDevice(deviceID uint, limit, offset int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.
		Where("device_id = ?", deviceID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

// CountByDevice returns (total, unread) counts for a device
func (r *NotificationRepository) CountByDevice(deviceID uint) (total, unread int64, err error) {
	err = r.db.Model(&model.Notification{}).
		Where("device_id = ?", deviceID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&model.Notification{}).
		Where("device_id = ? AND read_at IS NULL", deviceID).
		Count(&unread).Error
	return total, unread, err
}

// MarkRead sets read_at on the given notifications, scoped to the
// owning device so one device cannot mark another's as read. Returns
// how many rows changed.
func (r *NotificationRepository) MarkRead(deviceID uint, ids []uint, at time.Time) (int64, error) {
	res := r.db.Model(&model.Notification{}).
		Where("id IN ? AND device_id = ? AND read_at IS NULL", ids, deviceID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
