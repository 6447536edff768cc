package repository

import (
	"time"

	"github.com/warnabrotha/api/internal/model"
	"gorm.io/gorm"
)

// SessionRepository handles database operations for ParkingSession
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new parking session
func (r *SessionRepository) Create(session *model.ParkingSession) error {
	return r.db.Create(session).Error
}

// FindByID finds a session by primary key
func (r *SessionRepository) FindByID(id uint) (*model.ParkingSession, error) {
	var session model.ParkingSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindOpenByDevice returns the device's open session, if any
func (r *SessionRepository) FindOpenByDevice(deviceID uint) (*model.ParkingSession, error) {
	var session model.ParkingSession
	err := r.db.
		Where("device_id = ? AND checked_out_at IS NULL", deviceID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CheckOut closes a session at the given time
func (r *SessionRepository) CheckOut(id uint, at time.Time) error {
	return r.db.Model(&model.ParkingSession{}).
		Where("id = ?", id).
		Update("checked_out_at", at).Error
}

// FindActiveAtLot returns every open session at a lot with its device
// preloaded, so fan-out needs a single query instead of N+1 lookups.
func (r *SessionRepository) FindActiveAtLot(lotID uint) ([]model.ParkingSession, error) {
	var sessions []model.ParkingSession
	err := r.db.
		Preload("Device").
		Where("parking_lot_id = ? AND checked_out_at IS NULL", lotID).
		Find(&sessions).Error
	return sessions, err
}

// CountActiveAtLot counts open sessions at a lot
func (r *SessionRepository) CountActiveAtLot(lotID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ParkingSession{}).
		Where("parking_lot_id = ? AND checked_out_at IS NULL", lotID).
		Count(&count).Error
	return count, err
}

// FindDueReminders returns open sessions checked in at or before the
// cutoff that have not been reminded yet, with device and lot preloaded.
func (r *SessionRepository) FindDueReminders(cutoff time.Time) ([]model.ParkingSession, error) {
	var sessions []model.ParkingSession
	err := r.db.
		Preload("Device").
		Preload("ParkingLot").
		Where("checked_out_at IS NULL AND checked_in_at <= ? AND reminder_sent = ?", cutoff, false).
		Find(&sessions).Error
	return sessions, err
}

// AutoCheckoutOpen force-closes every open session at the given time,
// regardless of reminder state. Returns the number of sessions closed.
func (r *SessionRepository) AutoCheckoutOpen(at time.Time) (int64, error) {
	res := r.db.Model(&model.ParkingSession{}).
		Where("checked_out_at IS NULL").
		Update("checked_out_at", at)
	return res.RowsAffected, res.Error
}
