package repository

import (
	"time"

	"github.com/warnabrotha/api/internal/model"
	"gorm.io/gorm"
)

// SightingRepository handles database operations for TapsSighting
type SightingRepository struct {
	db *gorm.DB
}

func NewSightingRepository(db *gorm.DB) *SightingRepository {
	return &SightingRepository{db: db}
}

// Create inserts a new sighting
func (r *SightingRepository) Create(sighting *model.TapsSighting) error {
	return r.db.Create(sighting).Error
}

// FindByID finds a sighting by primary key
func (r *SightingRepository) FindByID(id uint) (*model.TapsSighting, error) {
	var sighting model.TapsSighting
	if err := r.db.First(&sighting, id).Error; err != nil {
		return nil, err
	}
	return &sighting, nil
}

// FindMostRecentSince returns the single most recent sighting reported
// at or after since, optionally filtered to one lot, with its lot
// preloaded. Returns gorm.ErrRecordNotFound when there is none.
func (r *SightingRepository) FindMostRecentSince(since time.Time, lotID *uint) (*model.TapsSighting, error) {
	q := r.db.
		Preload("ParkingLot").
		Where("reported_at >= ?", since)
	if lotID != nil {
		q = q.Where("parking_lot_id = ?", *lotID)
	}

	var sighting model.TapsSighting
	if err := q.Order("reported_at DESC").First(&sighting).Error; err != nil {
		return nil, err
	}
	return &sighting, nil
}

// ListSince returns sightings reported at or after the cutoff, newest
// first, optionally filtered to one lot.
func (r *SightingRepository) ListSince(cutoff time.Time, lotID *uint) ([]model.TapsSighting, error) {
	q := r.db.Where("reported_at >= ?", cutoff)
	if lotID != nil {
		q = q.Where("parking_lot_id = ?", *lotID)
	}

	var sightings []model.TapsSighting
	err := q.Order("reported_at DESC").Find(&sightings).Error
	return sightings, err
}

// CountAtLotSince counts sightings at a lot since the given time
func (r *SightingRepository) CountAtLotSince(lotID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.TapsSighting{}).
		Where("parking_lot_id = ? AND reported_at >= ?", lotID, since).
		Count(&count).Error
	return count, err
}
