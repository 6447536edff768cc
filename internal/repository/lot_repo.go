package repository

import (
	"errors"

	"github.com/warnabrotha/api/internal/model"
	"gorm.io/gorm"
)

// LotRepository handles database operations for ParkingLot
type LotRepository struct {
	db *gorm.DB
}

func NewLotRepository(db *gorm.DB) *LotRepository {
	return &LotRepository{db: db}
}

// ListActive returns all active lots ordered by name
func (r *LotRepository) ListActive() ([]model.ParkingLot, error) {
	var lots []model.ParkingLot
	err := r.db.Where("is_active = ?", true).Order("name").Find(&lots).Error
	return lots, err
}

// FindByID finds a lot by primary key
func (r *LotRepository) FindByID(id uint) (*model.ParkingLot, error) {
	var lot model.ParkingLot
	if err := r.db.First(&lot, id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// FindByCode finds a lot by its short code (e.g. "ARC")
func (r *LotRepository) FindByCode(code string) (*model.ParkingLot, error) {
	var lot model.ParkingLot
	if err := r.db.Where("code = ?", code).First(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// Seed inserts a lot if its code is new, or corrects the name of an
// existing lot. Lots are otherwise immutable after seeding.
func (r *LotRepository) Seed(lot model.ParkingLot) (bool, error) {
	var existing model.ParkingLot
	err := r.db.Where("code = ?", lot.Code).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		lot.IsActive = true
		if err := r.db.Create(&lot).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if existing.Name != lot.Name {
		if err := r.db.Model(&existing).Update("name", lot.Name).Error; err != nil {
			return false, err
		}
	}
	return false, nil
}
