package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"gorm.io/gorm"
)

// ParkingService manages check-in/check-out sessions. The one-open-
// session-per-device invariant is enforced here with a conflict
// rejection; downstream consumers (reminder scan, fan-out) assume it
// holds.
type ParkingService struct {
	sessionRepo *repository.SessionRepository
	lotRepo     *repository.LotRepository
	now         func() time.Time
}

func NewParkingService(sessionRepo *repository.SessionRepository, lotRepo *repository.LotRepository) *ParkingService {
	return &ParkingService{
		sessionRepo: sessionRepo,
		lotRepo:     lotRepo,
		now:         time.Now,
	}
}

// CheckIn opens a session for the device at a lot. Conflict when the
// device already has an open session; checking in elsewhere requires an
// explicit checkout first.
func (s *ParkingService) CheckIn(device *model.Device, lotID uint) (*model.SessionResponse, error) {
	lot, err := s.lotRepo.FindByID(lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parking lot %d: %w", lotID, ErrNotFound)
		}
		return nil, err
	}

	_, err = s.sessionRepo.FindOpenByDevice(device.ID)
	if err == nil {
		return nil, fmt.Errorf("device already has an open parking session: %w", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session := &model.ParkingSession{
		DeviceID:     device.ID,
		ParkingLotID: lot.ID,
		CheckedInAt:  s.now().UTC(),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	return sessionResponse(session, lot.Name), nil
}

// CheckOut closes the device's open session. NotFound when none is
// open.
func (s *ParkingService) CheckOut(device *model.Device) (*model.SessionResponse, error) {
	session, err := s.sessionRepo.FindOpenByDevice(device.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no open parking session: %w", ErrNotFound)
		}
		return nil, err
	}

	at := s.now().UTC()
	if err := s.sessionRepo.CheckOut(session.ID, at); err != nil {
		return nil, err
	}
	session.CheckedOutAt = &at

	lot, err := s.lotRepo.FindByID(session.ParkingLotID)
	if err != nil {
		return nil, err
	}
	return sessionResponse(session, lot.Name), nil
}

// Current returns the device's open session, or NotFound.
func (s *ParkingService) Current(device *model.Device) (*model.SessionResponse, error) {
	session, err := s.sessionRepo.FindOpenByDevice(device.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no open parking session: %w", ErrNotFound)
		}
		return nil, err
	}

	lot, err := s.lotRepo.FindByID(session.ParkingLotID)
	if err != nil {
		return nil, err
	}
	return sessionResponse(session, lot.Name), nil
}

func sessionResponse(session *model.ParkingSession, lotName string) *model.SessionResponse {
	return &model.SessionResponse{
		ID:             session.ID,
		ParkingLotID:   session.ParkingLotID,
		ParkingLotName: lotName,
		CheckedInAt:    session.CheckedInAt,
		CheckedOutAt:   session.CheckedOutAt,
	}
}
