package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"gorm.io/gorm"
)

// SightingService records enforcement sightings and triggers the
// downstream reactions: prediction-cache invalidation and the alert
// fan-out to everyone parked at the lot.
type SightingService struct {
	sightingRepo *repository.SightingRepository
	lotRepo      *repository.LotRepository
	prediction   *PredictionService
	notification *NotificationService
	now          func() time.Time
}

func NewSightingService(
	sightingRepo *repository.SightingRepository,
	lotRepo *repository.LotRepository,
	prediction *PredictionService,
	notification *NotificationService,
) *SightingService {
	return &SightingService{
		sightingRepo: sightingRepo,
		lotRepo:      lotRepo,
		prediction:   prediction,
		notification: notification,
		now:          time.Now,
	}
}

// Report persists a new sighting and fans out alerts to devices with
// open sessions at the lot. The reporter, if parked there, is alerted
// too. A fan-out failure after the sighting is committed is logged
// inside the fan-out engine per target; the sighting itself stands.
func (s *SightingService) Report(ctx context.Context, device *model.Device, req model.ReportSightingRequest) (*model.SightingResponse, error) {
	lot, err := s.lotRepo.FindByID(req.ParkingLotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parking lot %d: %w", req.ParkingLotID, ErrNotFound)
		}
		return nil, err
	}

	sighting := &model.TapsSighting{
		ParkingLotID: lot.ID,
		DeviceID:     &device.ID,
		ReportedAt:   s.now().UTC(),
		Notes:        req.Notes,
	}
	if err := s.sightingRepo.Create(sighting); err != nil {
		return nil, err
	}

	// The new sighting changes today's risk picture immediately.
	s.prediction.InvalidateFor(ctx, lot.ID)

	notified, err := s.notification.NotifyLotSighting(ctx, lot.ID, lot.Name, lot.Code)
	if err != nil {
		return nil, err
	}

	return &model.SightingResponse{
		Sighting:      *sighting,
		NotifiedCount: notified,
	}, nil
}
