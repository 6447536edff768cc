package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warnabrotha/api/internal/cache"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"gorm.io/gorm"
)

// LotService serves the lot list and per-lot stats, both cached with
// independent TTLs. Lot data is nearly static; stats are derived counts
// whose staleness is bounded by a short TTL.
type LotService struct {
	lotRepo      *repository.LotRepository
	sessionRepo  *repository.SessionRepository
	sightingRepo *repository.SightingRepository
	prediction   *PredictionService
	store        *cache.Store
	now          func() time.Time
}

func NewLotService(
	lotRepo *repository.LotRepository,
	sessionRepo *repository.SessionRepository,
	sightingRepo *repository.SightingRepository,
	prediction *PredictionService,
	store *cache.Store,
) *LotService {
	return &LotService{
		lotRepo:      lotRepo,
		sessionRepo:  sessionRepo,
		sightingRepo: sightingRepo,
		prediction:   prediction,
		store:        store,
		now:          time.Now,
	}
}

// List returns all active lots, cache-first.
func (s *LotService) List(ctx context.Context) ([]model.ParkingLot, error) {
	var cached []model.ParkingLot
	if s.store.Get(ctx, cache.LotsListKey(), &cached) {
		return cached, nil
	}

	lots, err := s.lotRepo.ListActive()
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, cache.LotsListKey(), lots, cache.TTLLotsList)
	return lots, nil
}

// GetWithStats returns one lot with live occupancy and sighting stats,
// cache-first with a one-minute TTL.
func (s *LotService) GetWithStats(ctx context.Context, lotID uint) (*model.ParkingLotWithStats, error) {
	var cached model.ParkingLotWithStats
	if s.store.Get(ctx, cache.LotStatsKey(lotID), &cached) {
		return &cached, nil
	}

	lot, err := s.lotRepo.FindByID(lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parking lot %d: %w", lotID, ErrNotFound)
		}
		return nil, err
	}

	activeParkers, err := s.sessionRepo.CountActiveAtLot(lot.ID)
	if err != nil {
		return nil, err
	}

	recentSightings, err := s.sightingRepo.CountAtLotSince(lot.ID, s.now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	// The probability is decoration on the stats card; a prediction
	// failure degrades it to zero rather than failing the lookup.
	probability := 0.0
	if prediction, err := s.prediction.Predict(s.now(), &lot.ID); err == nil {
		probability = prediction.Probability
	}

	stats := &model.ParkingLotWithStats{
		ID:              lot.ID,
		Name:            lot.Name,
		Code:            lot.Code,
		Latitude:        lot.Latitude,
		Longitude:       lot.Longitude,
		IsActive:        lot.IsActive,
		ActiveParkers:   activeParkers,
		RecentSightings: recentSightings,
		TapsProbability: probability,
	}
	s.store.Set(ctx, cache.LotStatsKey(lotID), stats, cache.TTLLotStats)
	return stats, nil
}

// GetByCode resolves a lot by its short code, then serves the same
// stats view as GetWithStats.
func (s *LotService) GetByCode(ctx context.Context, code string) (*model.ParkingLotWithStats, error) {
	lot, err := s.lotRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parking lot %q: %w", code, ErrNotFound)
		}
		return nil, err
	}
	return s.GetWithStats(ctx, lot.ID)
}
