package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/warnabrotha/api/internal/cache"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"gorm.io/gorm"
)

// Risk-level to backward-compatible probability mapping. The field is
// informational only; classification never reads it.
var riskToProbability = map[model.RiskLevel]float64{
	model.RiskLow:    0.2,
	model.RiskMedium: 0.5,
	model.RiskHigh:   0.8,
}

// PredictionService classifies current enforcement risk from the
// recency of today's sightings.
//
// Risk rules:
//   - 0-1 hours ago:  HIGH   (actively patrolling)
//   - 1-2 hours ago:  LOW    (likely moved on)
//   - 2-4 hours ago:  MEDIUM (uncertain, could return)
//   - >4 hours ago:   HIGH   (overdue, likely coming back)
//   - not sighted today: MEDIUM (no data, default)
//
// "Today" starts at midnight in the enforcement agency's local time
// zone, not UTC, so yesterday's late-night sightings never bleed into
// today's risk and this morning's are never cut off.
type PredictionService struct {
	sightingRepo *repository.SightingRepository
	store        *cache.Store
	loc          *time.Location
	now          func() time.Time
}

func NewPredictionService(sightingRepo *repository.SightingRepository, store *cache.Store, loc *time.Location) *PredictionService {
	return &PredictionService{
		sightingRepo: sightingRepo,
		store:        store,
		loc:          loc,
		now:          time.Now,
	}
}

// Predict classifies risk as of the given instant, optionally filtered
// to one lot. Pure function of a DB read plus the asOf instant; no side
// effects.
func (s *PredictionService) Predict(asOf time.Time, lotID *uint) (*model.PredictionResponse, error) {
	asOf = asOf.UTC()
	dayStart := s.startOfLocalDay(asOf)

	sighting, err := s.sightingRepo.FindMostRecentSince(dayStart, lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.noSightingResponse(asOf), nil
		}
		return nil, err
	}

	hoursAgo := asOf.Sub(sighting.ReportedAt.UTC()).Hours()
	return s.sightingResponse(asOf, hoursAgo, sighting), nil
}

// PredictCached serves the current prediction through the cache, keyed
// per lot (or globally), with a short TTL. A degraded cache falls back
// to the live computation.
func (s *PredictionService) PredictCached(ctx context.Context, lotID *uint) (*model.PredictionResponse, error) {
	key := cache.PredictionKey(lotID)

	var cached model.PredictionResponse
	if s.store.Get(ctx, key, &cached) {
		return &cached, nil
	}

	prediction, err := s.Predict(s.now(), lotID)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, key, prediction, cache.TTLPrediction)
	return prediction, nil
}

// InvalidateFor drops the cached predictions a new sighting at the
// given lot makes stale: that lot's and the global one.
func (s *PredictionService) InvalidateFor(ctx context.Context, lotID uint) {
	s.store.Delete(ctx, cache.PredictionKey(&lotID), cache.PredictionKey(nil))
}

// startOfLocalDay returns midnight of asOf's day in the enforcement
// agency's time zone, expressed in UTC.
func (s *PredictionService) startOfLocalDay(asOf time.Time) time.Time {
	local := asOf.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).UTC()
}

// classifyRisk maps fractional hours-since-sighting to a risk bucket.
// Boundaries are inclusive on the lower bucket: exactly 1h is HIGH,
// exactly 2h LOW, exactly 4h MEDIUM.
func classifyRisk(hoursAgo float64) model.RiskLevel {
	switch {
	case hoursAgo <= 1.0:
		return model.RiskHigh
	case hoursAgo <= 2.0:
		return model.RiskLow
	case hoursAgo <= 4.0:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// formatTimeAgo renders a human time-ago string for the risk message.
func formatTimeAgo(hoursAgo float64) string {
	if hoursAgo < 1 {
		minutes := int(hoursAgo * 60)
		if minutes <= 1 {
			return "just now"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	}

	hours := int(hoursAgo)
	minutes := int((hoursAgo - float64(hours)) * 60)
	if minutes > 0 {
		return fmt.Sprintf("%dh %dm ago", hours, minutes)
	}
	if hours == 1 {
		return "1 hour ago"
	}
	return fmt.Sprintf("%d hours ago", hours)
}

func (s *PredictionService) noSightingResponse(asOf time.Time) *model.PredictionResponse {
	return &model.PredictionResponse{
		RiskLevel:    model.RiskMedium,
		RiskMessage:  "TAPS has not been sighted today",
		Probability:  riskToProbability[model.RiskMedium],
		PredictedFor: asOf,
		Confidence:   0.0,
	}
}

func (s *PredictionService) sightingResponse(asOf time.Time, hoursAgo float64, sighting *model.TapsSighting) *model.PredictionResponse {
	riskLevel := classifyRisk(hoursAgo)
	lot := sighting.ParkingLot
	reportedAt := sighting.ReportedAt.UTC()
	rounded := math.Round(hoursAgo*100) / 100

	return &model.PredictionResponse{
		RiskLevel:              riskLevel,
		RiskMessage:            fmt.Sprintf("TAPS was last spotted %s at %s", formatTimeAgo(hoursAgo), lot.Name),
		LastSightingLotName:    &lot.Name,
		LastSightingLotCode:    &lot.Code,
		LastSightingAt:         &reportedAt,
		HoursSinceLastSighting: &rounded,
		ParkingLotID:           &sighting.ParkingLotID,
		Probability:            riskToProbability[riskLevel],
		PredictedFor:           asOf,
		Confidence:             0.0,
	}
}
