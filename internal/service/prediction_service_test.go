package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"gorm.io/gorm"
)

// 15:00 PDT on a Friday afternoon; far enough into the local day that
// "N hours ago" sightings stay on today's side of the boundary.
var predictAsOf = time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC)

func laLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

func newPredictionService(t *testing.T, db *gorm.DB) *PredictionService {
	t.Helper()
	store, _ := newTestStore(t)
	return NewPredictionService(repository.NewSightingRepository(db), store, laLocation(t))
}

func TestClassifyRisk(t *testing.T) {
	cases := []struct {
		hoursAgo float64
		want     model.RiskLevel
	}{
		{0.0, model.RiskHigh},
		{0.5, model.RiskHigh},
		{1.0, model.RiskHigh}, // boundary: exactly 1h still HIGH
		{1.01, model.RiskLow},
		{2.0, model.RiskLow}, // boundary: exactly 2h still LOW
		{2.01, model.RiskMedium},
		{4.0, model.RiskMedium}, // boundary: exactly 4h still MEDIUM
		{4.01, model.RiskHigh},
		{12.0, model.RiskHigh},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyRisk(tc.hoursAgo), "hoursAgo=%v", tc.hoursAgo)
	}
}

func TestFormatTimeAgo(t *testing.T) {
	cases := []struct {
		hoursAgo float64
		want     string
	}{
		{0.0, "just now"},
		{0.01, "just now"},
		{0.5, "30 minutes ago"},
		{1.0, "1 hour ago"},
		{1.75, "1h 45m ago"},
		{2.0, "2 hours ago"},
		{3.5, "3h 30m ago"},
		{5.0, "5 hours ago"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, formatTimeAgo(tc.hoursAgo), "hoursAgo=%v", tc.hoursAgo)
	}
}

func TestPredict_NoSightingToday(t *testing.T) {
	db := newTestDB(t)
	svc := newPredictionService(t, db)

	resp, err := svc.Predict(predictAsOf, nil)
	require.NoError(t, err)

	assert.Equal(t, model.RiskMedium, resp.RiskLevel)
	assert.Equal(t, "TAPS has not been sighted today", resp.RiskMessage)
	assert.Equal(t, 0.5, resp.Probability)
	assert.Equal(t, 0.0, resp.Confidence)
	assert.Nil(t, resp.LastSightingAt)
	assert.Nil(t, resp.HoursSinceLastSighting)
}

func TestPredict_RecencyBuckets(t *testing.T) {
	cases := []struct {
		name     string
		ago      time.Duration
		want     model.RiskLevel
		wantProb float64
	}{
		{"30 minutes ago is HIGH", 30 * time.Minute, model.RiskHigh, 0.8},
		{"90 minutes ago is LOW", 90 * time.Minute, model.RiskLow, 0.2},
		{"3 hours ago is MEDIUM", 3 * time.Hour, model.RiskMedium, 0.5},
		{"5 hours ago is HIGH again", 5 * time.Hour, model.RiskHigh, 0.8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			svc := newPredictionService(t, db)
			lot := createLot(t, db, "Lot 25", "ARC")
			createSighting(t, db, lot.ID, predictAsOf.Add(-tc.ago))

			resp, err := svc.Predict(predictAsOf, nil)
			require.NoError(t, err)

			assert.Equal(t, tc.want, resp.RiskLevel)
			assert.Equal(t, tc.wantProb, resp.Probability)
			require.NotNil(t, resp.LastSightingLotCode)
			assert.Equal(t, "ARC", *resp.LastSightingLotCode)
			require.NotNil(t, resp.HoursSinceLastSighting)
			assert.InDelta(t, tc.ago.Hours(), *resp.HoursSinceLastSighting, 0.01)
		})
	}
}

func TestPredict_RiskDecaysAsSightingAges(t *testing.T) {
	db := newTestDB(t)
	svc := newPredictionService(t, db)
	lot := createLot(t, db, "Lot 25", "ARC")

	// Reported half an hour before the first prediction.
	createSighting(t, db, lot.ID, predictAsOf.Add(-30*time.Minute))

	resp, err := svc.Predict(predictAsOf, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RiskHigh, resp.RiskLevel)

	// Same sighting 1h45m later is 2h15m old: uncertainty bucket.
	resp, err = svc.Predict(predictAsOf.Add(105*time.Minute), nil)
	require.NoError(t, err)
	assert.Equal(t, model.RiskMedium, resp.RiskLevel)
}

func TestPredict_LotScoped(t *testing.T) {
	db := newTestDB(t)
	svc := newPredictionService(t, db)
	arc := createLot(t, db, "Lot 25", "ARC")
	tercero := createLot(t, db, "Tercero Parking Lot", "TERCERO")

	createSighting(t, db, arc.ID, predictAsOf.Add(-20*time.Minute))

	t.Run("sighted lot is HIGH", func(t *testing.T) {
		resp, err := svc.Predict(predictAsOf, &arc.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RiskHigh, resp.RiskLevel)
	})

	t.Run("other lot falls back to no-data default", func(t *testing.T) {
		resp, err := svc.Predict(predictAsOf, &tercero.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RiskMedium, resp.RiskLevel)
		assert.Nil(t, resp.LastSightingAt)
	})

	t.Run("global prediction still sees the sighting", func(t *testing.T) {
		resp, err := svc.Predict(predictAsOf, nil)
		require.NoError(t, err)
		assert.Equal(t, model.RiskHigh, resp.RiskLevel)
	})
}

func TestPredict_DayBoundaryIsLocalMidnight(t *testing.T) {
	db := newTestDB(t)
	svc := newPredictionService(t, db)
	lot := createLot(t, db, "Quad Structure", "MU")

	// 23:30 local the previous evening: 06:30 UTC on the same calendar
	// day as predictAsOf, yet before local midnight.
	createSighting(t, db, lot.ID, time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC))

	resp, err := svc.Predict(predictAsOf, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RiskMedium, resp.RiskLevel)
	assert.Equal(t, "TAPS has not been sighted today", resp.RiskMessage)
}

func TestPredict_MessageNamesLotAndRecency(t *testing.T) {
	db := newTestDB(t)
	svc := newPredictionService(t, db)
	lot := createLot(t, db, "Pavilion Structure", "HUTCH")
	createSighting(t, db, lot.ID, predictAsOf.Add(-30*time.Minute))

	resp, err := svc.Predict(predictAsOf, nil)
	require.NoError(t, err)
	assert.Equal(t, "TAPS was last spotted 30 minutes ago at Pavilion Structure", resp.RiskMessage)
}

func TestPredictCached(t *testing.T) {
	db := newTestDB(t)
	store, _ := newTestStore(t)
	svc := NewPredictionService(repository.NewSightingRepository(db), store, laLocation(t))
	svc.now = fixedClock(predictAsOf)

	lot := createLot(t, db, "Lot 25", "ARC")
	createSighting(t, db, lot.ID, predictAsOf.Add(-30*time.Minute))

	ctx := context.Background()

	first, err := svc.PredictCached(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RiskHigh, first.RiskLevel)

	// A newer sighting does not show through the cached entry...
	createSighting(t, db, lot.ID, predictAsOf.Add(-1*time.Minute))
	cached, err := svc.PredictCached(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first.RiskMessage, cached.RiskMessage)

	// ...until the write path invalidates it.
	svc.InvalidateFor(ctx, lot.ID)
	fresh, err := svc.PredictCached(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "TAPS was last spotted just now at Lot 25", fresh.RiskMessage)
}
