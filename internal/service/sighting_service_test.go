package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"github.com/warnabrotha/api/pkg/push"
	"gorm.io/gorm"
)

func newSightingFixture(t *testing.T) (*SightingService, *PredictionService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	store, _ := newTestStore(t)
	sightingRepo := repository.NewSightingRepository(db)

	prediction := NewPredictionService(sightingRepo, store, laLocation(t))
	notification := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewSessionRepository(db),
		push.NewRegistry(),
	)
	svc := NewSightingService(sightingRepo, repository.NewLotRepository(db), prediction, notification)
	return svc, prediction, db
}

func TestReport(t *testing.T) {
	svc, _, db := newSightingFixture(t)
	lot := createLot(t, db, "Lot 25", "ARC")
	reporter := createDevice(t, db, "device-reporter-0001")

	resp, err := svc.Report(context.Background(), reporter, model.ReportSightingRequest{
		ParkingLotID: lot.ID,
		Notes:        "white pickup near row C",
	})
	require.NoError(t, err)

	assert.Equal(t, lot.ID, resp.Sighting.ParkingLotID)
	assert.Equal(t, "white pickup near row C", resp.Sighting.Notes)
	require.NotNil(t, resp.Sighting.DeviceID)
	assert.Equal(t, reporter.ID, *resp.Sighting.DeviceID)
	assert.WithinDuration(t, time.Now(), resp.Sighting.ReportedAt, 5*time.Second)
	assert.Equal(t, 0, resp.NotifiedCount) // nobody parked there

	var count int64
	require.NoError(t, db.Model(&model.TapsSighting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReport_UnknownLot(t *testing.T) {
	svc, _, db := newSightingFixture(t)
	reporter := createDevice(t, db, "device-reporter-0001")

	_, err := svc.Report(context.Background(), reporter, model.ReportSightingRequest{ParkingLotID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReport_FansOutToParkedDevices(t *testing.T) {
	svc, _, db := newSightingFixture(t)
	lot := createLot(t, db, "Quad Structure", "MU")
	reporter := createDevice(t, db, "device-reporter-0001")

	for i := 0; i < 4; i++ {
		device := createDevice(t, db, fmt.Sprintf("device-mu-parker-%03d", i))
		createSession(t, db, device.ID, lot.ID, time.Now().Add(-time.Hour))
	}

	resp, err := svc.Report(context.Background(), reporter, model.ReportSightingRequest{ParkingLotID: lot.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.NotifiedCount)

	var rows []model.Notification
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 4)
}

func TestReport_FreshensCachedPrediction(t *testing.T) {
	svc, prediction, db := newSightingFixture(t)
	lot := createLot(t, db, "Lot 25", "ARC")
	reporter := createDevice(t, db, "device-reporter-0001")
	ctx := context.Background()

	// Cache the quiet-day prediction.
	before, err := prediction.PredictCached(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RiskMedium, before.RiskLevel)

	_, err = svc.Report(ctx, reporter, model.ReportSightingRequest{ParkingLotID: lot.ID})
	require.NoError(t, err)

	// The report invalidated both the lot's and the global prediction.
	after, err := prediction.PredictCached(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RiskHigh, after.RiskLevel)

	scoped, err := prediction.PredictCached(ctx, &lot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RiskHigh, scoped.RiskLevel)
}
