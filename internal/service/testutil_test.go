package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/warnabrotha/api/internal/cache"
	"github.com/warnabrotha/api/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory SQLite database with the full
// schema migrated. The named shared-cache DSN keeps every pooled
// connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.ParkingLot{},
		&model.Device{},
		&model.ParkingSession{},
		&model.TapsSighting{},
		&model.Vote{},
		&model.Notification{},
		&model.EmailOTP{},
	))

	return db
}

// newTestStore returns a cache.Store backed by miniredis, plus the
// miniredis handle for TTL manipulation.
func newTestStore(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.New(client), mr
}

func createDevice(t *testing.T, db *gorm.DB, externalID string) *model.Device {
	t.Helper()

	device := &model.Device{DeviceID: externalID}
	require.NoError(t, db.Create(device).Error)
	return device
}

func createLot(t *testing.T, db *gorm.DB, name, code string) *model.ParkingLot {
	t.Helper()

	lot := &model.ParkingLot{
		Name:      name,
		Code:      code,
		Latitude:  38.54,
		Longitude: -121.76,
		IsActive:  true,
	}
	require.NoError(t, db.Create(lot).Error)
	return lot
}

func createSighting(t *testing.T, db *gorm.DB, lotID uint, reportedAt time.Time) *model.TapsSighting {
	t.Helper()

	sighting := &model.TapsSighting{
		ParkingLotID: lotID,
		ReportedAt:   reportedAt.UTC(),
	}
	require.NoError(t, db.Create(sighting).Error)
	return sighting
}

func createSession(t *testing.T, db *gorm.DB, deviceID, lotID uint, checkedInAt time.Time) *model.ParkingSession {
	t.Helper()

	session := &model.ParkingSession{
		DeviceID:     deviceID,
		ParkingLotID: lotID,
		CheckedInAt:  checkedInAt.UTC(),
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

// fixedClock pins a service's notion of now for deterministic tests.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
