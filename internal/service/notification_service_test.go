package service

import (
	"context"
	"errors"
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

// recordingSender captures push sends so tests can assert routing
// without a live transport.
type recordingSender struct {
	tokens []string
	datas  []map[string]string
}

func (r *recordingSender) Name() string { return "recording" }

func (r *recordingSender) Send(_ context.Context, token, _, _ string, data map[string]string) bool {
	r.tokens = append(r.tokens, token)
	r.datas = append(r.datas, data)
	return true
}

func newNotificationFixture(t *testing.T) (*NotificationService, *gorm.DB, *recordingSender) {
	t.Helper()

	db := newTestDB(t)
	sender := &recordingSender{}
	registry := push.NewRegistry()
	registry.Register(push.TransportFCM, sender)

	svc := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewSessionRepository(db),
		registry,
	)
	return svc, db, sender
}

func pushToken(s string) *string { return &s }

func TestNotifyLotSighting_FanOut(t *testing.T) {
	svc, db, sender := newNotificationFixture(t)
	lot := createLot(t, db, "Lot 25", "ARC")
	now := time.Now()

	// Three devices parked at the lot, one of them without a push token.
	for i := 0; i < 3; i++ {
		device := createDevice(t, db, fmt.Sprintf("device-parked-%07d", i))
		if i < 2 {
			token := fmt.Sprintf("fcm-token-%d", i)
			require.NoError(t, db.Model(device).Update("push_token", token).Error)
		}
		createSession(t, db, device.ID, lot.ID, now.Add(-time.Hour))
	}

	notified, err := svc.NotifyLotSighting(context.Background(), lot.ID, lot.Name, lot.Code)
	require.NoError(t, err)

	// Every parked device gets the in-app row; push only where a token exists.
	assert.Equal(t, 3, notified)
	assert.Len(t, sender.tokens, 2)

	var rows []model.Notification
	require.NoError(t, db.Order("device_id").Find(&rows).Error)
	require.Len(t, rows, 3)
	for _, n := range rows {
		assert.Equal(t, model.NotificationTapsSpotted, n.Type)
		assert.Contains(t, n.Message, "Lot 25")
		require.NotNil(t, n.ParkingLotID)
		assert.Equal(t, lot.ID, *n.ParkingLotID)
		assert.Nil(t, n.ReadAt)
	}

	require.NotEmpty(t, sender.datas)
	assert.Equal(t, "ARC", sender.datas[0]["parking_lot_code"])
}

func TestNotifyLotSighting_FailedTargetIsSkipped(t *testing.T) {
	svc, db, sender := newNotificationFixture(t)
	lot := createLot(t, db, "Lot 25", "ARC")
	now := time.Now()

	devices := make([]*model.Device, 3)
	for i := range devices {
		device := createDevice(t, db, fmt.Sprintf("device-isolated-%04d", i))
		require.NoError(t, db.Model(device).Update("push_token", fmt.Sprintf("fcm-token-%d", i)).Error)
		createSession(t, db, device.ID, lot.ID, now.Add(-time.Hour))
		devices[i] = device
	}
	doomed := devices[1]

	// Refuse the middle target's insert; the others must still land.
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test_refuse_one_target", func(tx *gorm.DB) {
		if n, ok := tx.Statement.Dest.(*model.Notification); ok && n.DeviceID == doomed.ID {
			tx.AddError(errors.New("insert refused"))
		}
	}))

	notified, err := svc.NotifyLotSighting(context.Background(), lot.ID, lot.Name, lot.Code)
	require.NoError(t, err)

	// The count reports successes only.
	assert.Equal(t, 2, notified)

	var rows []model.Notification
	require.NoError(t, db.Order("device_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, devices[0].ID, rows[0].DeviceID)
	assert.Equal(t, devices[2].ID, rows[1].DeviceID)

	// Push follows the persisted row: no row, no push.
	assert.ElementsMatch(t, []string{"fcm-token-0", "fcm-token-2"}, sender.tokens)
}

func TestNotifyLotSighting_TargetSet(t *testing.T) {
	svc, db, _ := newNotificationFixture(t)
	arc := createLot(t, db, "Lot 25", "ARC")
	mu := createLot(t, db, "Quad Structure", "MU")
	now := time.Now()

	parked := createDevice(t, db, "device-parked-at-arc")
	createSession(t, db, parked.ID, arc.ID, now.Add(-time.Hour))

	elsewhere := createDevice(t, db, "device-parked-at-mu")
	createSession(t, db, elsewhere.ID, mu.ID, now.Add(-time.Hour))

	checkedOut := createDevice(t, db, "device-already-left")
	gone := createSession(t, db, checkedOut.ID, arc.ID, now.Add(-2*time.Hour))
	out := now.Add(-10 * time.Minute)
	require.NoError(t, db.Model(gone).Update("checked_out_at", out).Error)

	notified, err := svc.NotifyLotSighting(context.Background(), arc.ID, arc.Name, arc.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)

	var rows []model.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, parked.ID, rows[0].DeviceID)
}

func TestNotifyLotSighting_ReporterStillParkedIsNotified(t *testing.T) {
	svc, db, _ := newNotificationFixture(t)
	lot := createLot(t, db, "Lot 25", "ARC")

	reporter := createDevice(t, db, "device-reporter-0001")
	createSession(t, db, reporter.ID, lot.ID, time.Now().Add(-time.Hour))

	// The reporter is parked at the lot they reported; they are a target
	// like anyone else.
	notified, err := svc.NotifyLotSighting(context.Background(), lot.ID, lot.Name, lot.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
}

func TestNotifyLotSighting_EmptyLot(t *testing.T) {
	svc, db, sender := newNotificationFixture(t)
	lot := createLot(t, db, "Tercero Parking Lot", "TERCERO")

	notified, err := svc.NotifyLotSighting(context.Background(), lot.ID, lot.Name, lot.Code)
	require.NoError(t, err)
	assert.Equal(t, 0, notified)
	assert.Empty(t, sender.tokens)
}

func TestNotifyCheckoutDue_SetsReminderFlagAtomically(t *testing.T) {
	svc, db, sender := newNotificationFixture(t)
	lot := createLot(t, db, "Quad Structure", "MU")
	device := createDevice(t, db, "device-long-parker-1")
	require.NoError(t, db.Model(device).Update("push_token", "fcm-long-parker").Error)

	session := createSession(t, db, device.ID, lot.ID, time.Now().Add(-4*time.Hour))

	var fresh model.Device
	require.NoError(t, db.First(&fresh, device.ID).Error)
	require.NoError(t, svc.NotifyCheckoutDue(context.Background(), session, &fresh, lot.Name))

	var reloaded model.ParkingSession
	require.NoError(t, db.First(&reloaded, session.ID).Error)
	assert.True(t, reloaded.ReminderSent)

	var rows []model.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, model.NotificationCheckoutReminder, rows[0].Type)
	assert.Len(t, sender.tokens, 1)
}

func TestListAndMarkRead(t *testing.T) {
	svc, db, _ := newNotificationFixture(t)
	device := createDevice(t, db, "device-inbox-000001")
	other := createDevice(t, db, "device-inbox-000002")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&model.Notification{
			DeviceID: device.ID,
			Type:     model.NotificationTapsSpotted,
			Title:    "⚠️ TAPS Alert!",
			Message:  fmt.Sprintf("alert %d", i),
		}).Error)
	}
	require.NoError(t, db.Create(&model.Notification{
		DeviceID: other.ID,
		Type:     model.NotificationTapsSpotted,
		Title:    "⚠️ TAPS Alert!",
		Message:  "someone else's alert",
	}).Error)

	list, err := svc.List(device.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 3)
	assert.Equal(t, int64(3), list.TotalCount)
	assert.Equal(t, int64(3), list.UnreadCount)

	// Marking is scoped to the caller's own rows; the foreign id is a no-op.
	ids := []uint{list.Notifications[0].ID, list.Notifications[1].ID}
	var foreign model.Notification
	require.NoError(t, db.Where("device_id = ?", other.ID).First(&foreign).Error)
	ids = append(ids, foreign.ID)

	marked, err := svc.MarkRead(device.ID, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	list, err = svc.List(device.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.UnreadCount)

	var untouched model.Notification
	require.NoError(t, db.First(&untouched, foreign.ID).Error)
	assert.Nil(t, untouched.ReadAt)
}
