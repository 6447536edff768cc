package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"gorm.io/gorm"
)

// captureMailer records issued codes instead of speaking SMTP.
type captureMailer struct {
	emails []string
	codes  []string
	err    error
}

func (m *captureMailer) SendOTP(toEmail, code string, _ int) error {
	if m.err != nil {
		return m.err
	}
	m.emails = append(m.emails, toEmail)
	m.codes = append(m.codes, code)
	return nil
}

func (m *captureMailer) lastCode() string { return m.codes[len(m.codes)-1] }

func newOTPFixture(t *testing.T) (*OTPService, *gorm.DB, *captureMailer, *model.Device) {
	t.Helper()

	db := newTestDB(t)
	mail := &captureMailer{}
	svc := NewOTPService(repository.NewOTPRepository(db), repository.NewDeviceRepository(db), mail)
	device := createDevice(t, db, "device-otp-00000001")
	return svc, db, mail, device
}

func TestSendOTP_IssuesCode(t *testing.T) {
	svc, db, mail, device := newOTPFixture(t)

	resp, err := svc.SendOTP(device, "student@ucdavis.edu")
	require.NoError(t, err)

	assert.Equal(t, "student@ucdavis.edu", resp.Email)
	assert.Equal(t, 600, resp.ExpiresIn)
	require.Len(t, mail.codes, 1)
	assert.Len(t, mail.lastCode(), 6)

	// The stored hash is not the code itself.
	var otp model.EmailOTP
	require.NoError(t, db.First(&otp).Error)
	assert.NotEqual(t, mail.lastCode(), otp.CodeHash)
	assert.Equal(t, 0, otp.Attempts)
}

func TestVerify_HappyPath(t *testing.T) {
	svc, db, mail, device := newOTPFixture(t)

	_, err := svc.SendOTP(device, "student@ucdavis.edu")
	require.NoError(t, err)

	ok, msg, err := svc.Verify(device, "student@ucdavis.edu", mail.lastCode())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Email verified successfully.", msg)

	var fresh model.Device
	require.NoError(t, db.First(&fresh, device.ID).Error)
	assert.True(t, fresh.EmailVerified)
	require.NotNil(t, fresh.Email)
	assert.Equal(t, "student@ucdavis.edu", *fresh.Email)

	// Verification consumes every code the device held.
	var remaining int64
	require.NoError(t, db.Model(&model.EmailOTP{}).Where("device_id = ?", device.ID).Count(&remaining).Error)
	assert.Equal(t, int64(0), remaining)
}

func TestVerify_NoReuse(t *testing.T) {
	svc, _, mail, device := newOTPFixture(t)

	_, err := svc.SendOTP(device, "student@ucdavis.edu")
	require.NoError(t, err)
	code := mail.lastCode()

	ok, _, err := svc.Verify(device, "student@ucdavis.edu", code)
	require.NoError(t, err)
	require.True(t, ok)

	ok, msg, err := svc.Verify(device, "student@ucdavis.edu", code)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, msg, "No pending verification code")
}

func TestVerify_AttemptsExhausted(t *testing.T) {
	svc, _, mail, device := newOTPFixture(t)

	_, err := svc.SendOTP(device, "student@ucdavis.edu")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		ok, msg, err := svc.Verify(device, "student@ucdavis.edu", "000000")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, fmt.Sprintf("Invalid code. %d attempt(s) remaining.", 4-i), msg)
	}

	// Even the right code is refused once the budget is spent.
	ok, msg, err := svc.Verify(device, "student@ucdavis.edu", mail.lastCode())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, msg, "Too many attempts")
}

func TestVerify_Expired(t *testing.T) {
	svc, _, mail, device := newOTPFixture(t)

	issued := time.Now().UTC()
	svc.now = fixedClock(issued)
	_, err := svc.SendOTP(device, "student@ucdavis.edu")
	require.NoError(t, err)

	svc.now = fixedClock(issued.Add(10*time.Minute + time.Second))
	ok, msg, err := svc.Verify(device, "student@ucdavis.edu", mail.lastCode())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, msg, "expired")
}

func TestSendOTP_PendingLimitPerDevice(t *testing.T) {
	svc, _, _, device := newOTPFixture(t)

	for i := 0; i < 3; i++ {
		_, err := svc.SendOTP(device, "student@ucdavis.edu")
		require.NoError(t, err)
	}

	_, err := svc.SendOTP(device, "student@ucdavis.edu")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "too many active codes")
}

func TestSendOTP_HourlyLimitPerEmail(t *testing.T) {
	svc, db, _, _ := newOTPFixture(t)

	// Five codes to one address from distinct devices fill the window.
	for i := 0; i < 5; i++ {
		device := createDevice(t, db, fmt.Sprintf("device-email-%08d", i))
		_, err := svc.SendOTP(device, "shared@ucdavis.edu")
		require.NoError(t, err)
	}

	device := createDevice(t, db, "device-email-straggler")
	_, err := svc.SendOTP(device, "shared@ucdavis.edu")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "too many codes sent to this email")
}

func TestSendOTP_MailFailureSurfaces(t *testing.T) {
	svc, _, mail, device := newOTPFixture(t)
	mail.err = fmt.Errorf("smtp: connection refused")

	_, err := svc.SendOTP(device, "student@ucdavis.edu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send verification email")
}
