package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OTPMailer delivers the verification code email. Satisfied by
// pkg/mailer.Mailer.
type OTPMailer interface {
	SendOTP(toEmail, code string, expiryMinutes int) error
}

const (
	otpLength           = 6
	otpExpiryMinutes    = 10
	otpMaxAttempts      = 5
	maxPendingPerDevice = 3 // concurrently unexpired+unverified codes
	maxPerEmailPerHour  = 5
)

// OTPService issues and verifies the 6-digit email verification codes.
// Issuance guards are computed from live aggregate queries on every
// request; there is no counter state to keep consistent. Code state
// moves one way: pending -> verified | expired | exhausted.
type OTPService struct {
	otpRepo    *repository.OTPRepository
	deviceRepo *repository.DeviceRepository
	mailer     OTPMailer
	now        func() time.Time
}

func NewOTPService(otpRepo *repository.OTPRepository, deviceRepo *repository.DeviceRepository, mailClient OTPMailer) *OTPService {
	return &OTPService{
		otpRepo:    otpRepo,
		deviceRepo: deviceRepo,
		mailer:     mailClient,
		now:        time.Now,
	}
}

// SendOTP issues a fresh code for the device+email pair and emails it.
// Refused with ErrRateLimited when the device already holds 3 pending
// codes or the email has received 5 codes in the trailing hour.
func (s *OTPService) SendOTP(device *model.Device, email string) (*model.SendOTPResponse, error) {
	now := s.now()

	pending, err := s.otpRepo.CountPendingForDevice(device.ID, now)
	if err != nil {
		return nil, err
	}
	if pending >= maxPendingPerDevice {
		return nil, fmt.Errorf("too many active codes, wait for existing codes to expire: %w", ErrRateLimited)
	}

	recent, err := s.otpRepo.CountForEmailSince(email, now.Add(-time.Hour))
	if err != nil {
		return nil, err
	}
	if recent >= maxPerEmailPerHour {
		return nil, fmt.Errorf("too many codes sent to this email, try again later: %w", ErrRateLimited)
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	otp := &model.EmailOTP{
		DeviceID:  device.ID,
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(otpExpiryMinutes * time.Minute),
	}
	if err := s.otpRepo.Create(otp); err != nil {
		return nil, err
	}

	if err := s.mailer.SendOTP(email, code, otpExpiryMinutes); err != nil {
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	return &model.SendOTPResponse{
		Message:   "Verification code sent to your email.",
		Email:     email,
		ExpiresIn: otpExpiryMinutes * 60,
	}, nil
}

// Verify checks a submitted code against the device's most recent
// pending one. The attempt counter is incremented and persisted before
// any check, so even a crash mid-verification consumes the attempt.
// Returns (verified, user-facing message). Only infrastructure errors
// surface as err; a wrong/expired/exhausted code is (false, message).
func (s *OTPService) Verify(device *model.Device, email, submittedCode string) (bool, string, error) {
	now := s.now()

	otp, err := s.otpRepo.FindPending(device.ID, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "No pending verification code found. Please request a new one.", nil
		}
		return false, "", err
	}

	otp.Attempts++
	if err := s.otpRepo.Save(otp); err != nil {
		return false, "", err
	}

	if otp.Attempts > otpMaxAttempts {
		return false, "Too many attempts. Please request a new code.", nil
	}
	if otp.IsExpired(now) {
		return false, "Code has expired. Please request a new code.", nil
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(submittedCode)) != nil {
		remaining := otpMaxAttempts - otp.Attempts
		return false, fmt.Sprintf("Invalid code. %d attempt(s) remaining.", remaining), nil
	}

	verifiedAt := now
	otp.VerifiedAt = &verifiedAt
	if err := s.otpRepo.Save(otp); err != nil {
		return false, "", err
	}

	if err := s.deviceRepo.MarkEmailVerified(device.ID, email); err != nil {
		return false, "", err
	}

	// Purge the device's remaining codes; bounds table growth.
	if err := s.otpRepo.DeleteAllForDevice(device.ID); err != nil {
		return false, "", err
	}

	return true, "Email verified successfully.", nil
}

// generateOTPCode returns a random 6-digit numeric code
func generateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n), err
}
