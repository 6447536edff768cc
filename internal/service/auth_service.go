package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"github.com/warnabrotha/api/pkg/auth"
	"gorm.io/gorm"
)

// AuthService handles device registration and token authentication.
// There are no user accounts: identity is the device itself, optionally
// strengthened by a verified email.
type AuthService struct {
	deviceRepo *repository.DeviceRepository
	otpService *OTPService
	jwtManager *auth.JWTManager
}

func NewAuthService(deviceRepo *repository.DeviceRepository, otpService *OTPService, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		deviceRepo: deviceRepo,
		otpService: otpService,
		jwtManager: jwtManager,
	}
}

// Register resolves the external device identifier to a device row,
// creating one on first contact, and returns a bearer token. Calling it
// again with the same identifier returns a token for the same row. A
// client that has no identifier yet gets one minted server-side; the
// response echoes the identifier either way so the client can persist it.
func (s *AuthService) Register(req model.RegisterDeviceRequest) (*model.TokenResponse, error) {
	if req.DeviceID == "" {
		req.DeviceID = uuid.NewString()
	}

	device, err := s.deviceRepo.GetOrCreate(req.DeviceID, req.PushToken)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateToken(device.DeviceID)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:   token,
		TokenType:     "bearer",
		ExpiresIn:     int(s.jwtManager.Expiry().Seconds()),
		DeviceID:      device.DeviceID,
		EmailVerified: device.EmailVerified,
	}, nil
}

// Authenticate validates a bearer token and resolves it to a live
// device row. A token whose device has been deleted is rejected: device
// deletion revokes every outstanding token.
func (s *AuthService) Authenticate(tokenString string) (*model.Device, error) {
	claims, err := s.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", ErrUnauthorized)
	}

	device, err := s.deviceRepo.FindByDeviceID(claims.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("device no longer registered: %w", ErrUnauthorized)
		}
		return nil, err
	}
	return device, nil
}

// UpdateDevice applies push-token / push-enabled changes
func (s *AuthService) UpdateDevice(device *model.Device, req model.UpdateDeviceRequest) error {
	return s.deviceRepo.UpdatePush(device.ID, req.PushToken, req.PushEnabled)
}

// SendOTP issues a verification code for the device's email
func (s *AuthService) SendOTP(device *model.Device, email string) (*model.SendOTPResponse, error) {
	return s.otpService.SendOTP(device, email)
}

// VerifyOTP checks the submitted code and, on success, marks the device
// verified and returns a fresh token reflecting the new state.
func (s *AuthService) VerifyOTP(device *model.Device, req model.VerifyOTPRequest) (*model.VerifyOTPResponse, error) {
	verified, message, err := s.otpService.Verify(device, req.Email, req.Code)
	if err != nil {
		return nil, err
	}
	if !verified {
		return &model.VerifyOTPResponse{
			Success: false,
			Message: message,
		}, nil
	}

	token, err := s.jwtManager.GenerateToken(device.DeviceID)
	if err != nil {
		return nil, err
	}

	return &model.VerifyOTPResponse{
		Success:       true,
		Message:       message,
		EmailVerified: true,
		AccessToken:   token,
		TokenType:     "bearer",
		ExpiresIn:     int(s.jwtManager.Expiry().Seconds()),
	}, nil
}
