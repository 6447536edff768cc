package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/service"
)

// AuthHandler handles device registration and email verification endpoints
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Register a device (idempotent) and receive an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.RegisterDeviceRequest true "Register device request"
// @Success 200 {object} model.TokenResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendOTP godoc
// @Summary Send an email verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.SendOTPRequest true "Send OTP request"
// @Success 200 {object} model.SendOTPResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	device := deviceFrom(c)
	var req model.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.SendOTP(device, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyOTP godoc
// @Summary Verify email with OTP code
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.VerifyOTPRequest true "Verify OTP request"
// @Success 200 {object} model.VerifyOTPResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	device := deviceFrom(c)
	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.VerifyOTP(device, req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateDevice godoc
// @Summary Update push token or push preference for the current device
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.UpdateDeviceRequest true "Update device request"
// @Success 200 {object} map[string]string
// @Router /auth/device [put]
func (h *AuthHandler) UpdateDevice(c *gin.Context) {
	device := deviceFrom(c)
	var req model.UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.authService.UpdateDevice(device, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device updated"})
}
