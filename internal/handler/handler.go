package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/service"
)

// deviceFrom pulls the authenticated device injected by the auth
// middleware. Panics if called on an unprotected route.
func deviceFrom(c *gin.Context) *model.Device {
	return c.MustGet("device").(*model.Device)
}

// requireVerified rejects devices that have not completed email
// verification. Returns false after writing the 403 response.
func requireVerified(c *gin.Context, device *model.Device) bool {
	if !device.EmailVerified {
		c.JSON(http.StatusForbidden, model.ErrorResponse{
			Error:   "Email verification required",
			Message: "Verify your email before contributing sightings or votes",
		})
		return false
	}
	return true
}

// respondError maps service sentinel errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, model.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, model.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
	}
}
