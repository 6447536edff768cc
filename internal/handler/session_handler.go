package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/service"
)

// SessionHandler handles parking session endpoints
type SessionHandler struct {
	parkingService *service.ParkingService
}

func NewSessionHandler(parkingService *service.ParkingService) *SessionHandler {
	return &SessionHandler{parkingService: parkingService}
}

// CheckIn godoc
// @Summary Check in to a parking lot
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CheckInRequest true "Check-in request"
// @Success 201 {object} model.SessionResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /sessions/checkin [post]
func (h *SessionHandler) CheckIn(c *gin.Context) {
	device := deviceFrom(c)
	var req model.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.parkingService.CheckIn(device, req.ParkingLotID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CheckOut godoc
// @Summary Check out of the current parking session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SessionResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /sessions/checkout [post]
func (h *SessionHandler) CheckOut(c *gin.Context) {
	device := deviceFrom(c)

	resp, err := h.parkingService.CheckOut(device)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Current godoc
// @Summary Get the device's active parking session, if any
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SessionResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /sessions/current [get]
func (h *SessionHandler) Current(c *gin.Context) {
	device := deviceFrom(c)

	resp, err := h.parkingService.Current(device)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
