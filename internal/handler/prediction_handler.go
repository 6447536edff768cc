package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/service"
)

// PredictionHandler handles TAPS risk prediction endpoints
type PredictionHandler struct {
	predictionService *service.PredictionService
}

func NewPredictionHandler(predictionService *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// Predict godoc
// @Summary Get the current TAPS enforcement risk, campus-wide or for one lot
// @Tags Predictions
// @Produce json
// @Security BearerAuth
// @Param parking_lot_id query int false "Restrict to one parking lot"
// @Success 200 {object} model.PredictionResponse
// @Router /predictions [get]
func (h *PredictionHandler) Predict(c *gin.Context) {
	var lotID *uint
	if raw := c.Query("parking_lot_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid parking_lot_id"})
			return
		}
		v := uint(id)
		lotID = &v
	}

	resp, err := h.predictionService.PredictCached(c.Request.Context(), lotID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PredictAt godoc
// @Summary Get the TAPS enforcement risk as of a specific time
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.PredictionRequest true "Prediction request"
// @Success 200 {object} model.PredictionResponse
// @Router /predictions [post]
func (h *PredictionHandler) PredictAt(c *gin.Context) {
	var req model.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	asOf := time.Now().UTC()
	if req.Timestamp != nil {
		asOf = req.Timestamp.UTC()
	}

	// Arbitrary-instant predictions bypass the cache, which only holds
	// the "now" answer.
	resp, err := h.predictionService.Predict(asOf, req.ParkingLotID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
