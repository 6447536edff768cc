package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/service"
)

// LotHandler handles parking lot endpoints
type LotHandler struct {
	lotService *service.LotService
}

func NewLotHandler(lotService *service.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

// List godoc
// @Summary List active parking lots
// @Tags Lots
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ParkingLot
// @Router /lots [get]
func (h *LotHandler) List(c *gin.Context) {
	lots, err := h.lotService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lots)
}

// Get godoc
// @Summary Get a parking lot with live stats
// @Tags Lots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parking lot ID"
// @Success 200 {object} model.ParkingLotWithStats
// @Failure 404 {object} model.ErrorResponse
// @Router /lots/{id} [get]
func (h *LotHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid lot ID"})
		return
	}

	lot, err := h.lotService.GetWithStats(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lot)
}

// GetByCode godoc
// @Summary Get a parking lot by its short code
// @Tags Lots
// @Produce json
// @Security BearerAuth
// @Param code path string true "Parking lot code (e.g. ARC)"
// @Success 200 {object} model.ParkingLotWithStats
// @Failure 404 {object} model.ErrorResponse
// @Router /lots/code/{code} [get]
func (h *LotHandler) GetByCode(c *gin.Context) {
	lot, err := h.lotService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lot)
}
