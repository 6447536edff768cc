package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/service"
)

// SightingHandler handles TAPS sighting and feed endpoints
type SightingHandler struct {
	sightingService *service.SightingService
	feedService     *service.FeedService
}

func NewSightingHandler(sightingService *service.SightingService, feedService *service.FeedService) *SightingHandler {
	return &SightingHandler{
		sightingService: sightingService,
		feedService:     feedService,
	}
}

// Report godoc
// @Summary Report a TAPS sighting at a lot (fans out alerts to parked devices)
// @Tags Sightings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ReportSightingRequest true "Report sighting request"
// @Success 201 {object} model.SightingResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /sightings [post]
func (h *SightingHandler) Report(c *gin.Context) {
	device := deviceFrom(c)
	if !requireVerified(c, device) {
		return
	}
	var req model.ReportSightingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.sightingService.Report(c.Request.Context(), device, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// AllFeeds godoc
// @Summary Get the recent-sightings feed for every active lot
// @Tags Sightings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AllFeedsResponse
// @Router /feed [get]
func (h *SightingHandler) AllFeeds(c *gin.Context) {
	device := deviceFrom(c)

	resp, err := h.feedService.GetAllFeeds(c.Request.Context(), device)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LotFeed godoc
// @Summary Get the recent-sightings feed for one lot
// @Tags Sightings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parking lot ID"
// @Success 200 {object} model.FeedResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /feed/{id} [get]
func (h *SightingHandler) LotFeed(c *gin.Context) {
	device := deviceFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid lot ID"})
		return
	}

	resp, err := h.feedService.GetLotFeed(c.Request.Context(), uint(id), device)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
