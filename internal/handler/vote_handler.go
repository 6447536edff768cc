package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/service"
)

// VoteHandler handles sighting vote endpoints
type VoteHandler struct {
	voteService *service.VoteService
}

func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

func sightingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid sighting ID"})
		return 0, false
	}
	return uint(id), true
}

// Cast godoc
// @Summary Cast, switch, or toggle off a vote on a sighting
// @Tags Votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sighting ID"
// @Param body body model.CastVoteRequest true "Cast vote request"
// @Success 200 {object} model.VoteResult
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /sightings/{id}/vote [post]
func (h *VoteHandler) Cast(c *gin.Context) {
	device := deviceFrom(c)
	if !requireVerified(c, device) {
		return
	}
	id, ok := sightingIDParam(c)
	if !ok {
		return
	}

	var req model.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	result, err := h.voteService.CastVote(c.Request.Context(), id, device.ID, req.VoteType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Remove godoc
// @Summary Remove the device's vote on a sighting
// @Tags Votes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sighting ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /sightings/{id}/vote [delete]
func (h *VoteHandler) Remove(c *gin.Context) {
	device := deviceFrom(c)
	if !requireVerified(c, device) {
		return
	}
	id, ok := sightingIDParam(c)
	if !ok {
		return
	}

	if err := h.voteService.RemoveVote(c.Request.Context(), id, device.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote removed"})
}

// Get godoc
// @Summary Get the vote tally for a sighting
// @Tags Votes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sighting ID"
// @Success 200 {object} model.SightingVotesResponse
// @Router /sightings/{id}/votes [get]
func (h *VoteHandler) Get(c *gin.Context) {
	device := deviceFrom(c)
	id, ok := sightingIDParam(c)
	if !ok {
		return
	}

	tallies, ownVotes, err := h.voteService.BatchTallies(c.Request.Context(), []uint{id}, device.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	tally := tallies[id]
	resp := model.SightingVotesResponse{
		SightingID: id,
		Upvotes:    tally.Upvotes,
		Downvotes:  tally.Downvotes,
		NetScore:   tally.NetScore(),
	}
	if vt, ok := ownVotes[id]; ok {
		v := vt
		resp.UserVote = &v
	}

	c.JSON(http.StatusOK, resp)
}
