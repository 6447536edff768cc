package repository

import (
	"github.com/warnabrotha/api/internal/model"
	"gorm.io/gorm"
)

// VoteRepository handles database operations for Vote. Row uniqueness
// per (device, sighting) is enforced by the composite unique index, not
// by check-then-act in application code.
type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Find returns the device's vote on a sighting, if any
func (r *VoteRepository) Find(deviceID, sightingID uint) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.
		Where("device_id = ? AND sighting_id = ?", deviceID, sightingID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Create inserts a new vote row
func (r *VoteRepository) Create(vote *model.Vote) error {
	return r.db.Create(vote).Error
}

// UpdateType switches an existing vote to the other kind
func (r *VoteRepository) UpdateType(id uint, voteType model.VoteType) error {
	return r.db.Model(&model.Vote{}).
		Where("id = ?", id).
		Update("vote_type", voteType).Error
}

// Delete removes a vote row
func (r *VoteRepository) Delete(id uint) error {
	return r.db.Delete(&model.Vote{}, id).Error
}

// Tally aggregates up/down counts for one sighting
func (r *VoteRepository) Tally(sightingID uint) (model.VoteTally, error) {
	tallies, err := r.Tallies([]uint{sightingID})
	if err != nil {
		return model.VoteTally{}, err
	}
	return tallies[sightingID], nil
}

// Tallies aggregates up/down counts for many sightings in one grouped
// query. Sightings with no votes are present in the result with zero
// counts.
func (r *VoteRepository) Tallies(sightingIDs []uint) (map[uint]model.VoteTally, error) {
	out := make(map[uint]model.VoteTally, len(sightingIDs))
	for _, id := range sightingIDs {
		out[id] = model.VoteTally{}
	}
	if len(sightingIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		SightingID uint
		VoteType   model.VoteType
		N          int64
	}
	err := r.db.Model(&model.Vote{}).
		Select("sighting_id, vote_type, COUNT(*) AS n").
		Where("sighting_id IN ?", sightingIDs).
		Group("sighting_id, vote_type").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		tally := out[row.SightingID]
		if row.VoteType == model.VoteUp {
			tally.Upvotes = row.N
		} else {
			tally.Downvotes = row.N
		}
		out[row.SightingID] = tally
	}
	return out, nil
}

// ByDeviceForSightings returns the device's own votes across many
// sightings in one query, keyed by sighting id.
func (r *VoteRepository) ByDeviceForSightings(deviceID uint, sightingIDs []uint) (map[uint]model.VoteType, error) {
	out := make(map[uint]model.VoteType)
	if len(sightingIDs) == 0 {
		return out, nil
	}

	var votes []model.Vote
	err := r.db.
		Where("device_id = ? AND sighting_id IN ?", deviceID, sightingIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}

	for _, v := range votes {
		out[v.SightingID] = v.VoteType
	}
	return out, nil
}
