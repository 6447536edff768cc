package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/warnabrotha/api/internal/cache"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"gorm.io/gorm"
)

// VoteService maintains per-sighting credibility tallies under the
// invalidate-on-write + short-TTL-cache discipline. Readers may observe
// a tally up to the TTL window stale after a concurrent write; that is
// the accepted bounded-staleness tradeoff.
type VoteService struct {
	voteRepo     *repository.VoteRepository
	sightingRepo *repository.SightingRepository
	store        *cache.Store
}

func NewVoteService(voteRepo *repository.VoteRepository, sightingRepo *repository.SightingRepository, store *cache.Store) *VoteService {
	return &VoteService{
		voteRepo:     voteRepo,
		sightingRepo: sightingRepo,
		store:        store,
	}
}

// CastVote applies one transition of the per-(device, sighting) state
// machine: no vote -> voted(k); voted(k) -> no vote (toggle off);
// voted(k) -> voted(k') (switch). Exactly one row is written, then the
// sighting's cached tally is invalidated unconditionally: even a
// write that changed nothing observable may be shadowed by a stale
// cache entry from an earlier read.
func (s *VoteService) CastVote(ctx context.Context, sightingID, deviceID uint, voteType model.VoteType) (*model.VoteResult, error) {
	if _, err := s.sightingRepo.FindByID(sightingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sighting %d: %w", sightingID, ErrNotFound)
		}
		return nil, err
	}

	result := &model.VoteResult{Success: true}

	existing, err := s.voteRepo.Find(deviceID, sightingID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := &model.Vote{
			DeviceID:   deviceID,
			SightingID: sightingID,
			VoteType:   voteType,
		}
		if err := s.voteRepo.Create(vote); err != nil {
			return nil, err
		}
		result.Action = model.VoteActionCreated
		result.VoteType = &voteType

	case err != nil:
		return nil, err

	case existing.VoteType == voteType:
		// Same kind again: toggle off.
		if err := s.voteRepo.Delete(existing.ID); err != nil {
			return nil, err
		}
		result.Action = model.VoteActionRemoved

	default:
		// Opposite kind: switch in place, still one row.
		if err := s.voteRepo.UpdateType(existing.ID, voteType); err != nil {
			return nil, err
		}
		result.Action = model.VoteActionUpdated
		result.VoteType = &voteType
	}

	s.store.Delete(ctx, cache.VoteCountsKey(sightingID))
	return result, nil
}

// RemoveVote deletes the device's vote on a sighting. NotFound when no
// vote exists.
func (s *VoteService) RemoveVote(ctx context.Context, sightingID, deviceID uint) error {
	existing, err := s.voteRepo.Find(deviceID, sightingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("vote on sighting %d: %w", sightingID, ErrNotFound)
		}
		return err
	}

	if err := s.voteRepo.Delete(existing.ID); err != nil {
		return err
	}
	s.store.Delete(ctx, cache.VoteCountsKey(sightingID))
	return nil
}

// GetTally returns the up/down counts for one sighting, cache-first.
func (s *VoteService) GetTally(ctx context.Context, sightingID uint) (model.VoteTally, error) {
	var cached model.VoteTally
	if s.store.Get(ctx, cache.VoteCountsKey(sightingID), &cached) {
		return cached, nil
	}

	tally, err := s.voteRepo.Tally(sightingID)
	if err != nil {
		return model.VoteTally{}, err
	}
	s.store.Set(ctx, cache.VoteCountsKey(sightingID), tally, cache.TTLVoteCounts)
	return tally, nil
}

// BatchTallies resolves tallies for many sightings plus the viewer's
// own votes, using at most one grouped aggregate query for all cache
// misses combined and at most one query for the viewer's votes. The
// bound holds regardless of how many sightings are requested.
func (s *VoteService) BatchTallies(ctx context.Context, sightingIDs []uint, viewerDeviceID uint) (map[uint]model.VoteTally, map[uint]model.VoteType, error) {
	tallies := make(map[uint]model.VoteTally, len(sightingIDs))
	if len(sightingIDs) == 0 {
		return tallies, map[uint]model.VoteType{}, nil
	}

	var misses []uint
	for _, id := range sightingIDs {
		var cached model.VoteTally
		if s.store.Get(ctx, cache.VoteCountsKey(id), &cached) {
			tallies[id] = cached
		} else {
			misses = append(misses, id)
		}
	}

	if len(misses) > 0 {
		fresh, err := s.voteRepo.Tallies(misses)
		if err != nil {
			return nil, nil, err
		}
		for id, tally := range fresh {
			tallies[id] = tally
			s.store.Set(ctx, cache.VoteCountsKey(id), tally, cache.TTLVoteCounts)
		}
	}

	// Viewer's own votes are personal and cheap, so they are read live.
	ownVotes, err := s.voteRepo.ByDeviceForSightings(viewerDeviceID, sightingIDs)
	if err != nil {
		return nil, nil, err
	}
	return tallies, ownVotes, nil
}
