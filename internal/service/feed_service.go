package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"gorm.io/gorm"
)

// feedWindow bounds how far back the sightings feed reaches.
const feedWindow = 3 * time.Hour

// FeedService assembles the recent-sightings feed with vote tallies and
// the viewer's own votes. However many sightings the window holds, the
// vote data costs at most two dependent queries: one grouped aggregate
// for all tally cache misses, one for the viewer's votes.
type FeedService struct {
	sightingRepo *repository.SightingRepository
	lotRepo      *repository.LotRepository
	votes        *VoteService
	now          func() time.Time
}

func NewFeedService(sightingRepo *repository.SightingRepository, lotRepo *repository.LotRepository, votes *VoteService) *FeedService {
	return &FeedService{
		sightingRepo: sightingRepo,
		lotRepo:      lotRepo,
		votes:        votes,
		now:          time.Now,
	}
}

// GetAllFeeds returns recent sightings grouped by lot, one feed per
// active lot.
func (s *FeedService) GetAllFeeds(ctx context.Context, viewer *model.Device) (*model.AllFeedsResponse, error) {
	lots, err := s.lotRepo.ListActive()
	if err != nil {
		return nil, err
	}
	lotByID := make(map[uint]model.ParkingLot, len(lots))
	for _, lot := range lots {
		lotByID[lot.ID] = lot
	}

	sightings, err := s.sightingRepo.ListSince(s.now().Add(-feedWindow), nil)
	if err != nil {
		return nil, err
	}

	built, err := s.buildFeedSightings(ctx, sightings, viewer, lotByID)
	if err != nil {
		return nil, err
	}

	byLot := make(map[uint][]model.FeedSighting, len(lots))
	for _, fs := range built {
		byLot[fs.ParkingLotID] = append(byLot[fs.ParkingLotID], fs)
	}

	total := 0
	feeds := make([]model.FeedResponse, 0, len(lots))
	for _, lot := range lots {
		lotSightings := byLot[lot.ID]
		if lotSightings == nil {
			lotSightings = []model.FeedSighting{}
		}
		total += len(lotSightings)
		feeds = append(feeds, model.FeedResponse{
			ParkingLotID:   lot.ID,
			ParkingLotName: lot.Name,
			ParkingLotCode: lot.Code,
			Sightings:      lotSightings,
			TotalSightings: len(lotSightings),
		})
	}

	return &model.AllFeedsResponse{
		Feeds:          feeds,
		TotalSightings: total,
	}, nil
}

// GetLotFeed returns the recent-sightings feed for one lot.
func (s *FeedService) GetLotFeed(ctx context.Context, lotID uint, viewer *model.Device) (*model.FeedResponse, error) {
	lot, err := s.lotRepo.FindByID(lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parking lot %d: %w", lotID, ErrNotFound)
		}
		return nil, err
	}

	sightings, err := s.sightingRepo.ListSince(s.now().Add(-feedWindow), &lot.ID)
	if err != nil {
		return nil, err
	}

	built, err := s.buildFeedSightings(ctx, sightings, viewer, map[uint]model.ParkingLot{lot.ID: *lot})
	if err != nil {
		return nil, err
	}

	return &model.FeedResponse{
		ParkingLotID:   lot.ID,
		ParkingLotName: lot.Name,
		ParkingLotCode: lot.Code,
		Sightings:      built,
		TotalSightings: len(built),
	}, nil
}

// buildFeedSightings attaches vote data and rendering fields to raw
// sightings. The two-query bound lives in VoteService.BatchTallies.
func (s *FeedService) buildFeedSightings(ctx context.Context, sightings []model.TapsSighting, viewer *model.Device, lotByID map[uint]model.ParkingLot) ([]model.FeedSighting, error) {
	if len(sightings) == 0 {
		return []model.FeedSighting{}, nil
	}

	ids := make([]uint, len(sightings))
	for i, sighting := range sightings {
		ids[i] = sighting.ID
	}

	tallies, ownVotes, err := s.votes.BatchTallies(ctx, ids, viewer.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]model.FeedSighting, 0, len(sightings))
	for _, sighting := range sightings {
		lot := lotByID[sighting.ParkingLotID]
		tally := tallies[sighting.ID]

		var userVote *model.VoteType
		if vt, ok := ownVotes[sighting.ID]; ok {
			v := vt
			userVote = &v
		}

		out = append(out, model.FeedSighting{
			ID:             sighting.ID,
			ParkingLotID:   sighting.ParkingLotID,
			ParkingLotName: lot.Name,
			ParkingLotCode: lot.Code,
			ReportedAt:     sighting.ReportedAt,
			Notes:          sighting.Notes,
			Upvotes:        tally.Upvotes,
			Downvotes:      tally.Downvotes,
			NetScore:       tally.NetScore(),
			UserVote:       userVote,
			MinutesAgo:     int(now.Sub(sighting.ReportedAt).Minutes()),
		})
	}
	return out, nil
}
