package cache

import "fmt"

// Key builders for the cached derivations. Writers that mutate the
// underlying aggregate invalidate the matching key.

func LotsListKey() string {
	return "lots:all"
}

func LotStatsKey(lotID uint) string {
	return fmt.Sprintf("lot_stats:%d", lotID)
}

func VoteCountsKey(sightingID uint) string {
	return fmt.Sprintf("vote_counts:%d", sightingID)
}

// PredictionKey is per-lot, or global when lotID is nil.
func PredictionKey(lotID *uint) string {
	if lotID == nil {
		return "prediction:global"
	}
	return fmt.Sprintf("prediction:%d", *lotID)
}
