package services

import (
	"context"
	"sort"

	"github.com/google/logger"

	"promolotto/internal/models"
)

// WinnersService resolves winners for every contest of a snapshot and merges
// the outcomes into campaign-wide statistics.
type WinnersService struct {
	batchSize int
}

// NewWinnersService creates a WinnersService. batchSize controls how many
// contests are resolved between cancellation checks.
func NewWinnersService(batchSize int) *WinnersService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &WinnersService{batchSize: batchSize}
}

// CalculateAllWinners runs winner resolution over every contest present in
// either the results or the entries, with the prize pool resolved from the
// scope key. Contests are processed in fixed-size batches with a cancellation
// check between batches; a cancelled run returns ctx.Err() and no partial
// result. The per-contest list is sorted by contest id descending (newest
// first); that ordering is presentation convenience and does not feed the
// statistics.
func (s *WinnersService) CalculateAllWinners(ctx context.Context, entries []models.Ticket, results []models.Result, scope string) (*models.CampaignResult, error) {
	resultByContest := make(map[string]*models.Result, len(results))
	for i := range results {
		resultByContest[results[i].ContestID] = &results[i]
	}
	entriesByContest := make(map[string][]models.Ticket)
	for _, e := range entries {
		entriesByContest[e.ContestID] = append(entriesByContest[e.ContestID], e)
	}

	// Contest universe: a contest with entries but no posted result still
	// shows up, with HasResult=false.
	contestIDs := make([]string, 0, len(resultByContest))
	for id := range resultByContest {
		contestIDs = append(contestIDs, id)
	}
	for id := range entriesByContest {
		if _, ok := resultByContest[id]; !ok {
			contestIDs = append(contestIDs, id)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(contestIDs)))

	pool := PrizePool(scope)
	out := &models.CampaignResult{
		Stats: models.CampaignStats{WinnersByTier: make(map[int]int)},
	}

	for start := 0; start < len(contestIDs); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + s.batchSize
		if end > len(contestIDs) {
			end = len(contestIDs)
		}
		for _, id := range contestIDs[start:end] {
			set := ResolveContestWinners(entriesByContest[id], resultByContest[id], pool)
			if set.ContestID == "" {
				set.ContestID = id
			}
			out.PerContest = append(out.PerContest, set)

			if !set.HasResult {
				continue
			}
			out.Stats.ContestsWithResult++
			for tier := 1; tier <= MaxTier; tier++ {
				for _, entry := range set.ByTier[tier] {
					if entry.Valid {
						out.Stats.WinnersByTier[tier]++
					}
				}
			}
			if set.WinningTier == 0 {
				continue
			}
			out.Stats.ContestsWithWinners++
			out.Stats.TotalAwarded += set.PrizePool
			// Only the winning tier receives money; lower tiers stay in the
			// per-contest buckets for visibility.
			for _, w := range set.Winners {
				if w.Matches != set.WinningTier {
					continue
				}
				out.AllWinners = append(out.AllWinners, w)
				out.Stats.TotalWinners++
			}
		}
	}

	logger.Infof("resolved %d contests for scope %q: %d with result, %d with winners, %d winners, %.2f awarded",
		len(contestIDs), scope, out.Stats.ContestsWithResult, out.Stats.ContestsWithWinners,
		out.Stats.TotalWinners, out.Stats.TotalAwarded)
	return out, nil
}
