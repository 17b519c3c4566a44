package services

import (
	"math"
	"sort"
	"strings"

	"promolotto/internal/models"
)

const (
	// MinWinningMatches is the lowest prize-eligible tier.
	MinWinningMatches = 3
	// MaxTier is the highest possible match count.
	MaxTier = 5
	// winningNumbersRequired is how many numbers a well-formed draw posts.
	winningNumbersRequired = 5
)

// BaselinePrizePool applies to aggregate views and to scopes with no
// dedicated pool.
const BaselinePrizePool = 10000

// prizePools maps a platform/segment scope key to its fixed per-contest pool.
var prizePools = map[string]float64{
	"web": 10000,
	"sms": 5000,
	"app": 7500,
}

// PrizePool resolves the per-contest prize pool for a scope key.
func PrizePool(scope string) float64 {
	if pool, ok := prizePools[strings.ToLower(strings.TrimSpace(scope))]; ok {
		return pool
	}
	return BaselinePrizePool
}

// ResolveContestWinners scores every entry of one contest against its posted
// result and splits the prize pool among the highest qualifying tier.
//
// A missing result, a no-draw marker or a result without exactly five winning
// numbers yields a zero-value set: HasResult=false, no winners, tier 0. The
// entry count is preserved so the dashboard can still show participation.
func ResolveContestWinners(entries []models.Ticket, result *models.Result, prizePool float64) models.ContestWinnerSet {
	set := models.ContestWinnerSet{
		TotalEntries: len(entries),
		ByTier:       make(map[int][]models.TierEntry),
		PrizePool:    prizePool,
	}
	if result != nil {
		set.ContestID = result.ContestID
		set.DrawDate = result.DrawDate
	}
	if result == nil || result.NoDraw || len(result.WinningNumbers) != winningNumbersRequired {
		return set
	}

	set.HasResult = true
	set.WinningNumbers = result.WinningNumbers

	// Bucket every entry, valid or not; only valid entries count toward the
	// winning tier and the payout.
	validByTier := make(map[int]int)
	for _, entry := range entries {
		count, matched := CountMatches(entry.ChosenNumbers, result.WinningNumbers)
		if count == 0 {
			continue
		}
		valid := models.NormalizeStatus(entry.UpstreamStatus) != models.StatusInvalid
		set.ByTier[count] = append(set.ByTier[count], models.TierEntry{
			Ticket:         entry,
			Matches:        count,
			MatchedNumbers: matched,
			Valid:          valid,
		})
		if valid {
			validByTier[count]++
		}
	}

	for tier := MaxTier; tier >= MinWinningMatches; tier-- {
		if validByTier[tier] > 0 {
			set.WinningTier = tier
			break
		}
	}
	if set.WinningTier == 0 {
		return set
	}

	// The whole pool goes to the single winning tier; lower tiers appear in
	// the buckets for visibility but receive nothing.
	set.PrizePerWinner = roundCents(prizePool / float64(validByTier[set.WinningTier]))

	for tier := MaxTier; tier >= MinWinningMatches; tier-- {
		for _, entry := range set.ByTier[tier] {
			if !entry.Valid {
				continue
			}
			prize := 0.0
			if tier == set.WinningTier {
				prize = set.PrizePerWinner
			}
			set.Winners = append(set.Winners, models.Winner{
				TicketID:       entry.Ticket.TicketID,
				OwnerID:        entry.Ticket.OwnerID,
				ContestID:      entry.Ticket.ContestID,
				Matches:        entry.Matches,
				MatchedNumbers: entry.MatchedNumbers,
				Prize:          prize,
			})
		}
	}
	sort.SliceStable(set.Winners, func(i, j int) bool {
		return set.Winners[i].Matches > set.Winners[j].Matches
	})
	return set
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
