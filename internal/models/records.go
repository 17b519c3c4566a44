package models

import "time"

// Ticket is one campaign entry as delivered by the data-acquisition layer.
// Records are immutable for the duration of a reconciliation run; a refresh
// replaces the whole snapshot instead of mutating tickets in place.
type Ticket struct {
	TicketID       string    `json:"ticketId"`
	OwnerID        string    `json:"ownerId"`
	ChosenNumbers  []int     `json:"chosenNumbers"`
	RegisteredAt   time.Time `json:"registeredAt"` // zero value means the source timestamp was unparseable
	ContestID      string    `json:"contestId"`
	DrawDate       string    `json:"drawDate"` // DD/MM/YYYY or YYYY-MM-DD, as exported upstream
	UpstreamStatus string    `json:"upstreamStatus"`
}

// Recharge is one funding event for an owner.

type Recharge struct {
	RechargeID  string    `json:"rechargeId"`
	OwnerID     string    `json:"ownerId"`
	RechargedAt time.Time `json:"rechargedAt"`
	Amount      float64   `json:"amount"`
	RawRow      []string  `json:"-"` // original CSV row, kept for diagnostics
}

// Result is the posted outcome of one contest draw. A contest has at most one
// result; NoDraw marks days the draw was skipped.
type Result struct {
	ContestID      string `json:"contestId"`
	DrawDate       string `json:"drawDate"`
	WinningNumbers []int  `json:"winningNumbers"`
	NoDraw         bool   `json:"noDraw"`
}

// ValidationOutcome is the per-ticket verdict of a reconciliation run.
type ValidationOutcome struct {
	TicketID        string    `json:"ticketId"`
	Status          Status    `json:"status"`
	Reason          string    `json:"reason"`
	Cutoff          bool      `json:"cutoff"` // registered at or after the cutoff hour of its day
	MatchedRecharge *Recharge `json:"matchedRecharge,omitempty"`
}

// ValidationStats aggregates one run over the full ticket set.
type ValidationStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Unknown int `json:"unknown"`
	Cutoff  int `json:"cutoff"`
}

// ValidationReport is the full output of validating a snapshot.
type ValidationReport struct {
	Outcomes map[string]ValidationOutcome `json:"outcomes"` // keyed by ticket id
	Stats    ValidationStats              `json:"stats"`
}

// TierEntry is one scored ticket inside a contest's match-count bucket.
// Buckets keep invalid entries too, so the dashboard can show why a ticket
// matched but did not pay out.
type TierEntry struct {
	Ticket         Ticket `json:"ticket"`
	Matches        int    `json:"matches"`
	MatchedNumbers []int  `json:"matchedNumbers"`
	Valid          bool   `json:"valid"`
}

// Winner is a flattened prize-eligible entry, used for the campaign-wide list
// and the CSV export.
type Winner struct {
	TicketID       string  `json:"ticketId"`
	OwnerID        string  `json:"ownerId"`
	ContestID      string  `json:"contestId"`
	Matches        int     `json:"matches"`
	MatchedNumbers []int   `json:"matchedNumbers"`
	Prize          float64 `json:"prize"`
}

// ContestWinnerSet is the resolved outcome of a single contest.
type ContestWinnerSet struct {
	ContestID      string              `json:"contestId"`
	DrawDate       string              `json:"drawDate"`
	WinningNumbers []int               `json:"winningNumbers"`
	HasResult      bool                `json:"hasResult"`
	TotalEntries   int                 `json:"totalEntries"`
	// ByTier buckets entries by match count 1..5; WinningTier is 0 when no
	// tier qualified.
	ByTier         map[int][]TierEntry `json:"byTier"`
	WinningTier    int                 `json:"winningTier"`
	PrizePool      float64             `json:"prizePool"`
	PrizePerWinner float64             `json:"prizePerWinner"`
	Winners        []Winner            `json:"winners"`
}

// CampaignStats aggregates winner resolution across every contest.
type CampaignStats struct {
	ContestsWithResult  int         `json:"contestsWithResult"`
	ContestsWithWinners int         `json:"contestsWithWinners"`
	WinnersByTier       map[int]int `json:"winnersByTier"` // valid entries per tier across all contests
	TotalWinners        int         `json:"totalWinners"`
	TotalAwarded        float64     `json:"totalAwarded"`
}

// CampaignResult is the full output of a winner-determination run.
type CampaignResult struct {
	PerContest []ContestWinnerSet `json:"perContest"`
	AllWinners []Winner           `json:"allWinners"`
	Stats      CampaignStats      `json:"stats"`
}
