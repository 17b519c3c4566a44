package services

import (
	"context"

	"github.com/google/logger"

	"promolotto/internal/calendar"
	"promolotto/internal/models"
)

// Reason strings surfaced on validation outcomes.
const (
	ReasonPreValidated   = "pre-validated upstream"
	ReasonMissingOwner   = "missing owner id"
	ReasonNoRecharge     = "no recharge for owner"
	ReasonBadTimestamp   = "unparseable registration timestamp"
	ReasonRechargeFound  = "funding recharge found"
	ReasonTimingMismatch = "recharge exists but timing does not match draw window"
)

const defaultBatchSize = 200

type matchFunc func(models.Ticket, []models.Recharge, []models.Ticket) (*models.Recharge, error)

// ValidationService reconciles every ticket of a snapshot against the
// recharge pool of its owner.
type ValidationService struct {
	match     matchFunc
	batchSize int
}

// NewValidationService creates a ValidationService. batchSize controls how
// many tickets are processed between cancellation checks; non-positive values
// fall back to the default.
func NewValidationService(batchSize int) *ValidationService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &ValidationService{
		match:     FindMatchingRecharge,
		batchSize: batchSize,
	}
}

// ValidateTicket classifies a single ticket. Bad data always degrades to a
// negative outcome with a reason; the only possible error is a calendar-rule
// invariant violation propagated from the matcher.
func (s *ValidationService) ValidateTicket(ticket models.Ticket, rechargesByOwner map[string][]models.Recharge, ticketsByOwner map[string][]models.Ticket) (models.ValidationOutcome, error) {
	outcome := models.ValidationOutcome{
		TicketID: ticket.TicketID,
		Cutoff:   registeredAfterCutoff(ticket),
	}

	// Upstream verdicts are trusted verbatim; the matcher is not consulted.
	if upstream := models.NormalizeStatus(ticket.UpstreamStatus); upstream != models.StatusUnknown {
		outcome.Status = upstream
		outcome.Reason = ReasonPreValidated
		return outcome, nil
	}

	if ticket.OwnerID == "" {
		outcome.Status = models.StatusInvalid
		outcome.Reason = ReasonMissingOwner
		return outcome, nil
	}
	if ticket.RegisteredAt.IsZero() {
		outcome.Status = models.StatusUnknown
		outcome.Reason = ReasonBadTimestamp
		return outcome, nil
	}
	recharges := rechargesByOwner[ticket.OwnerID]
	if len(recharges) == 0 {
		outcome.Status = models.StatusInvalid
		outcome.Reason = ReasonNoRecharge
		return outcome, nil
	}

	matched, err := s.match(ticket, recharges, ticketsByOwner[ticket.OwnerID])
	if err != nil {
		return models.ValidationOutcome{}, err
	}
	if matched != nil {
		outcome.Status = models.StatusValid
		outcome.Reason = ReasonRechargeFound
		outcome.MatchedRecharge = matched
		return outcome, nil
	}
	outcome.Status = models.StatusInvalid
	outcome.Reason = ReasonTimingMismatch
	return outcome, nil
}

// ValidateAll validates every ticket of the snapshot. Tickets are grouped by
// owner once, then processed independently in fixed-size batches with a
// cancellation check between batches; the output is identical to a fully
// synchronous run. A cancelled run returns ctx.Err() and no partial report.
func (s *ValidationService) ValidateAll(ctx context.Context, tickets []models.Ticket, recharges []models.Recharge) (*models.ValidationReport, error) {
	rechargesByOwner := make(map[string][]models.Recharge)
	for _, r := range recharges {
		rechargesByOwner[r.OwnerID] = append(rechargesByOwner[r.OwnerID], r)
	}
	ticketsByOwner := make(map[string][]models.Ticket)
	for _, t := range tickets {
		ticketsByOwner[t.OwnerID] = append(ticketsByOwner[t.OwnerID], t)
	}

	report := &models.ValidationReport{
		Outcomes: make(map[string]models.ValidationOutcome, len(tickets)),
	}
	for start := 0; start < len(tickets); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + s.batchSize
		if end > len(tickets) {
			end = len(tickets)
		}
		for _, ticket := range tickets[start:end] {
			outcome, err := s.ValidateTicket(ticket, rechargesByOwner, ticketsByOwner)
			if err != nil {
				return nil, err
			}
			report.Outcomes[ticket.TicketID] = outcome
			report.Stats.Total++
			switch outcome.Status {
			case models.StatusValid:
				report.Stats.Valid++
			case models.StatusInvalid:
				report.Stats.Invalid++
			default:
				report.Stats.Unknown++
			}
			if outcome.Cutoff {
				report.Stats.Cutoff++
			}
		}
	}

	logger.Infof("validated %d tickets: %d valid, %d invalid, %d unknown, %d after cutoff",
		report.Stats.Total, report.Stats.Valid, report.Stats.Invalid, report.Stats.Unknown, report.Stats.Cutoff)
	return report, nil
}

// registeredAfterCutoff is computed for every ticket regardless of validity:
// the dashboard flags late registrations even on tickets that fail for other
// reasons.
func registeredAfterCutoff(ticket models.Ticket) bool {
	if ticket.RegisteredAt.IsZero() {
		return false
	}
	return ticket.RegisteredAt.Hour() >= calendar.CutoffHour(ticket.RegisteredAt)
}
