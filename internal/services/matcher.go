package services

import (
	"errors"
	"sort"

	"promolotto/internal/calendar"
	"promolotto/internal/models"
)

// FindMatchingRecharge finds the single recharge that legitimately funds the
// given ticket, or nil when the ticket is unfunded. ownerRecharges and
// ownerTickets are all records for the ticket's owner; the ticket itself may
// appear in ownerTickets.
//
// The matching is a greedy temporal assignment: the first ticket registered
// after a recharge, within that recharge's eligible draw window, consumes it.
// A recharge already consumed in one window may still fund a ticket in a
// different window. The only error returned is a calendar-rule invariant
// violation; bad data simply yields nil.
func FindMatchingRecharge(ticket models.Ticket, ownerRecharges []models.Recharge, ownerTickets []models.Ticket) (*models.Recharge, error) {
	if ticket.RegisteredAt.IsZero() || len(ownerRecharges) == 0 {
		return nil, nil
	}

	wantDate, ok := calendar.NormalizeDrawDate(ticket.DrawDate)
	if !ok {
		return nil, nil
	}

	// Only recharges strictly earlier than the registration can fund it.
	// Zero-amount rows are recorded upstream but never fund anything.
	candidates := make([]models.Recharge, 0, len(ownerRecharges))
	for _, r := range ownerRecharges {
		if r.RechargedAt.IsZero() || r.Amount <= 0 {
			continue
		}
		if r.RechargedAt.Before(ticket.RegisteredAt) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Prefer the most recent funding event.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].RechargedAt.After(candidates[j].RechargedAt)
	})

	for i := range candidates {
		candidate := candidates[i]

		eligible, err := calendar.EligibleDrawDate(candidate.RechargedAt)
		if err != nil {
			if errors.Is(err, calendar.ErrNoDrawDateInHorizon) {
				return nil, err
			}
			continue
		}
		eligibleDate := calendar.FormatDrawDate(eligible)
		if eligibleDate != wantDate {
			continue
		}

		claimed, err := rechargeClaimed(ticket, candidate, eligibleDate, ownerTickets)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return &candidate, nil
		}
	}
	return nil, nil
}

// rechargeClaimed reports whether an earlier ticket of the same owner already
// consumed the candidate recharge: some other ticket registered strictly
// between the recharge and this ticket, mapping to the same eligible draw
// date. Note this does not check that the earlier ticket actually matched
// this specific recharge, only that it targets the same window; when several
// recharges feed one owner and window this can reject a recharge that is in
// fact still free. That behavior is intentional and mirrored by the tests.
func rechargeClaimed(ticket models.Ticket, candidate models.Recharge, candidateDate string, ownerTickets []models.Ticket) (bool, error) {
	for _, other := range ownerTickets {
		if other.TicketID == ticket.TicketID {
			continue
		}
		if !other.RegisteredAt.After(candidate.RechargedAt) || !other.RegisteredAt.Before(ticket.RegisteredAt) {
			continue
		}
		eligible, err := calendar.EligibleDrawDate(other.RegisteredAt)
		if err != nil {
			if errors.Is(err, calendar.ErrNoDrawDateInHorizon) {
				return false, err
			}
			continue
		}
		if calendar.FormatDrawDate(eligible) == candidateDate {
			return true, nil
		}
	}
	return false, nil
}
