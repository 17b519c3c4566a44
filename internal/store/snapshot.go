// Package store is the data-acquisition layer: it parses the upstream CSV
// exports into an immutable in-memory snapshot and hands the current snapshot
// to the computation services. A refresh builds a whole new snapshot; records
// are never mutated in place.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/logger"

	"promolotto/internal/models"
)

// Snapshot is one immutable view of the campaign data. Its fingerprint is a
// content hash used to key the result caches: identical data yields the same
// fingerprint across refreshes.
type Snapshot struct {
	Tickets   []models.Ticket
	Recharges []models.Recharge
	Results   []models.Result
	LoadedAt  time.Time

	fingerprint string
}

// NewSnapshot builds a snapshot and computes its fingerprint.
func NewSnapshot(tickets []models.Ticket, recharges []models.Recharge, results []models.Result) *Snapshot {
	return &Snapshot{
		Tickets:     tickets,
		Recharges:   recharges,
		Results:     results,
		LoadedAt:    time.Now(),
		fingerprint: computeFingerprint(tickets, recharges, results),
	}
}

// Fingerprint returns the content hash of the snapshot.
func (s *Snapshot) Fingerprint() string {
	return s.fingerprint
}

// WinnersFingerprint keys a winner computation: same data, different scope,
// different cache entry.
func (s *Snapshot) WinnersFingerprint(scope string) string {
	return s.fingerprint + ":" + scope
}

func computeFingerprint(tickets []models.Ticket, recharges []models.Recharge, results []models.Result) string {
	h := sha256.New()
	for _, t := range tickets {
		fmt.Fprintf(h, "t|%s|%s|%v|%d|%s|%s|%s\n",
			t.TicketID, t.OwnerID, t.ChosenNumbers, t.RegisteredAt.UnixNano(), t.ContestID, t.DrawDate, t.UpstreamStatus)
	}
	for _, r := range recharges {
		fmt.Fprintf(h, "r|%s|%s|%d|%.2f\n", r.RechargeID, r.OwnerID, r.RechargedAt.UnixNano(), r.Amount)
	}
	for _, r := range results {
		fmt.Fprintf(h, "w|%s|%s|%v|%t\n", r.ContestID, r.DrawDate, r.WinningNumbers, r.NoDraw)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Store holds the current snapshot and knows where to reload it from.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot

	ticketsPath   string
	rechargesPath string
	resultsPath   string
}

// New creates a Store with an empty snapshot. The paths may be empty when the
// data arrives only through uploads.
func New(ticketsPath, rechargesPath, resultsPath string) *Store {
	return &Store{
		snap:          NewSnapshot(nil, nil, nil),
		ticketsPath:   ticketsPath,
		rechargesPath: rechargesPath,
		resultsPath:   resultsPath,
	}
}

// Current returns the active snapshot. Never nil.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace installs a new snapshot.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	logger.Infof("snapshot replaced: %d tickets, %d recharges, %d results, fingerprint %.12s",
		len(snap.Tickets), len(snap.Recharges), len(snap.Results), snap.Fingerprint())
}

// ReplaceTickets swaps only the ticket set, keeping recharges and results.
func (s *Store) ReplaceTickets(tickets []models.Ticket) {
	cur := s.Current()
	s.Replace(NewSnapshot(tickets, cur.Recharges, cur.Results))
}

// ReplaceRecharges swaps only the recharge set.
func (s *Store) ReplaceRecharges(recharges []models.Recharge) {
	cur := s.Current()
	s.Replace(NewSnapshot(cur.Tickets, recharges, cur.Results))
}

// ReplaceResults swaps only the result set.
func (s *Store) ReplaceResults(results []models.Result) {
	cur := s.Current()
	s.Replace(NewSnapshot(cur.Tickets, cur.Recharges, results))
}

// Refresh reloads every configured CSV source and installs the new snapshot,
// returning its fingerprint. Sources with no configured path keep their
// current records.
func (s *Store) Refresh() (string, error) {
	cur := s.Current()
	tickets, recharges, results := cur.Tickets, cur.Recharges, cur.Results

	if s.ticketsPath != "" {
		loaded, err := LoadTicketsFile(s.ticketsPath)
		if err != nil {
			return "", fmt.Errorf("refresh tickets: %w", err)
		}
		tickets = loaded
	}
	if s.rechargesPath != "" {
		loaded, err := LoadRechargesFile(s.rechargesPath)
		if err != nil {
			return "", fmt.Errorf("refresh recharges: %w", err)
		}
		recharges = loaded
	}
	if s.resultsPath != "" {
		loaded, err := LoadResultsFile(s.resultsPath)
		if err != nil {
			return "", fmt.Errorf("refresh results: %w", err)
		}
		results = loaded
	}

	snap := NewSnapshot(tickets, recharges, results)
	s.Replace(snap)
	return snap.Fingerprint(), nil
}
