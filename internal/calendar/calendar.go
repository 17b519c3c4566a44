// Package calendar holds the draw-window rules of the campaign: which days a
// draw happens, the registration cutoff hour per day, and which draw a given
// registration timestamp competes in. Everything here is a pure function of
// wall-clock time in the campaign timezone.
package calendar

import (
	"errors"
	"time"
)

const (
	// StandardCutoffHour is the hour after which a registration rolls over
	// to the next draw window.
	StandardCutoffHour = 20
	// EveCutoffHour applies on Dec 24 and Dec 31.
	EveCutoffHour = 18

	// drawDateScanHorizon bounds the forward scan for the next draw day.
	// With only Sundays and two fixed holidays skipped it can never bind;
	// hitting it means the rules themselves are broken.
	drawDateScanHorizon = 14
)

var (
	ErrNoDrawDateInHorizon = errors.New("no valid draw date within scan horizon")
	ErrInvalidTimestamp    = errors.New("invalid registration timestamp")
)

var campaignLocation = loadCampaignLocation()

func loadCampaignLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

// Location returns the fixed campaign timezone used for all timestamp parsing.
func Location() *time.Location {
	return campaignLocation
}

// IsNoDrawDay reports whether no draw happens on the given day: Sundays,
// Christmas and New Year's Day.
func IsNoDrawDay(t time.Time) bool {
	if t.Weekday() == time.Sunday {
		return true
	}
	if t.Month() == time.December && t.Day() == 25 {
		return true
	}
	if t.Month() == time.January && t.Day() == 1 {
		return true
	}
	return false
}

// CutoffHour returns the registration cutoff hour for the given day.
func CutoffHour(t time.Time) int {
	if t.Month() == time.December && (t.Day() == 24 || t.Day() == 31) {
		return EveCutoffHour
	}
	return StandardCutoffHour
}

// NextValidDrawDate scans forward from the given day (inclusive) for the next
// day a draw happens. The scan is bounded; exhausting the horizon is a
// rule-set invariant violation and is returned as an error, never swallowed.
func NextValidDrawDate(from time.Time) (time.Time, error) {
	day := dateOnly(from)
	for i := 0; i < drawDateScanHorizon; i++ {
		if !IsNoDrawDay(day) {
			return day, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrNoDrawDateInHorizon
}

// EligibleDrawDate returns the draw day a registration competes in: the same
// day when registered on a draw day strictly before that day's cutoff hour,
// otherwise the next valid draw day after it. A zero timestamp yields
// ErrInvalidTimestamp.
func EligibleDrawDate(registeredAt time.Time) (time.Time, error) {
	if registeredAt.IsZero() {
		return time.Time{}, ErrInvalidTimestamp
	}
	day := dateOnly(registeredAt)
	if !IsNoDrawDay(day) && registeredAt.Hour() < CutoffHour(day) {
		return day, nil
	}
	return NextValidDrawDate(day.AddDate(0, 0, 1))
}

// FormatDrawDate renders a day in the canonical YYYY-MM-DD form.
func FormatDrawDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// NormalizeDrawDate canonicalizes a draw-date string to YYYY-MM-DD. Upstream
// exports use either DD/MM/YYYY or YYYY-MM-DD depending on the sheet.
func NormalizeDrawDate(s string) (string, bool) {
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, s, campaignLocation); err == nil {
			return FormatDrawDate(t), true
		}
	}
	return "", false
}

// timestampLayouts are the wall-clock formats seen in the source sheets.
var timestampLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a wall-clock timestamp in the campaign timezone.
// Returns the zero time and false when no known layout matches.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, campaignLocation); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
