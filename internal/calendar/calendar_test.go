package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, Location())
}

func TestIsNoDrawDay(t *testing.T) {
	tests := []struct {
		name   string
		day    time.Time
		expect bool
	}{
		{"regular monday", date(2025, time.December, 15, 0, 0), false},
		{"saturday", date(2025, time.December, 13, 0, 0), false},
		{"sunday", date(2025, time.December, 14, 0, 0), true},
		{"christmas", date(2025, time.December, 25, 0, 0), true},
		{"new year", date(2026, time.January, 1, 0, 0), true},
		{"christmas eve", date(2025, time.December, 24, 0, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNoDrawDay(tc.day); got != tc.expect {
				t.Fatalf("IsNoDrawDay(%s) = %t, want %t", tc.day.Format("2006-01-02"), got, tc.expect)
			}
		})
	}
}

func TestCutoffHour(t *testing.T) {
	tests := []struct {
		name   string
		day    time.Time
		expect int
	}{
		{"regular day", date(2025, time.December, 15, 0, 0), StandardCutoffHour},
		{"christmas eve", date(2025, time.December, 24, 0, 0), EveCutoffHour},
		{"new year eve", date(2025, time.December, 31, 0, 0), EveCutoffHour},
		{"christmas itself", date(2025, time.December, 25, 0, 0), StandardCutoffHour},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CutoffHour(tc.day); got != tc.expect {
				t.Fatalf("CutoffHour(%s) = %d, want %d", tc.day.Format("2006-01-02"), got, tc.expect)
			}
		})
	}
}

func TestNextValidDrawDate(t *testing.T) {
	tests := []struct {
		name   string
		from   time.Time
		expect string
	}{
		{"already a draw day", date(2025, time.December, 15, 0, 0), "2025-12-15"},
		{"sunday rolls to monday", date(2025, time.December, 14, 0, 0), "2025-12-15"},
		{"christmas rolls to the 26th", date(2025, time.December, 25, 0, 0), "2025-12-26"},
		{"new year rolls to january 2nd", date(2026, time.January, 1, 0, 0), "2026-01-02"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextValidDrawDate(tc.from)
			if err != nil {
				t.Fatalf("NextValidDrawDate() error: %v", err)
			}
			if FormatDrawDate(got) != tc.expect {
				t.Fatalf("NextValidDrawDate(%s) = %s, want %s", tc.from.Format("2006-01-02"), FormatDrawDate(got), tc.expect)
			}
		})
	}
}

func TestEligibleDrawDate(t *testing.T) {
	tests := []struct {
		name   string
		reg    time.Time
		expect string
	}{
		{"before cutoff same day", date(2025, time.December, 15, 10, 30), "2025-12-15"},
		{"at cutoff rolls over", date(2025, time.December, 15, 20, 0), "2025-12-16"},
		{"after cutoff rolls over", date(2025, time.December, 15, 21, 15), "2025-12-16"},
		{"saturday after cutoff skips sunday", date(2025, time.December, 13, 20, 5), "2025-12-15"},
		{"sunday registration targets monday", date(2025, time.December, 14, 9, 0), "2025-12-15"},
		{"christmas eve early cutoff skips christmas", date(2025, time.December, 24, 19, 0), "2025-12-26"},
		{"christmas eve before early cutoff", date(2025, time.December, 24, 17, 59), "2025-12-24"},
		{"new year eve after cutoff skips january 1st", date(2025, time.December, 31, 18, 30), "2026-01-02"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EligibleDrawDate(tc.reg)
			if err != nil {
				t.Fatalf("EligibleDrawDate() error: %v", err)
			}
			if FormatDrawDate(got) != tc.expect {
				t.Fatalf("EligibleDrawDate(%s) = %s, want %s", tc.reg.Format("2006-01-02 15:04"), FormatDrawDate(got), tc.expect)
			}
		})
	}
}

func TestEligibleDrawDateInvalidTimestamp(t *testing.T) {
	if _, err := EligibleDrawDate(time.Time{}); err != ErrInvalidTimestamp {
		t.Fatalf("EligibleDrawDate(zero) error = %v, want ErrInvalidTimestamp", err)
	}
}

func TestNormalizeDrawDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
		ok     bool
	}{
		{"iso form", "2025-12-15", "2025-12-15", true},
		{"brazilian form", "15/12/2025", "2025-12-15", true},
		{"garbage", "next monday", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeDrawDate(tc.input)
			if ok != tc.ok || got != tc.expect {
				t.Fatalf("NormalizeDrawDate(%q) = (%q, %t), want (%q, %t)", tc.input, got, ok, tc.expect, tc.ok)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, ok := ParseTimestamp("15/12/2025 14:30:00")
	if !ok {
		t.Fatal("ParseTimestamp() failed on DD/MM/YYYY layout")
	}
	if got.Hour() != 14 || got.Day() != 15 || got.Month() != time.December {
		t.Fatalf("ParseTimestamp() = %v, want 2025-12-15 14:30", got)
	}
	if _, ok := ParseTimestamp("not a time"); ok {
		t.Fatal("ParseTimestamp() accepted garbage")
	}
}
