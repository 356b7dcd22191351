package usage

import (
	"testing"
	"time"
)

func TestNewReport(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	b := Budget{TokensLimit: 1000000, TokensUsed: 384200, TokensRemaining: 615800, ResetsAt: end}

	r := NewReport(PeriodMonth, start, end, "openai", b)

	if r.Period() != PeriodMonth {
		t.Errorf("Period() = %q", r.Period())
	}
	if !r.Start().Equal(start) || !r.End().Equal(end) {
		t.Errorf("unexpected window %v..%v", r.Start(), r.End())
	}
	if r.Provider() != "openai" {
		t.Errorf("Provider() = %q", r.Provider())
	}
	if r.Budget().TokensUsed != 384200 {
		t.Errorf("Budget().TokensUsed = %d", r.Budget().TokensUsed)
	}
	if r.Budget().Exhausted() {
		t.Error("budget should not be exhausted")
	}
}

func TestBudget_Exhausted(t *testing.T) {
	tests := []struct {
		name string
		b    Budget
		want bool
	}{
		{"unlimited", Budget{}, false},
		{"remaining", Budget{TokensLimit: 10, TokensRemaining: 1}, false},
		{"spent", Budget{TokensLimit: 10, TokensRemaining: 0}, true},
	}
	for _, tc := range tests {
		if got := tc.b.Exhausted(); got != tc.want {
			t.Errorf("%s: Exhausted() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPeriod_IsValid(t *testing.T) {
	for _, p := range []Period{PeriodDay, PeriodMonth, PeriodTotal} {
		if !p.IsValid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Period("week").IsValid() {
		t.Error("week should be invalid")
	}
}
