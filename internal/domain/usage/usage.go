// Package usage describes generation token consumption over a time window.
package usage

import "time"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// IsValid checks if the period is supported.
func (p Period) IsValid() bool {
	return p == PeriodDay || p == PeriodMonth || p == PeriodTotal
}

// Budget is a token budget snapshot. A zero limit means unlimited.
type Budget struct {
	TokensLimit     int64
	TokensUsed      int64
	TokensRemaining int64
	ResetsAt        time.Time        // zero for PeriodTotal
	ByPrompt        map[string]int64 // today's tokens per prompt kind; PeriodDay only
}

// Exhausted reports whether a limited budget has no tokens left.
func (b Budget) Exhausted() bool {
	return b.TokensLimit > 0 && b.TokensRemaining <= 0
}

// Report is a generation usage report for a time period.
type Report struct {
	period   Period
	start    time.Time
	end      time.Time
	provider string
	budget   Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end time.Time, provider string, b Budget) Report {
	return Report{period: period, start: start, end: end, provider: provider, budget: b}
}

// Period returns the aggregation granularity.
func (r Report) Period() Period { return r.period }

// Start returns the period start (zero for PeriodTotal).
func (r Report) Start() time.Time { return r.start }

// End returns the period end (zero for PeriodTotal).
func (r Report) End() time.Time { return r.end }

// Provider returns the generation provider name.
func (r Report) Provider() string { return r.provider }

// Budget returns the budget snapshot.
func (r Report) Budget() Budget { return r.budget }
