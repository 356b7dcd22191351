package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/laptopmatch/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (generation disabled or unlimited).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := s.now()
	var start, end time.Time
	var b domusage.Budget
	provider := ""
	if s.br != nil {
		provider = s.br.Provider()
	}

	switch period {
	case domusage.PeriodDay:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
		if s.br != nil {
			b = domusage.Budget{
				TokensLimit:     s.br.DailyLimit(),
				TokensUsed:      s.br.DailyUsed(),
				TokensRemaining: s.br.RemainingDaily(),
				ByPrompt:        s.br.DailyUsedByPrompt(),
			}
		}
		b.ResetsAt = end
	case domusage.PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		if s.br != nil {
			b = domusage.Budget{
				TokensLimit:     s.br.MonthlyLimit(),
				TokensUsed:      s.br.MonthlyUsed(),
				TokensRemaining: s.br.RemainingMonthly(),
			}
		}
		b.ResetsAt = end
	default:
		// total: no boundaries, the monthly counter is the longest one kept
		if s.br != nil {
			b = domusage.Budget{
				TokensLimit:     s.br.MonthlyLimit(),
				TokensUsed:      s.br.MonthlyUsed(),
				TokensRemaining: s.br.RemainingMonthly(),
			}
		}
	}
	if s.br == nil {
		b.TokensRemaining = -1
	}

	return domusage.NewReport(period, start, end, provider, b)
}
