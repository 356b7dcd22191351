// Package generation holds the decorators wrapped around the text and speech provider:
// token budget enforcement, logging and circuit breaking.
package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(prompt string, tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedGenerator wraps a TextGenerator with budget enforcement, per-request usage and logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedGenerator struct {
	inner    domain.TextGenerator
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedGenerator wraps a generator. budget can be nil (unlimited).
func NewInstrumentedGenerator(
	inner domain.TextGenerator, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedGenerator {
	return &InstrumentedGenerator{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Generate checks the budget, delegates, and records usage.
func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt domain.Prompt) (domain.Generation, error) {
	if g.budget != nil {
		if err := g.budget.Check(ctx); err != nil {
			g.logger.Error("Budget exceeded",
				zap.String("provider", g.provider),
				zap.String("model", g.model),
				zap.String("prompt", prompt.Name),
				zap.Error(err),
			)
			return domain.Generation{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	result, err := g.inner.Generate(ctx, prompt)
	duration := time.Since(start)

	if err != nil {
		g.logger.Error("Generation request failed",
			zap.String("provider", g.provider),
			zap.String("model", g.model),
			zap.String("prompt", prompt.Name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Generation{}, fmt.Errorf("generate: %w", err)
	}

	// Usage is marked even on a cache hit so the response still carries the header.
	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)

	if g.budget != nil && result.TotalTokens > 0 {
		g.budget.Record(prompt.Name, int64(result.TotalTokens))
		remaining := metrics.GenerationBudgetTokensRemaining
		remaining.WithLabelValues(g.provider, "daily").Set(float64(g.budget.RemainingDaily()))
		remaining.WithLabelValues(g.provider, "monthly").Set(float64(g.budget.RemainingMonthly()))
	}

	g.logger.Debug("Generation request completed",
		zap.String("provider", g.provider),
		zap.String("model", g.model),
		zap.String("prompt", prompt.Name),
		zap.Duration("duration", duration),
		zap.Int("chars", len(result.Text)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// InstrumentedSynthesizer applies the budget gate to speech synthesis.
// Speech is not billed in tokens, so it only checks and never records.
type InstrumentedSynthesizer struct {
	inner    domain.SpeechSynthesizer
	provider string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedSynthesizer wraps a synthesizer. budget can be nil.
func NewInstrumentedSynthesizer(
	inner domain.SpeechSynthesizer, provider string, budget BudgetChecker, logger *zap.Logger,
) *InstrumentedSynthesizer {
	return &InstrumentedSynthesizer{inner: inner, provider: provider, budget: budget, logger: logger}
}

// Synthesize checks the budget and delegates.
func (s *InstrumentedSynthesizer) Synthesize(ctx context.Context, text string) (domain.Speech, error) {
	if s.budget != nil {
		if err := s.budget.Check(ctx); err != nil {
			return domain.Speech{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	speech, err := s.inner.Synthesize(ctx, text)
	if err != nil {
		s.logger.Error("Speech request failed",
			zap.String("provider", s.provider),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return domain.Speech{}, fmt.Errorf("synthesize: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(0)

	s.logger.Debug("Speech request completed",
		zap.String("provider", s.provider),
		zap.Duration("duration", time.Since(start)),
		zap.Int("text_chars", len(text)),
		zap.Int("audio_bytes", len(speech.Audio)),
	)
	return speech, nil
}
