package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/metrics"
)

// BreakerSettings configures the provider circuit breaker.
type BreakerSettings struct {
	Name        string
	MaxFailures uint32        // consecutive failures that open the circuit
	OpenTimeout time.Duration // time spent open before a half-open trial request
}

// Breaker guards text and speech calls with a shared circuit per provider.
// An open circuit fails fast with domain.ErrGenerationUnavailable.
type Breaker struct {
	text    *gobreaker.CircuitBreaker[domain.Generation]
	speech  *gobreaker.CircuitBreaker[domain.Speech]
	inner   domain.TextGenerator
	synth   domain.SpeechSynthesizer
	checker domain.HealthChecker
	logger  *zap.Logger
}

// NewBreaker wraps a generator and an optional synthesizer (may be nil).
func NewBreaker(
	inner domain.TextGenerator, synth domain.SpeechSynthesizer,
	cfg BreakerSettings, logger *zap.Logger,
) *Breaker {
	settings := func(name string) gobreaker.Settings {
		metrics.GenerationBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.MaxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Generation circuit state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
				metrics.GenerationBreakerState.WithLabelValues(name).Set(float64(to))
			},
			IsSuccessful: countsAsSuccess,
		}
	}

	return &Breaker{
		text:   gobreaker.NewCircuitBreaker[domain.Generation](settings(cfg.Name + "-text")),
		speech: gobreaker.NewCircuitBreaker[domain.Speech](settings(cfg.Name + "-speech")),
		inner:  inner,
		synth:  synth,
		logger: logger,
	}
}

// countsAsSuccess keeps caller-side failures from tripping the circuit.
func countsAsSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, domain.ErrGenerationQuotaExceeded) ||
		errors.Is(err, context.Canceled)
}

// Generate runs the inner generator through the circuit.
func (b *Breaker) Generate(ctx context.Context, prompt domain.Prompt) (domain.Generation, error) {
	res, err := b.text.Execute(func() (domain.Generation, error) {
		return b.inner.Generate(ctx, prompt)
	})
	if err != nil {
		return domain.Generation{}, mapBreakerErr(err)
	}
	return res, nil
}

// Synthesize runs the inner synthesizer through the circuit.
func (b *Breaker) Synthesize(ctx context.Context, text string) (domain.Speech, error) {
	if b.synth == nil {
		return domain.Speech{}, domain.ErrNotImplemented
	}
	res, err := b.speech.Execute(func() (domain.Speech, error) {
		return b.synth.Synthesize(ctx, text)
	})
	if err != nil {
		return domain.Speech{}, mapBreakerErr(err)
	}
	return res, nil
}

// WithProviderCheck sets the provider check run by HealthCheck while the circuit is not open.
func (b *Breaker) WithProviderCheck(c domain.HealthChecker) *Breaker {
	b.checker = c
	return b
}

func (b *Breaker) state() gobreaker.State { return b.text.State() }

// HealthCheck fails fast while the text circuit is open, otherwise asks the provider.
func (b *Breaker) HealthCheck(ctx context.Context) error {
	if b.state() == gobreaker.StateOpen {
		return domain.ErrGenerationUnavailable
	}
	if b.checker == nil {
		return nil
	}
	if err := b.checker.HealthCheck(ctx); err != nil {
		return fmt.Errorf("generation health check: %w", err)
	}
	return nil
}

func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}
	return err
}
