package narrative

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/domain/criteria"
	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
	"github.com/kailas-cloud/laptopmatch/internal/domain/purpose"
	logpkg "github.com/kailas-cloud/laptopmatch/internal/logger"
)

// Input limits.
const (
	MaxSoftware     = 20
	MaxSpeechChars  = 4000
	storyMaxTokens  = 400
	compatMaxTokens = 200
)

// Prompt names, used as cache namespaces and metric labels.
const (
	PromptStory         = "story"
	PromptCompatibility = "compatibility"
)

// Service runs the narrative collaborators: story, compatibility analysis, speech.
type Service struct {
	laptops LaptopSource
	gen     domain.TextGenerator
	synth   domain.SpeechSynthesizer
}

// New creates a Service. gen and synth can be nil; the matching operations
// then fail with domain.ErrNotImplemented.
func New(laptops LaptopSource, gen domain.TextGenerator, synth domain.SpeechSynthesizer) *Service {
	return &Service{laptops: laptops, gen: gen, synth: synth}
}

// Story writes a day-in-the-life story of a student using the laptop for the given purpose.
func (s *Service) Story(ctx context.Context, laptopID string, p purpose.Purpose) (string, error) {
	if !p.IsValid() {
		return "", invalid("purpose", "must be one of: study coding design gaming")
	}
	if s.gen == nil {
		return "", domain.ErrNotImplemented
	}
	l, err := s.laptops.Get(ctx, laptopID)
	if err != nil {
		return "", err
	}

	data := dataFor(l)
	data.Purpose = p.String()
	user, err := render(storyTemplate, data)
	if err != nil {
		return "", fmt.Errorf("render story prompt: %w", err)
	}
	return s.generate(ctx, domain.Prompt{
		Name:      PromptStory,
		System:    storySystem,
		User:      user,
		MaxTokens: storyMaxTokens,
	}, l.ID())
}

// Compatibility analyzes how well the laptop runs the listed software.
func (s *Service) Compatibility(ctx context.Context, laptopID string, software []string) (string, error) {
	software = criteria.NormalizeSoftware(software)
	switch {
	case len(software) == 0:
		return "", invalid("software", "is required")
	case len(software) > MaxSoftware:
		return "", invalid("software", fmt.Sprintf("must have at most %d items", MaxSoftware))
	}
	if s.gen == nil {
		return "", domain.ErrNotImplemented
	}
	l, err := s.laptops.Get(ctx, laptopID)
	if err != nil {
		return "", err
	}

	data := dataFor(l)
	data.Software = software
	user, err := render(compatibilityTemplate, data)
	if err != nil {
		return "", fmt.Errorf("render compatibility prompt: %w", err)
	}
	return s.generate(ctx, domain.Prompt{
		Name:      PromptCompatibility,
		System:    compatibilitySystem,
		User:      user,
		MaxTokens: compatMaxTokens,
	}, l.ID())
}

// Speech synthesizes text and returns it as a base64 audio data URI.
func (s *Service) Speech(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return "", invalid("text", "is required")
	case utf8.RuneCountInString(text) > MaxSpeechChars:
		return "", invalid("text", fmt.Sprintf("must have at most %d characters", MaxSpeechChars))
	}
	if s.synth == nil {
		return "", domain.ErrNotImplemented
	}

	sp, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}
	if len(sp.Audio) == 0 {
		return "", fmt.Errorf("%w: empty audio", domain.ErrGenerationProviderError)
	}
	return DataURI(sp), nil
}

// DataURI encodes speech as data:audio/{format};base64,...
func DataURI(sp domain.Speech) string {
	format := sp.Format
	if format == "" {
		format = "wav"
	}
	return "data:audio/" + format + ";base64," + base64.StdEncoding.EncodeToString(sp.Audio)
}

func (s *Service) generate(ctx context.Context, prompt domain.Prompt, laptopID string) (string, error) {
	res, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", prompt.Name, err)
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty %s", domain.ErrGenerationProviderError, prompt.Name)
	}

	logpkg.FromContext(ctx).Debug("narrative generated",
		zap.String("prompt", prompt.Name),
		zap.String("laptop_id", laptopID),
		zap.Int("tokens", res.TotalTokens),
	)
	return text, nil
}

func dataFor(l laptop.Laptop) promptData {
	return promptData{Name: l.Name(), CPU: l.CPU(), GPU: l.GPU(), RAM: l.RAM()}
}

func invalid(field, msg string) error {
	return domain.NewValidationError(domain.ErrInvalidInput, []domain.FieldError{{Field: field, Message: msg}})
}
