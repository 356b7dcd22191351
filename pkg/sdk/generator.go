package laptopmatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
)

// Generator produces text for the narrative features.
// Optional: without it Story and Compatibility return ErrNotImplemented.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// GenerationRequest is a chat-style prompt.
type GenerationRequest struct {
	System    string
	User      string
	MaxTokens int
}

// GenerationResult carries generated text and token counts.
type GenerationResult struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}

// generatorAdapter bridges a public Generator to domain.TextGenerator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, p domain.Prompt) (domain.Generation, error) {
	res, err := a.inner.Generate(ctx, GenerationRequest{System: p.System, User: p.User, MaxTokens: p.MaxTokens})
	if err != nil {
		if errors.Is(err, domain.ErrGenerationProviderError) {
			return domain.Generation{}, err
		}
		return domain.Generation{}, fmt.Errorf("%w: %w", domain.ErrGenerationProviderError, err)
	}
	return domain.Generation{Text: res.Text, PromptTokens: res.PromptTokens, TotalTokens: res.TotalTokens}, nil
}
