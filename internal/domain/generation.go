package domain

import (
	"context"
	"fmt"
)

// Prompt is a single text-generation request.
type Prompt struct {
	// Name identifies the prompt template (metrics label, cache namespace).
	Name      string
	System    string
	User      string
	MaxTokens int
}

// Generation carries generated text and token usage through the decorator chain.
type Generation struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}

// TextGenerator is the shared text generation contract between layers.
type TextGenerator interface {
	Generate(ctx context.Context, prompt Prompt) (Generation, error)
}

// Speech is synthesized audio.
type Speech struct {
	Audio  []byte
	Format string // wav, mp3, ...
}

// SpeechSynthesizer turns text into audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (Speech, error)
}

// HealthChecker verifies generation provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// InstructionGenerator is a domain decorator that appends a fixed instruction to the system prompt.
type InstructionGenerator struct {
	inner       TextGenerator
	instruction string
}

// NewInstructionGenerator creates a decorator that appends instruction text.
func NewInstructionGenerator(inner TextGenerator, instruction string) *InstructionGenerator {
	return &InstructionGenerator{inner: inner, instruction: instruction}
}

// Generate appends the instruction and delegates to the inner generator.
func (g *InstructionGenerator) Generate(ctx context.Context, prompt Prompt) (Generation, error) {
	if g.instruction != "" {
		if prompt.System == "" {
			prompt.System = g.instruction
		} else {
			prompt.System = prompt.System + "\n\n" + g.instruction
		}
	}
	result, err := g.inner.Generate(ctx, prompt)
	if err != nil {
		return Generation{}, fmt.Errorf("instruction generate: %w", err)
	}
	return result, nil
}
