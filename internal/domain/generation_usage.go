package domain

import "context"

type generationUsageKey struct{}

// GenerationUsage collects token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after generation; the handler reads it for response headers.
type GenerationUsage struct {
	TotalTokens int
	Used        bool // true if generation was called, even on a cache hit with 0 tokens
}

// NewContextWithUsage returns a context with an attached usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *GenerationUsage) {
	u := &GenerationUsage{}
	return context.WithValue(ctx, generationUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *GenerationUsage {
	u, _ := ctx.Value(generationUsageKey{}).(*GenerationUsage)
	return u
}

// AddTokens records consumed tokens.
func (u *GenerationUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Used = true
	}
}
