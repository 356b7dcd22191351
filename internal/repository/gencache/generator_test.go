package gencache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/db"
	"github.com/kailas-cloud/laptopmatch/internal/domain"
)

type mockGenerator struct {
	result domain.Generation
	err    error
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context, _ domain.Prompt) (domain.Generation, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore is an in-memory map honoring the consumer interface.
type mockKVStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.ttls[key] = ttl
	return m.Set(ctx, key, value)
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"prompt", "result"})
}

var storyPrompt = domain.Prompt{Name: "story", System: "sys", User: "Dell XPS 13", MaxTokens: 400}

func TestGenerate_MissThenHit(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "A day with the XPS", PromptTokens: 40, TotalTokens: 300}}
	ms := newMockKVStore()
	counter := newCounter()
	g := New(inner, ms, time.Hour, counter, zap.NewNop())
	ctx := context.Background()

	first, err := g.Generate(ctx, storyPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 300 {
		t.Errorf("miss must report provider tokens, got %d", first.TotalTokens)
	}

	second, err := g.Generate(ctx, storyPrompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Text != first.Text {
		t.Errorf("cached text = %q", second.Text)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit must report zero tokens, got %d", second.TotalTokens)
	}
	if inner.calls != 1 {
		t.Errorf("provider called %d times, want 1", inner.calls)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("story", "hit")); v != 1 {
		t.Errorf("hit counter = %f", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("story", "miss")); v != 1 {
		t.Errorf("miss counter = %f", v)
	}
}

func TestGenerate_TTLApplied(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "ok"}}
	ms := newMockKVStore()
	g := New(inner, ms, 2*time.Hour, nil, zap.NewNop())

	_, _ = g.Generate(context.Background(), storyPrompt)

	if len(ms.ttls) != 1 {
		t.Fatalf("expected SetWithTTL, got %d calls", len(ms.ttls))
	}
	for key, ttl := range ms.ttls {
		if ttl != 2*time.Hour {
			t.Errorf("ttl = %v", ttl)
		}
		if !strings.HasPrefix(key, "laptopmatch:gen_cache:story:") {
			t.Errorf("unexpected key %q", key)
		}
	}
}

func TestGenerate_NoTTL(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "ok"}}
	ms := newMockKVStore()
	g := New(inner, ms, 0, nil, zap.NewNop())

	_, _ = g.Generate(context.Background(), storyPrompt)

	if len(ms.ttls) != 0 || len(ms.data) != 1 {
		t.Fatalf("expected plain Set, ttls=%d data=%d", len(ms.ttls), len(ms.data))
	}
}

func TestGenerate_DifferentPromptsDifferentKeys(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "ok"}}
	ms := newMockKVStore()
	g := New(inner, ms, 0, nil, zap.NewNop())

	other := storyPrompt
	other.User = "Dell G15"
	_, _ = g.Generate(context.Background(), storyPrompt)
	_, _ = g.Generate(context.Background(), other)

	if inner.calls != 2 || len(ms.data) != 2 {
		t.Fatalf("calls=%d keys=%d, want 2/2", inner.calls, len(ms.data))
	}
}

func TestGenerate_InnerError(t *testing.T) {
	inner := &mockGenerator{err: domain.ErrGenerationProviderError}
	ms := newMockKVStore()
	g := New(inner, ms, 0, nil, zap.NewNop())

	_, err := g.Generate(context.Background(), storyPrompt)
	if !errors.Is(err, domain.ErrGenerationProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(ms.data) != 0 {
		t.Error("failures must not be cached")
	}
}

func TestGenerate_StoreErrorsAreNotFatal(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "ok", TotalTokens: 5}}
	ms := newMockKVStore()
	ms.getErr = errors.New("store down")
	ms.setErr = errors.New("store down")
	g := New(inner, ms, time.Minute, nil, zap.NewNop())

	res, err := g.Generate(context.Background(), storyPrompt)
	if err != nil {
		t.Fatalf("store failure must fall through to provider, got %v", err)
	}
	if res.Text != "ok" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestGenerate_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockGenerator{result: domain.Generation{Text: "fresh"}}
	ms := newMockKVStore()
	ms.data[cacheKey(storyPrompt)] = []byte("{broken")
	g := New(inner, ms, 0, nil, zap.NewNop())

	res, err := g.Generate(context.Background(), storyPrompt)
	if err != nil || res.Text != "fresh" {
		t.Fatalf("Generate = %q, %v", res.Text, err)
	}
}
