// Package gencache caches generated text in the key-value store.
package gencache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/db"
	"github.com/kailas-cloud/laptopmatch/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "gen_cache:"

// store is the consumer interface for the generation cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// entry is the cached payload.
type entry struct {
	Text string `json:"text"`
}

// CachedGenerator caches generations keyed by the full prompt.
type CachedGenerator struct {
	inner      domain.TextGenerator
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. ttl <= 0 keeps entries until evicted.
// cacheTotal is a counter vec with labels "prompt" and "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.TextGenerator,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGenerator {
	return &CachedGenerator{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Generate returns a cached generation or calls the inner generator.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
func (c *CachedGenerator) Generate(ctx context.Context, prompt domain.Prompt) (domain.Generation, error) {
	key := cacheKey(prompt)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache(prompt.Name, "hit")
		return domain.Generation{Text: text}, nil
	}

	c.incCache(prompt.Name, "miss")

	result, err := c.inner.Generate(ctx, prompt)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("generate %s: %w", prompt.Name, err)
	}

	c.putToCache(ctx, key, result.Text)
	return result, nil
}

func (c *CachedGenerator) incCache(prompt, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(prompt, result).Inc()
	}
}

func cacheKey(p domain.Prompt) string {
	h := sha256.New()
	for _, part := range []string{p.System, p.User, strconv.Itoa(p.MaxTokens)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return cacheKeyPrefix + p.Name + ":" + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedGenerator) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached generation", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Text == "" {
		c.logger.Warn("Failed to parse cached generation", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return e.Text, true
}

func (c *CachedGenerator) putToCache(ctx context.Context, key, text string) {
	if text == "" {
		return
	}
	data, err := json.Marshal(entry{Text: text})
	if err != nil {
		c.logger.Warn("Failed to encode generation for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	} else {
		err = c.store.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Failed to cache generation", zap.String("key", key), zap.Error(err))
	}
}
