package generation

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
)

// BudgetAction defines behavior when the token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

// BudgetStore is the persistence interface for budget counters.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// budgetWindow is one calendar-aligned token counter (a day or a month).
type budgetWindow struct {
	name     string
	layout   string
	truncate func(time.Time) time.Time
	limit    int64
	used     int64
	start    time.Time
}

func newDailyWindow(limit int64, now time.Time) *budgetWindow {
	return &budgetWindow{name: "daily", layout: "2006-01-02", truncate: truncateToDay, limit: limit, start: truncateToDay(now)}
}

func newMonthlyWindow(limit int64, now time.Time) *budgetWindow {
	return &budgetWindow{name: "monthly", layout: "2006-01", truncate: truncateToMonth, limit: limit, start: truncateToMonth(now)}
}

// roll zeroes the counter once now falls into a later window and reports whether it did.
func (w *budgetWindow) roll(now time.Time) bool {
	cur := w.truncate(now)
	if !cur.After(w.start) {
		return false
	}
	w.used = 0
	w.start = cur
	return true
}

func (w *budgetWindow) exceeded() bool { return w.limit > 0 && w.used >= w.limit }

// remaining returns tokens left in the window (-1 if unlimited).
func (w *budgetWindow) remaining() int64 {
	if w.limit == 0 {
		return -1
	}
	return max(w.limit-w.used, 0)
}

func (w *budgetWindow) key(provider string, t time.Time) string {
	return fmt.Sprintf("%sbudget:%s:%s:%s", domain.KeyPrefix, provider, w.name, t.Format(w.layout))
}

// BudgetTracker is an in-memory token budget with optional write-behind persistence.
// Alongside the daily and monthly totals it keeps today's consumption per prompt
// kind, so the usage report can show which narrative (explanation, story,
// compatibility) spends the budget. Check never touches the store.
type BudgetTracker struct {
	mu       sync.Mutex
	daily    *budgetWindow
	monthly  *budgetWindow
	byPrompt map[string]int64
	action   BudgetAction
	provider string
	store    BudgetStore
	now      func() time.Time
	logger   *zap.Logger
}

// NewBudgetTracker creates a budget tracker. A zero limit means unlimited.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	b := &BudgetTracker{
		byPrompt: make(map[string]int64),
		action:   action,
		provider: provider,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
	now := b.now()
	b.daily = newDailyWindow(dailyLimit, now)
	b.monthly = newMonthlyWindow(monthlyLimit, now)
	return b
}

// WithStore attaches a persistence store and loads current counters.
// Per-prompt counters are not persisted and start empty.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.store = store
	b.loadFromStore(ctx)
	return b
}

func (b *BudgetTracker) loadFromStore(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for _, w := range b.windows() {
		val, err := b.store.Get(ctx, w.key(b.provider, now))
		if err != nil {
			b.logger.Warn("Failed to load budget from store", zap.String("window", w.name), zap.Error(err))
			continue
		}
		w.used = val
	}

	b.logger.Info("Budget loaded from store",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.daily.used),
		zap.Int64("monthly_used", b.monthly.used),
	)
}

func (b *BudgetTracker) windows() [2]*budgetWindow {
	return [2]*budgetWindow{b.daily, b.monthly}
}

// Check verifies the budget allows a new request.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollLocked()
	if !b.daily.exceeded() && !b.monthly.exceeded() {
		return nil
	}

	if b.action == BudgetActionReject {
		return domain.ErrGenerationQuotaExceeded
	}

	b.logger.Warn("Token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.daily.used),
		zap.Int64("daily_limit", b.daily.limit),
		zap.Int64("monthly_used", b.monthly.used),
		zap.Int64("monthly_limit", b.monthly.limit),
		zap.Any("daily_by_prompt", b.byPrompt),
	)
	return nil
}

// Record registers tokens consumed by one prompt kind, then writes the window
// totals behind to the store (if attached). An empty prompt is counted as "unnamed".
func (b *BudgetTracker) Record(prompt string, tokens int64) {
	if prompt == "" {
		prompt = "unnamed"
	}

	b.mu.Lock()
	b.rollLocked()
	now := b.now()
	keys := make([]string, 0, 2)
	for _, w := range b.windows() {
		w.used += tokens
		keys = append(keys, w.key(b.provider, now))
	}
	b.byPrompt[prompt] += tokens
	store := b.store
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Detached from the request so a cancelled client does not lose accounting.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, key := range keys {
		if err := store.IncrBy(ctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Provider returns the provider the budget belongs to.
func (b *BudgetTracker) Provider() string { return b.provider }

// RemainingDaily returns tokens left today (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.daily.remaining()
}

// RemainingMonthly returns tokens left this month (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.monthly.remaining()
}

// DailyLimit returns the daily token cap.
func (b *BudgetTracker) DailyLimit() int64 { return b.daily.limit }

// MonthlyLimit returns the monthly token cap.
func (b *BudgetTracker) MonthlyLimit() int64 { return b.monthly.limit }

// DailyUsed returns tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.daily.used
}

// MonthlyUsed returns tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.monthly.used
}

// DailyUsedByPrompt returns a copy of today's consumption keyed by prompt kind.
func (b *BudgetTracker) DailyUsedByPrompt() map[string]int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return maps.Clone(b.byPrompt)
}

// rollLocked advances both windows; the per-prompt breakdown follows the daily one.
func (b *BudgetTracker) rollLocked() {
	now := b.now()
	if b.daily.roll(now) {
		clear(b.byPrompt)
	}
	b.monthly.roll(now)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
