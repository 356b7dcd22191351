package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/domain/criteria"
	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
	"github.com/kailas-cloud/laptopmatch/internal/domain/recommendation"
	"github.com/kailas-cloud/laptopmatch/internal/domain/tier"
	logpkg "github.com/kailas-cloud/laptopmatch/internal/logger"
)

// Comparison size bounds.
const (
	MinCompare = 2
	MaxCompare = 6
)

// DealReason is the rationale attached to every student deal.
const DealReason = "Great student deal available for this model."

// Service runs the recommendation engine over the current catalog snapshot.
type Service struct {
	catalog  CatalogSource
	recorder Recorder
}

// New creates a recommendation service. recorder can be nil.
func New(catalog CatalogSource, recorder Recorder) *Service {
	return &Service{catalog: catalog, recorder: recorder}
}

// Find ranks the catalog against validated criteria.
// An empty result is a normal outcome, not an error.
func (s *Service) Find(ctx context.Context, c criteria.Criteria) []recommendation.Recommendation {
	snapshot := s.catalog.Current()
	recs := FindLaptops(snapshot.All(), c)

	if s.recorder != nil {
		s.recorder.RecordSearch(c.Purpose().String(), len(recs))
	}

	logpkg.FromContext(ctx).Debug("recommendations computed",
		zap.String("purpose", c.Purpose().String()),
		zap.Float64("budget", c.Budget()),
		zap.Bool("portability", c.Portability()),
		zap.String("brand", c.BrandPreference()),
		zap.Int("catalog_size", snapshot.Len()),
		zap.Int("results", len(recs)),
	)
	return recs
}

// Deals lists laptops carrying a student discount, in catalog order.
func (s *Service) Deals(_ context.Context) []recommendation.Recommendation {
	all := s.catalog.Current().All()
	out := make([]recommendation.Recommendation, 0, len(all))
	for _, l := range all {
		if l.StudentDiscount() {
			out = append(out, recommendation.New(l, DealReason, 0))
		}
	}
	return out
}

// List returns the full catalog.
func (s *Service) List(_ context.Context) []laptop.Laptop {
	return s.catalog.Current().All()
}

// Get returns a laptop by id.
func (s *Service) Get(_ context.Context, id string) (laptop.Laptop, error) {
	l, ok := s.catalog.Current().Get(id)
	if !ok {
		return laptop.Laptop{}, fmt.Errorf("%w: %s", domain.ErrLaptopNotFound, id)
	}
	return l, nil
}

// Compare builds comparison rows for MinCompare..MaxCompare distinct laptops, in request order.
func (s *Service) Compare(ctx context.Context, ids []string) ([]recommendation.ComparisonRow, error) {
	ids = dedupe(ids)
	if len(ids) < MinCompare || len(ids) > MaxCompare {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, []domain.FieldError{{
			Field:   "ids",
			Message: fmt.Sprintf("must contain between %d and %d distinct laptop ids", MinCompare, MaxCompare),
		}})
	}
	return s.Rows(ctx, ids)
}

// Rows builds comparison rows for any number of laptops from one snapshot.
func (s *Service) Rows(_ context.Context, ids []string) ([]recommendation.ComparisonRow, error) {
	snapshot := s.catalog.Current()
	rows := make([]recommendation.ComparisonRow, 0, len(ids))
	for _, id := range ids {
		l, ok := snapshot.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrLaptopNotFound, id)
		}
		rows = append(rows, recommendation.NewComparisonRow(l, tier.CPUScore(l.CPU()), tier.GPUScore(l.GPU())))
	}
	return rows, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
