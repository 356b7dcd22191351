package recommend

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kailas-cloud/laptopmatch/internal/domain/criteria"
	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
	"github.com/kailas-cloud/laptopmatch/internal/domain/purpose"
	"github.com/kailas-cloud/laptopmatch/internal/domain/recommendation"
	"github.com/kailas-cloud/laptopmatch/internal/domain/tier"
)

// MaxResults caps the number of recommendations per search.
const MaxResults = 5

// FindLaptops filters the catalog by the hard constraints, scores the survivors
// for the purpose and returns the best MaxResults, highest score first.
// Equal scores keep catalog order. The catalog is not modified.
// Never returns nil: an empty catalog or no match yields an empty slice.
func FindLaptops(catalog []laptop.Laptop, c criteria.Criteria) []recommendation.Recommendation {
	type scored struct {
		laptop laptop.Laptop
		score  float64
	}

	candidates := make([]scored, 0, len(catalog))
	for _, l := range catalog {
		if Matches(l, c) {
			candidates = append(candidates, scored{laptop: l, score: Score(l, c)})
		}
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if len(candidates) > MaxResults {
		candidates = candidates[:MaxResults]
	}

	out := make([]recommendation.Recommendation, len(candidates))
	for i, s := range candidates {
		out[i] = recommendation.New(s.laptop, Reason(s.laptop, c.Purpose()), s.score)
	}
	return out
}

// Filter returns the laptops passing every hard constraint, in catalog order.
func Filter(catalog []laptop.Laptop, c criteria.Criteria) []laptop.Laptop {
	out := make([]laptop.Laptop, 0, len(catalog))
	for _, l := range catalog {
		if Matches(l, c) {
			out = append(out, l)
		}
	}
	return out
}

// Matches reports whether the laptop passes all hard constraints: price within
// budget, tagged for the purpose, brand preference and portability.
func Matches(l laptop.Laptop, c criteria.Criteria) bool {
	if float64(l.Price()) > c.Budget() {
		return false
	}
	if !l.Suits(c.Purpose()) {
		return false
	}
	if c.HasBrandPreference() && !l.IsBrand(c.BrandPreference()) {
		return false
	}
	if c.Portability() && l.Weight() > criteria.PortableMaxWeight {
		return false
	}
	return true
}

// Score computes the purpose-weighted composite score.
// The price fraction of the budget is added, so pricier laptops within budget score higher.
func Score(l laptop.Laptop, c criteria.Criteria) float64 {
	w := c.Purpose().Weights()

	var priceShare float64
	if c.Budget() > 0 {
		priceShare = float64(l.Price()) / c.Budget()
	}

	return float64(l.RAM())*w.RAM +
		float64(tier.CPUScore(l.CPU()))*w.CPU +
		float64(tier.GPUScore(l.GPU()))*w.GPU +
		priceShare*w.Price
}

// Reason renders the templated rationale for a recommendation.
func Reason(l laptop.Laptop, p purpose.Purpose) string {
	return fmt.Sprintf(
		"A great choice for %s, featuring a %s, %dGB of RAM, and a capable %s. It fits perfectly within your budget.",
		p, l.CPU(), l.RAM(), l.GPU(),
	)
}
